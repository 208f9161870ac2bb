package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"appraiser/internal/types"
)

const header = "id,Date,number of bedrooms,number of bathrooms,living area,waterfront present,condition of the house,Distance from the airport,Number of schools nearby,Lattitude,Longitude,Price\n"

func TestReadCSV(t *testing.T) {
	t.Parallel()

	data := header +
		"6762810145,42491,5,2.5,3650,0,3,50,2,52.8645,-114.557,2380000\n" +
		"6762810635,42491,4,2.5,2920,1,5,72,1,52.8878,-114.47,1400000\n" +
		"6762810998.0,42491,3,1.0,1500,0,4,15,3,52.79,-114.4,480000.5\n"

	res, err := ReadCSV(strings.NewReader(data), nil)
	if err != nil {
		t.Fatalf("ReadCSV returned error: %v", err)
	}
	if res.Skipped != 0 {
		t.Fatalf("expected no skipped rows, got %d", res.Skipped)
	}
	if res.Store.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", res.Store.Len())
	}

	rec, ok := res.Store.Lookup(6762810635)
	if !ok {
		t.Fatalf("expected record 6762810635")
	}
	want := types.Features{
		Bedrooms:          4,
		Bathrooms:         2.5,
		LivingArea:        2920,
		Waterfront:        true,
		Condition:         5,
		AirportDistanceKm: 72,
		SchoolsNearby:     1,
		Latitude:          52.8878,
		Longitude:         -114.47,
	}
	if rec.Features != want {
		t.Fatalf("expected %+v, got %+v", want, rec.Features)
	}
	if rec.Price != 1400000 {
		t.Fatalf("expected price 1400000, got %v", rec.Price)
	}

	if _, ok := res.Store.Lookup(6762810998); !ok {
		t.Fatalf("expected float-formatted id to be accepted")
	}

	all := res.Store.Records()
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Fatalf("expected records sorted by id, got %d before %d", all[i-1].ID, all[i].ID)
		}
	}
}

func TestReadCSVSkipsInvalidRows(t *testing.T) {
	t.Parallel()

	data := header +
		"1,0,3,2,2000,0,3,10,2,52.76,-114.41,500000\n" +
		"2,0,0,2,2000,0,3,10,2,52.76,-114.41,500000\n" + // no bedrooms
		"3,0,3,2,2000,2,3,10,2,52.76,-114.41,500000\n" + // waterfront not a flag
		"4,0,3,2,2000,0,9,10,2,52.76,-114.41,500000\n" + // condition out of range
		"5,0,3.5,2,2000,0,3,10,2,52.76,-114.41,500000\n" + // fractional bedrooms
		"6,0,3,2,2000,0,3,10,2,52.76,-114.41,\n" + // no price
		"7,0,3,2\n" + // short row
		"x,0,3,2,2000,0,3,10,2,52.76,-114.41,500000\n" +
		"8,0,3,2,20\"00,0,3,10,2,52.76,-114.41,500000\n" + // bare quote
		"9,0,4,2,2100,0,3,10,2,52.76,-114.41,510000\n"

	res, err := ReadCSV(strings.NewReader(data), nil)
	if err != nil {
		t.Fatalf("ReadCSV returned error: %v", err)
	}
	if res.Store.Len() != 2 {
		t.Fatalf("expected 2 valid records, got %d", res.Store.Len())
	}
	if res.Skipped != 8 {
		t.Fatalf("expected 8 skipped rows, got %d", res.Skipped)
	}
	if _, ok := res.Store.Lookup(9); !ok {
		t.Fatalf("expected the row after a malformed one to load")
	}
}

func TestReadCSVErrors(t *testing.T) {
	t.Parallel()

	if _, err := ReadCSV(strings.NewReader(""), nil); err == nil {
		t.Fatalf("expected error for empty input")
	}

	_, err := ReadCSV(strings.NewReader("id,number of bedrooms,Price\n1,3,100\n"), nil)
	if err == nil || !strings.Contains(err.Error(), "missing columns") {
		t.Fatalf("expected missing columns error, got %v", err)
	}
	if !strings.Contains(err.Error(), types.FieldLatitude) {
		t.Fatalf("expected missing column names in error, got %v", err)
	}

	dup := header +
		"1,0,3,2,2000,0,3,10,2,52.76,-114.41,500000\n" +
		"1,0,4,2,2100,0,3,10,2,52.76,-114.41,510000\n"
	if _, err := ReadCSV(strings.NewReader(dup), nil); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestLoadCSVFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "houses.csv")
	data := "\ufeff" + header + "9,0,3,2,2000,0,3,10,2,52.76,-114.41,500000\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := LoadCSV(path, nil)
	if err != nil {
		t.Fatalf("LoadCSV returned error: %v", err)
	}
	if _, ok := res.Store.Lookup(9); !ok {
		t.Fatalf("expected record 9")
	}

	if _, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"), nil); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestStoreLookupMiss(t *testing.T) {
	t.Parallel()

	s, err := NewStore([]types.PropertyRecord{{ID: 3}, {ID: 1}})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, ok := s.Lookup(2); ok {
		t.Fatalf("expected miss for unknown id")
	}
	if got := s.Records(); got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("expected sorted records, got %+v", got)
	}
}

func TestFeaturesFromValues(t *testing.T) {
	t.Parallel()

	f, err := FeaturesFromValues([]float64{3, 2, 2000, 0, 3, 10, 2, 52.7609, -114.418})
	if err != nil {
		t.Fatalf("FeaturesFromValues: %v", err)
	}
	if f.Bedrooms != 3 || f.Waterfront || f.Longitude != -114.418 {
		t.Fatalf("unexpected features %+v", f)
	}

	if _, err := FeaturesFromValues([]float64{3, 2}); err == nil {
		t.Fatalf("expected arity error")
	}
}
