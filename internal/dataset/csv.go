package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"appraiser/internal/types"
)

// Column headers besides the feature names.
const (
	ColumnID    = "id"
	ColumnPrice = "Price"
)

// LoadResult summarizes a dataset load.
type LoadResult struct {
	Store   *Store
	Skipped int
}

// LoadCSV reads a header-driven CSV file. Rows that fail to parse or fall outside the
// feature domains are skipped and counted; a missing column or duplicate ID fails the load.
func LoadCSV(path string, log *slog.Logger) (LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	res, err := ReadCSV(f, log)
	if err != nil {
		return LoadResult{}, fmt.Errorf("dataset %s: %w", path, err)
	}
	return res, nil
}

// ReadCSV is LoadCSV over an arbitrary reader.
func ReadCSV(r io.Reader, log *slog.Logger) (LoadResult, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return LoadResult{}, fmt.Errorf("file is empty")
		}
		return LoadResult{}, fmt.Errorf("read header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return LoadResult{}, err
	}

	type row struct {
		line   int
		fields []string
		err    error // set when the row could not be tokenized
	}

	// Pipeline: producer (I/O) -> workers (CPU-bound parsing)
	rowsCh := make(chan row, 4096)

	var (
		mu      sync.Mutex
		records []types.PropertyRecord
		skipped int
	)

	workers := runtime.NumCPU()
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for rw := range rowsCh {
				var rec types.PropertyRecord
				perr := rw.err
				if perr == nil {
					rec, perr = cols.parse(rw.fields)
				}
				mu.Lock()
				if perr != nil {
					skipped++
					log.Warn("skipping dataset row", "row", rw.line, "error", perr)
				} else {
					records = append(records, rec)
				}
				mu.Unlock()
			}
		}()
	}

	var readErr error
	line := 1
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			// A malformed row costs only that row; the reader resumes at the next record.
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				rowsCh <- row{line: line, err: pe.Err}
				continue
			}
			readErr = fmt.Errorf("read row %d: %w", line, err)
			break
		}
		rowsCh <- row{line: line, fields: fields}
	}
	close(rowsCh)
	wg.Wait()

	if readErr != nil {
		return LoadResult{}, readErr
	}

	store, err := NewStore(records)
	if err != nil {
		return LoadResult{}, err
	}
	log.Info("dataset loaded", "records", store.Len(), "skipped", skipped)
	return LoadResult{Store: store, Skipped: skipped}, nil
}

// columns maps the id, feature and price headers to field positions.
type columns struct {
	id       int
	price    int
	features [types.NumFeatures]int
}

func columnIndex(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}

	var c columns
	var missing []string
	find := func(name string) int {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}

	c.id = find(ColumnID)
	for i, name := range types.FeatureSchema {
		c.features[i] = find(name)
	}
	c.price = find(ColumnPrice)

	if len(missing) > 0 {
		return columns{}, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return c, nil
}

func (c columns) parse(fields []string) (types.PropertyRecord, error) {
	get := func(i int) string {
		if i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	id, err := strconv.ParseInt(get(c.id), 10, 64)
	if err != nil {
		// Some exports write integral IDs as floats.
		f, ferr := strconv.ParseFloat(get(c.id), 64)
		if ferr != nil || f != math.Trunc(f) {
			return types.PropertyRecord{}, fmt.Errorf("id %q: %w", get(c.id), err)
		}
		id = int64(f)
	}

	vals := make([]float64, types.NumFeatures)
	for i, name := range types.FeatureSchema {
		v, err := strconv.ParseFloat(get(c.features[i]), 64)
		if err != nil {
			return types.PropertyRecord{}, fmt.Errorf("%s %q: %w", name, get(c.features[i]), err)
		}
		vals[i] = v
	}

	price, err := strconv.ParseFloat(get(c.price), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return types.PropertyRecord{}, fmt.Errorf("price %q: not a finite number", get(c.price))
	}

	f, err := FeaturesFromValues(vals)
	if err != nil {
		return types.PropertyRecord{}, err
	}
	return types.PropertyRecord{ID: id, Features: f, Price: price}, nil
}

// FeaturesFromValues decodes numeric columns in schema order into typed, validated
// features. Count columns must be integral and the waterfront column 0 or 1.
func FeaturesFromValues(vals []float64) (types.Features, error) {
	if len(vals) != types.NumFeatures {
		return types.Features{}, fmt.Errorf("expected %d feature values, got %d", types.NumFeatures, len(vals))
	}

	integral := func(name string, v float64) (int, error) {
		if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			return 0, fmt.Errorf("%s must be a whole number, got %v", name, v)
		}
		return int(v), nil
	}

	var (
		f   types.Features
		err error
	)
	if f.Bedrooms, err = integral(types.FieldBedrooms, vals[0]); err != nil {
		return types.Features{}, err
	}
	f.Bathrooms = vals[1]
	if f.LivingArea, err = integral(types.FieldLivingArea, vals[2]); err != nil {
		return types.Features{}, err
	}
	switch vals[3] {
	case 0:
	case 1:
		f.Waterfront = true
	default:
		return types.Features{}, fmt.Errorf("%s must be 0 or 1, got %v", types.FieldWaterfront, vals[3])
	}
	if f.Condition, err = integral(types.FieldCondition, vals[4]); err != nil {
		return types.Features{}, err
	}
	f.AirportDistanceKm = vals[5]
	if f.SchoolsNearby, err = integral(types.FieldSchools, vals[6]); err != nil {
		return types.Features{}, err
	}
	f.Latitude = vals[7]
	f.Longitude = vals[8]

	if err := f.Validate(); err != nil {
		return types.Features{}, err
	}
	return f, nil
}
