package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWatchlistMissingFile(t *testing.T) {
	t.Parallel()

	ids, err := loadWatchlist(filepath.Join(t.TempDir(), "none.txt"))
	if err != nil {
		t.Fatalf("expected no error for missing watchlist, got %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty watchlist, got %v", ids)
	}
}

func TestSaveToWatchlistDeduplicates(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data", "watchlist.txt")

	for _, tc := range []struct {
		id    int64
		added bool
	}{
		{6762810145, true},
		{6762810635, true},
		{6762810145, false},
	} {
		added, err := saveToWatchlist(path, tc.id)
		if err != nil {
			t.Fatalf("save %d: %v", tc.id, err)
		}
		if added != tc.added {
			t.Fatalf("save %d: expected added=%v, got %v", tc.id, tc.added, added)
		}
	}

	ids, err := loadWatchlist(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(ids) != 2 || ids[0] != 6762810145 || ids[1] != 6762810635 {
		t.Fatalf("unexpected watchlist %v", ids)
	}
}

func TestLoadWatchlistSkipsBlankAndComments(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "watchlist.txt")
	if err := os.WriteFile(path, []byte("# saved\n\n 42 \n7\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ids, err := loadWatchlist(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(ids) != 2 || ids[0] != 42 || ids[1] != 7 {
		t.Fatalf("unexpected watchlist %v", ids)
	}

	if err := os.WriteFile(path, []byte("42\nnot-an-id\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := loadWatchlist(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
