package dataset

import (
	"fmt"
	"sort"

	"appraiser/internal/types"
)

// Store is an immutable ID index over the reference dataset.
type Store struct {
	byID    map[int64]types.PropertyRecord
	ordered []types.PropertyRecord
}

// NewStore indexes records by ID. IDs must be unique.
func NewStore(records []types.PropertyRecord) (*Store, error) {
	byID := make(map[int64]types.PropertyRecord, len(records))
	for _, r := range records {
		if _, dup := byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate property id %d", r.ID)
		}
		byID[r.ID] = r
	}

	ordered := make([]types.PropertyRecord, 0, len(byID))
	for _, r := range byID {
		ordered = append(ordered, r)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	return &Store{byID: byID, ordered: ordered}, nil
}

// Lookup returns the record with the given ID.
func (s *Store) Lookup(id int64) (types.PropertyRecord, bool) {
	r, ok := s.byID[id]
	return r, ok
}

// Records returns every record sorted by ID. Callers must not modify the slice.
func (s *Store) Records() []types.PropertyRecord {
	return s.ordered
}

// Len reports the number of records.
func (s *Store) Len() int {
	return len(s.ordered)
}
