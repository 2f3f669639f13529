// Package dataset loads the Wimbledon finals data file and serves lookups
// from memory. The file is read once at startup; a malformed file is a fatal
// startup error rather than a runtime 500.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"wimbledon-api/internal/domain/entity"
)

// Store holds the loaded dataset. It is immutable after Load and safe for
// concurrent use.
type Store struct {
	results map[int]entity.Result
	years   []int
}

// Load reads and validates the data file at path. Every record must pass
// entity validation and its map key must match the embedded year field.
func Load(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}

	var records map[string]entity.Result
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse data file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("data file %s contains no records", path)
	}

	s := &Store{results: make(map[int]entity.Result, len(records))}
	for key, r := range records {
		year, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("data file %s: non-numeric year key %q", path, key)
		}
		if year != r.Year {
			return nil, fmt.Errorf("data file %s: key %d does not match record year %d", path, year, r.Year)
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("data file %s: invalid record for %d: %w", path, year, err)
		}
		s.results[year] = r
		s.years = append(s.years, year)
	}
	sort.Ints(s.years)
	return s, nil
}

// Get returns the final for year, or entity.ErrYearNotFound.
func (s *Store) Get(year int) (entity.Result, error) {
	r, ok := s.results[year]
	if !ok {
		return entity.Result{}, fmt.Errorf("%w: %d", entity.ErrYearNotFound, year)
	}
	return r, nil
}

// Years returns all covered years in ascending order. The slice is a copy.
func (s *Store) Years() []int {
	out := make([]int, len(s.years))
	copy(out, s.years)
	return out
}

// Bounds returns the smallest and largest covered year.
func (s *Store) Bounds() (min, max int) {
	return s.years[0], s.years[len(s.years)-1]
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.results) }
