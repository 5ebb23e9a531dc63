package mesh

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ResultStore keeps the most recent attempt results for the HTTP endpoints.
// Only the newest capacity results are kept.
type ResultStore struct {
	mu       sync.RWMutex
	results  map[string]*AttemptResult
	order    []string
	capacity int
}

// NewResultStore creates a store holding at most capacity results
// (capacity < 1 is treated as 1).
func NewResultStore(capacity int) *ResultStore {
	if capacity < 1 {
		capacity = 1
	}
	return &ResultStore{
		results:  make(map[string]*AttemptResult),
		capacity: capacity,
	}
}

// Put stores a result, evicting the oldest one when full. Storing an ID
// again replaces it and makes it the latest.
func (s *ResultStore) Put(r *AttemptResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.results[r.ID]; ok {
		for i, id := range s.order {
			if id == r.ID {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	s.results[r.ID] = r
	s.order = append(s.order, r.ID)

	for len(s.order) > s.capacity {
		delete(s.results, s.order[0])
		s.order = s.order[1:]
	}
}

// Get returns the result with the given ID.
func (s *ResultStore) Get(id string) (*AttemptResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[id]
	return r, ok
}

// Latest returns the most recently stored result.
func (s *ResultStore) Latest() (*AttemptResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.order) == 0 {
		return nil, false
	}
	return s.results[s.order[len(s.order)-1]], true
}

// Len returns the number of stored results.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// SaveResult writes a result as indented JSON, creating parent directories.
func SaveResult(r *AttemptResult, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create result dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
