package store

import (
	"sort"
	"sync"
	"time"
)

// MemStore is an in-memory Store for tests and dry runs.
type MemStore struct {
	mu      sync.Mutex
	nextID  int64
	results map[int64]*Result
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{nextID: 1, results: make(map[int64]*Result)}
}

func (m *MemStore) SaveResult(r *Result) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *r
	cp.ID = m.nextID
	if cp.CreatedAt == "" {
		cp.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	m.results[cp.ID] = &cp
	m.nextID++
	return cp.ID, nil
}

func (m *MemStore) GetResult(id int64) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.results[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *MemStore) ListResultsByRun(runID string) ([]*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Result
	for _, r := range m.results {
		if r.RunID == runID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) ListRuns() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]struct{})
	var out []string
	for _, r := range m.results {
		if _, ok := seen[r.RunID]; ok {
			continue
		}
		seen[r.RunID] = struct{}{}
		out = append(out, r.RunID)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemStore) Close() error { return nil }
