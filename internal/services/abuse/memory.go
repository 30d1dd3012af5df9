package abuse

import (
	"context"
	"sync"

	"github.com/partypop/partypop/internal/model"
)

// MemoryStore is an in-memory implementation of the abuse store.
type MemoryStore struct {
	mu      sync.RWMutex
	reports []Report
	blocks  map[model.PlayerID]map[model.PlayerID]struct{}
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blocks: make(map[model.PlayerID]map[model.PlayerID]struct{}),
	}
}

func (s *MemoryStore) AddReport(_ context.Context, report Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	return nil
}

func (s *MemoryStore) AddBlock(_ context.Context, blocker, target model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blocks[blocker] == nil {
		s.blocks[blocker] = make(map[model.PlayerID]struct{})
	}
	s.blocks[blocker][target] = struct{}{}
	return nil
}

func (s *MemoryStore) IsBlocked(_ context.Context, blocker, target model.PlayerID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blocks[blocker][target]
	return ok, nil
}

// Reports returns a copy of all recorded reports.
func (s *MemoryStore) Reports() []Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Report(nil), s.reports...)
}
