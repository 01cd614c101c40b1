package store

import (
	"context"
	"sync"

	"rankgate/internal/promotion/models"
	"rankgate/pkg/platform/sentinel"
)

// InMemory keeps promotion requests for the lifetime of the process. Loss on
// restart is an accepted limitation; it intentionally favors clarity over
// durability.
type InMemory struct {
	mu       sync.RWMutex
	requests map[string]*models.PromotionRequest
	order    []string
	keyLocks map[string]*sync.Mutex
}

func NewInMemory() *InMemory {
	return &InMemory{
		requests: make(map[string]*models.PromotionRequest),
		keyLocks: make(map[string]*sync.Mutex),
	}
}

func (s *InMemory) Put(_ context.Context, req *models.PromotionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[req.ID]; ok {
		return sentinel.ErrConflict
	}
	s.requests[req.ID] = req.Clone()
	s.order = append(s.order, req.ID)
	s.keyLocks[req.ID] = &sync.Mutex{}
	return nil
}

func (s *InMemory) Get(_ context.Context, id string) (*models.PromotionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return req.Clone(), nil
}

func (s *InMemory) ListByStatus(_ context.Context, status models.Status) ([]*models.PromotionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.PromotionRequest, 0)
	for _, id := range s.order {
		if req := s.requests[id]; req.Status == status {
			out = append(out, req.Clone())
		}
	}
	return out, nil
}

// Execute holds the record's key lock across fn so two concurrent resolution
// attempts cannot both observe the same state. The map lock is only held
// while reading and writing back, never during fn, so slow fn bodies (the
// rank-change network call) do not block operations on other ids.
func (s *InMemory) Execute(_ context.Context, id string, fn func(*models.PromotionRequest) error) (*models.PromotionRequest, error) {
	s.mu.RLock()
	keyLock, ok := s.keyLocks[id]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	keyLock.Lock()
	defer keyLock.Unlock()

	s.mu.RLock()
	cp := s.requests[id].Clone()
	s.mu.RUnlock()

	if err := fn(cp); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.requests[id] = cp
	s.mu.Unlock()
	return cp.Clone(), nil
}
