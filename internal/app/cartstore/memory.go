package cartstore

import (
	"context"
	"sync"

	"github.com/imperiopizzas/imperio-backend/internal/app/model"
)

// MemoryStore is a process-local Store for tests and single-node development.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*model.Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]*model.Cart)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*model.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[sessionID]
	if !ok {
		return model.EmptyCart(), nil
	}
	return recompute(cart), nil
}

func (s *MemoryStore) Set(_ context.Context, sessionID string, cart *model.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[sessionID] = recompute(cart)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	return nil
}
