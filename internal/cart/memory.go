package cart

import (
	"context"
	"sync"
	"time"

	"github.com/fastcm/shophub-be/internal/models"
)

// MemoryStore keeps session carts in process memory. Carts do not survive a
// restart; this is the default store when no Redis address is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]models.Cart
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]models.Cart)}
}

// Load returns the cart for a session, or an empty cart for an unknown one.
func (s *MemoryStore) Load(_ context.Context, sessionID string) (models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cart, ok := s.carts[sessionID]
	if !ok {
		return models.Cart{Items: []models.CartItem{}}, nil
	}
	return cart, nil
}

// Save stores the cart for a session.
func (s *MemoryStore) Save(_ context.Context, sessionID string, cart models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = cart
	return nil
}

// Delete drops a session's cart.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

// Sweep removes carts untouched since the cutoff and reports how many were
// dropped. The maintenance scheduler calls this; the Redis store relies on
// key TTLs instead.
func (s *MemoryStore) Sweep(olderThan time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, cart := range s.carts {
		if cart.UpdatedAt.Before(olderThan) {
			delete(s.carts, id)
			removed++
		}
	}
	return removed
}
