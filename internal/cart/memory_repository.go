package cart

import (
	"context"
	"sync"

	"storefront/internal/models"
)

// MemoryRepository is an in-process Repository for tests and local runs
// without a database.
type MemoryRepository struct {
	mu    sync.Mutex
	carts map[string]models.Cart
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{carts: make(map[string]models.Cart)}
}

func (m *MemoryRepository) Get(_ context.Context, sessionKey string) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, ok := m.carts[sessionKey]
	if !ok {
		return nil, ErrCartNotFound
	}
	copied := cart
	copied.Items = append([]models.CartLineItem(nil), cart.Items...)
	return &copied, nil
}

func (m *MemoryRepository) Upsert(_ context.Context, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *cart
	stored.Items = append([]models.CartLineItem(nil), cart.Items...)
	m.carts[cart.SessionKey] = stored
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, sessionKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.carts, sessionKey)
	return nil
}
