package memory

import (
	"context"
	"sync"

	"github.com/Evva88/FinalBack-Velli/internal/domain"
)

// CartStore keeps carts in process memory. Reads return copies so callers
// never alias the stored slice, and every read reflects the latest committed
// replace.
type CartStore struct {
	mu    sync.RWMutex
	carts map[string][]domain.LineItem
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string][]domain.LineItem)}
}

func (s *CartStore) CreateCart(_ context.Context, cart domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[cart.ID] = copyItems(cart.Items)
	return nil
}

func (s *CartStore) GetCart(_ context.Context, cartID string) (domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, ok := s.carts[cartID]
	if !ok {
		return domain.Cart{}, domain.ErrCartNotFound
	}
	return domain.Cart{ID: cartID, Items: copyItems(items)}, nil
}

func (s *CartStore) ReplaceLineItems(_ context.Context, cartID string, items []domain.LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carts[cartID]; !ok {
		return domain.ErrCartNotFound
	}
	s.carts[cartID] = copyItems(items)
	return nil
}

func copyItems(items []domain.LineItem) []domain.LineItem {
	if len(items) == 0 {
		return []domain.LineItem{}
	}
	out := make([]domain.LineItem, len(items))
	copy(out, items)
	return out
}
