package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Evva88/FinalBack-Velli/internal/domain"
)

// ProductStore keeps the catalog in process memory. The store mutex makes
// the stock check and decrement a single atomic unit, which is the property
// checkout depends on.
type ProductStore struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func NewProductStore() *ProductStore {
	return &ProductStore{products: make(map[string]domain.Product)}
}

func (s *ProductStore) CreateProduct(_ context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.products {
		if existing.Code == product.Code {
			return domain.ErrCodeAlreadyExists
		}
	}
	s.products[product.ID] = product
	return nil
}

func (s *ProductStore) GetProduct(_ context.Context, productID string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[productID]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

func (s *ProductStore) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.products))
	for _, product := range s.products {
		out = append(out, product)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *ProductStore) UpdateProduct(_ context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	for id, existing := range s.products {
		if id != product.ID && existing.Code == product.Code {
			return domain.ErrCodeAlreadyExists
		}
	}
	s.products[product.ID] = product
	return nil
}

func (s *ProductStore) DeleteProduct(_ context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[productID]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.products, productID)
	return nil
}

// DecrementStock applies check-then-decrement under the write lock; two
// concurrent calls can never both succeed past the available stock.
func (s *ProductStore) DecrementStock(_ context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if product.Stock < quantity {
		return domain.ErrInsufficientStock
	}
	product.Stock -= quantity
	s.products[productID] = product
	return nil
}
