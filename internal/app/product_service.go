package app

import (
	"context"

	"github.com/Evva88/FinalBack-Velli/internal/domain"
	"github.com/Evva88/FinalBack-Velli/internal/notify"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InventoryRepository interface {
	CreateProduct(ctx context.Context, product domain.Product) error
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) error
	DeleteProduct(ctx context.Context, productID string) error
	DecrementStock(ctx context.Context, productID string, quantity int) error
}

// ProductService manages the catalog. Stock mutations outside checkout go
// through UpdateProduct; checkout uses the store's conditional decrement.
type ProductService struct {
	inventory InventoryRepository
	notifier  Notifier
}

func NewProductService(inventory InventoryRepository, opts ...ProductServiceOption) *ProductService {
	svc := &ProductService{
		inventory: inventory,
		notifier:  noopNotifier{},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ProductServiceOption func(*ProductService)

func WithProductNotifier(n Notifier) ProductServiceOption {
	return func(s *ProductService) {
		if n != nil {
			s.notifier = n
		}
	}
}

type CreateProductInput struct {
	Title       string
	Description string
	Code        string
	Price       decimal.Decimal
	Status      *bool
	Stock       int
	Category    string
	Thumbnail   string
	Owner       string
}

func (in CreateProductInput) validate() error {
	if in.Title == "" {
		return domain.ErrTitleRequired
	}
	if in.Code == "" {
		return domain.ErrCodeRequired
	}
	if in.Category == "" {
		return domain.ErrCategoryRequired
	}
	if in.Price.IsNegative() {
		return domain.ErrInvalidPrice
	}
	if in.Stock < 0 {
		return domain.ErrInvalidStock
	}
	return nil
}

func (s *ProductService) CreateProduct(ctx context.Context, in CreateProductInput) (domain.Product, error) {
	if err := in.validate(); err != nil {
		return domain.Product{}, err
	}

	status := true
	if in.Status != nil {
		status = *in.Status
	}

	product := domain.Product{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Code:        in.Code,
		Price:       in.Price,
		Status:      status,
		Stock:       in.Stock,
		Category:    in.Category,
		Thumbnail:   in.Thumbnail,
		Owner:       in.Owner,
	}

	if err := s.inventory.CreateProduct(ctx, product); err != nil {
		return domain.Product{}, err
	}

	s.notifier.Publish(notify.EventProductCreated, productPayload(product))
	return product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	if productID == "" {
		return domain.Product{}, domain.ErrInvalidID
	}
	return s.inventory.GetProduct(ctx, productID)
}

func (s *ProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.inventory.ListProducts(ctx)
}

// UpdateProductInput carries partial updates; nil fields keep their current
// value.
type UpdateProductInput struct {
	Title       *string
	Description *string
	Code        *string
	Price       *decimal.Decimal
	Status      *bool
	Stock       *int
	Category    *string
	Thumbnail   *string
}

func (s *ProductService) UpdateProduct(ctx context.Context, productID string, in UpdateProductInput) (domain.Product, error) {
	if productID == "" {
		return domain.Product{}, domain.ErrInvalidID
	}

	product, err := s.inventory.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}

	if in.Title != nil {
		product.Title = *in.Title
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Code != nil {
		if *in.Code == "" {
			return domain.Product{}, domain.ErrCodeRequired
		}
		product.Code = *in.Code
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return domain.Product{}, domain.ErrInvalidPrice
		}
		product.Price = *in.Price
	}
	if in.Status != nil {
		product.Status = *in.Status
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return domain.Product{}, domain.ErrInvalidStock
		}
		product.Stock = *in.Stock
	}
	if in.Category != nil {
		if *in.Category == "" {
			return domain.Product{}, domain.ErrCategoryRequired
		}
		product.Category = *in.Category
	}
	if in.Thumbnail != nil {
		product.Thumbnail = *in.Thumbnail
	}

	if err := s.inventory.UpdateProduct(ctx, product); err != nil {
		return domain.Product{}, err
	}

	s.notifier.Publish(notify.EventProductUpdated, productPayload(product))
	return product, nil
}

type DeleteProductInput struct {
	ProductID     string
	RequesterID   string
	RequesterRole string
}

// DeleteProduct removes a product. Only an admin or the product's owner may
// delete it.
func (s *ProductService) DeleteProduct(ctx context.Context, in DeleteProductInput) error {
	if in.ProductID == "" {
		return domain.ErrInvalidID
	}

	product, err := s.inventory.GetProduct(ctx, in.ProductID)
	if err != nil {
		return err
	}

	if in.RequesterRole != "admin" && (product.Owner == "" || product.Owner != in.RequesterID) {
		return domain.ErrNotProductOwner
	}

	if err := s.inventory.DeleteProduct(ctx, in.ProductID); err != nil {
		return err
	}

	s.notifier.Publish(notify.EventProductDeleted, map[string]any{"id": in.ProductID})
	return nil
}

func productPayload(p domain.Product) map[string]any {
	return map[string]any{
		"id":       p.ID,
		"title":    p.Title,
		"code":     p.Code,
		"price":    p.Price,
		"stock":    p.Stock,
		"category": p.Category,
	}
}
