package app

import (
	"context"

	"github.com/Evva88/FinalBack-Velli/internal/domain"
	"github.com/google/uuid"
)

type CartRepository interface {
	CreateCart(ctx context.Context, cart domain.Cart) error
	GetCart(ctx context.Context, cartID string) (domain.Cart, error)
	ReplaceLineItems(ctx context.Context, cartID string, items []domain.LineItem) error
}

// CartService manages cart contents ahead of checkout. A cart's items are
// owned by exactly one cart id; mutations are read-modify-replace against
// the store's full overwrite.
type CartService struct {
	carts     CartRepository
	inventory InventoryRepository
}

func NewCartService(carts CartRepository, inventory InventoryRepository) *CartService {
	return &CartService{
		carts:     carts,
		inventory: inventory,
	}
}

func (s *CartService) CreateCart(ctx context.Context) (domain.Cart, error) {
	cart := domain.Cart{ID: uuid.NewString()}
	if err := s.carts.CreateCart(ctx, cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func (s *CartService) GetCart(ctx context.Context, cartID string) (domain.Cart, error) {
	if cartID == "" {
		return domain.Cart{}, domain.ErrInvalidID
	}
	return s.carts.GetCart(ctx, cartID)
}

// AddProduct appends a line item, or bumps the quantity when the product is
// already in the cart. The product must exist at add time; it may well be
// gone again by checkout.
func (s *CartService) AddProduct(ctx context.Context, cartID, productID string, quantity int) (domain.Cart, error) {
	if quantity <= 0 {
		return domain.Cart{}, domain.ErrInvalidQuantity
	}
	if _, err := s.inventory.GetProduct(ctx, productID); err != nil {
		return domain.Cart{}, err
	}

	cart, err := s.carts.GetCart(ctx, cartID)
	if err != nil {
		return domain.Cart{}, err
	}

	found := false
	for i, item := range cart.Items {
		if item.ProductID == productID {
			cart.Items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, domain.LineItem{ProductID: productID, Quantity: quantity})
	}

	if err := s.carts.ReplaceLineItems(ctx, cartID, cart.Items); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, cartID, productID string, quantity int) (domain.Cart, error) {
	if quantity <= 0 {
		return domain.Cart{}, domain.ErrInvalidQuantity
	}

	cart, err := s.carts.GetCart(ctx, cartID)
	if err != nil {
		return domain.Cart{}, err
	}

	found := false
	for i, item := range cart.Items {
		if item.ProductID == productID {
			cart.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return domain.Cart{}, domain.ErrProductNotInCart
	}

	if err := s.carts.ReplaceLineItems(ctx, cartID, cart.Items); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

// ReplaceItems overwrites the whole cart. Every item must name an existing
// product with a positive quantity.
func (s *CartService) ReplaceItems(ctx context.Context, cartID string, items []domain.LineItem) (domain.Cart, error) {
	for _, item := range items {
		if item.Quantity <= 0 {
			return domain.Cart{}, domain.ErrInvalidQuantity
		}
		if _, err := s.inventory.GetProduct(ctx, item.ProductID); err != nil {
			return domain.Cart{}, err
		}
	}

	if err := s.carts.ReplaceLineItems(ctx, cartID, items); err != nil {
		return domain.Cart{}, err
	}
	return domain.Cart{ID: cartID, Items: items}, nil
}

func (s *CartService) RemoveProduct(ctx context.Context, cartID, productID string) (domain.Cart, error) {
	cart, err := s.carts.GetCart(ctx, cartID)
	if err != nil {
		return domain.Cart{}, err
	}

	items := make([]domain.LineItem, 0, len(cart.Items))
	found := false
	for _, item := range cart.Items {
		if item.ProductID == productID {
			found = true
			continue
		}
		items = append(items, item)
	}
	if !found {
		return domain.Cart{}, domain.ErrProductNotInCart
	}

	if err := s.carts.ReplaceLineItems(ctx, cartID, items); err != nil {
		return domain.Cart{}, err
	}
	cart.Items = items
	return cart, nil
}

func (s *CartService) ClearCart(ctx context.Context, cartID string) error {
	if cartID == "" {
		return domain.ErrInvalidID
	}
	return s.carts.ReplaceLineItems(ctx, cartID, nil)
}
