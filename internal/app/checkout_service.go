package app

import (
	"context"
	"errors"

	"github.com/Evva88/FinalBack-Velli/internal/domain"
	"github.com/Evva88/FinalBack-Velli/internal/notify"
	"github.com/shopspring/decimal"
)

// InventoryStore is the slice of inventory behavior checkout depends on.
// DecrementStock must be atomic per product: two concurrent decrements may
// never jointly exceed the available stock.
type InventoryStore interface {
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	DecrementStock(ctx context.Context, productID string, quantity int) error
}

// CartStore is the slice of cart behavior checkout depends on. GetCart must
// reflect prior committed replaces.
type CartStore interface {
	GetCart(ctx context.Context, cartID string) (domain.Cart, error)
	ReplaceLineItems(ctx context.Context, cartID string, items []domain.LineItem) error
}

// CheckoutService reconciles a cart against inventory: satisfiable items are
// decremented and summed into a ticket, the rest stay in the cart. It owns
// no durable state of its own.
type CheckoutService struct {
	carts     CartStore
	inventory InventoryStore
	issuer    *TicketIssuer
	notifier  Notifier
}

func NewCheckoutService(carts CartStore, inventory InventoryStore, issuer *TicketIssuer, opts ...CheckoutServiceOption) *CheckoutService {
	svc := &CheckoutService{
		carts:     carts,
		inventory: inventory,
		issuer:    issuer,
		notifier:  noopNotifier{},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type CheckoutServiceOption func(*CheckoutService)

// WithNotifier publishes stock and purchase events after a successful
// checkout.
func WithNotifier(n Notifier) CheckoutServiceOption {
	return func(s *CheckoutService) {
		if n != nil {
			s.notifier = n
		}
	}
}

type CheckoutInput struct {
	CartID    string
	Purchaser string
}

type CheckoutResult struct {
	Ticket    domain.Ticket
	Fulfilled []domain.LineItem
	Failed    []domain.FailedItem
	Total     decimal.Decimal
}

// Checkout runs the reconciliation algorithm. Per-item problems (missing
// product, short stock, a decrement lost to a concurrent checkout) become
// entries in the failed list, never call-level errors. The cart is rewritten
// to exactly the failed set before returning, even when that set is empty.
// ErrNoItemsFulfilled still carries the failed list in the result.
func (s *CheckoutService) Checkout(ctx context.Context, in CheckoutInput) (CheckoutResult, error) {
	if in.Purchaser == "" {
		return CheckoutResult{}, domain.ErrPurchaserRequired
	}

	cart, err := s.carts.GetCart(ctx, in.CartID)
	if err != nil {
		return CheckoutResult{}, err
	}

	var (
		fulfilled []domain.LineItem
		failed    []domain.FailedItem
		total     decimal.Decimal
	)

	for idx, item := range cart.Items {
		product, err := s.inventory.GetProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				failed = append(failed, domain.FailedItem{LineItem: item, Reason: domain.FailReasonProductMissing})
				continue
			}
			s.rewriteResidual(ctx, cart, idx, failed)
			return CheckoutResult{}, err
		}

		if product.Stock < item.Quantity {
			failed = append(failed, domain.FailedItem{LineItem: item, Reason: domain.FailReasonInsufficientStock})
			continue
		}

		// The read above is advisory; the decrement's outcome is ground
		// truth when a concurrent checkout got there first.
		if err := s.inventory.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			switch {
			case errors.Is(err, domain.ErrInsufficientStock):
				failed = append(failed, domain.FailedItem{LineItem: item, Reason: domain.FailReasonInsufficientStock})
				continue
			case errors.Is(err, domain.ErrProductNotFound):
				failed = append(failed, domain.FailedItem{LineItem: item, Reason: domain.FailReasonProductMissing})
				continue
			default:
				s.rewriteResidual(ctx, cart, idx, failed)
				return CheckoutResult{}, err
			}
		}

		fulfilled = append(fulfilled, item)
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if err := s.carts.ReplaceLineItems(ctx, cart.ID, residualItems(failed, nil)); err != nil {
		return CheckoutResult{}, err
	}

	if len(fulfilled) == 0 {
		return CheckoutResult{Failed: failed}, domain.ErrNoItemsFulfilled
	}

	ticket, err := s.issuer.Issue(ctx, in.Purchaser, total)
	if err != nil {
		return CheckoutResult{}, err
	}

	for _, item := range fulfilled {
		s.notifier.Publish(notify.EventStockChanged, map[string]any{
			"product_id": item.ProductID,
			"quantity":   -item.Quantity,
		})
	}
	s.notifier.Publish(notify.EventPurchaseCompleted, map[string]any{
		"cart_id":   cart.ID,
		"code":      ticket.Code,
		"amount":    ticket.Amount,
		"purchaser": ticket.Purchaser,
	})

	return CheckoutResult{
		Ticket:    ticket,
		Fulfilled: fulfilled,
		Failed:    failed,
		Total:     total,
	}, nil
}

// rewriteResidual is the best-effort cart rewrite when a store fails mid
// loop: failed items plus the current item and everything after it stay in
// the cart, so a retried checkout cannot decrement an already-fulfilled item
// twice.
func (s *CheckoutService) rewriteResidual(ctx context.Context, cart domain.Cart, fromIdx int, failed []domain.FailedItem) {
	var remaining []domain.LineItem
	if fromIdx < len(cart.Items) {
		remaining = cart.Items[fromIdx:]
	}
	_ = s.carts.ReplaceLineItems(ctx, cart.ID, residualItems(failed, remaining))
}

func residualItems(failed []domain.FailedItem, remaining []domain.LineItem) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(failed)+len(remaining))
	for _, f := range failed {
		items = append(items, f.LineItem)
	}
	items = append(items, remaining...)
	return items
}
