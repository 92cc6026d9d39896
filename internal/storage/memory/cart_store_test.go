package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/Evva88/FinalBack-Velli/internal/domain"
)

func TestCartStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("create then get", func(t *testing.T) {
		store := NewCartStore()
		if err := store.CreateCart(ctx, domain.Cart{ID: "c1"}); err != nil {
			t.Fatalf("create: %v", err)
		}
		cart, err := store.GetCart(ctx, "c1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if cart.ID != "c1" || len(cart.Items) != 0 {
			t.Fatalf("unexpected cart: %+v", cart)
		}
	})

	t.Run("get unknown cart", func(t *testing.T) {
		store := NewCartStore()
		if _, err := store.GetCart(ctx, "nope"); !errors.Is(err, domain.ErrCartNotFound) {
			t.Fatalf("expected ErrCartNotFound, got %v", err)
		}
	})

	t.Run("replace overwrites the full item set", func(t *testing.T) {
		store := NewCartStore()
		if err := store.CreateCart(ctx, domain.Cart{ID: "c1", Items: []domain.LineItem{{ProductID: "p1", Quantity: 1}}}); err != nil {
			t.Fatalf("create: %v", err)
		}
		next := []domain.LineItem{{ProductID: "p2", Quantity: 3}}
		if err := store.ReplaceLineItems(ctx, "c1", next); err != nil {
			t.Fatalf("replace: %v", err)
		}
		cart, err := store.GetCart(ctx, "c1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if len(cart.Items) != 1 || cart.Items[0].ProductID != "p2" || cart.Items[0].Quantity != 3 {
			t.Fatalf("unexpected items: %+v", cart.Items)
		}
	})

	t.Run("replace unknown cart", func(t *testing.T) {
		store := NewCartStore()
		if err := store.ReplaceLineItems(ctx, "nope", nil); !errors.Is(err, domain.ErrCartNotFound) {
			t.Fatalf("expected ErrCartNotFound, got %v", err)
		}
	})

	t.Run("reads do not alias the stored slice", func(t *testing.T) {
		store := NewCartStore()
		if err := store.CreateCart(ctx, domain.Cart{ID: "c1", Items: []domain.LineItem{{ProductID: "p1", Quantity: 1}}}); err != nil {
			t.Fatalf("create: %v", err)
		}
		cart, err := store.GetCart(ctx, "c1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		cart.Items[0].Quantity = 99

		again, err := store.GetCart(ctx, "c1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if again.Items[0].Quantity != 1 {
			t.Fatalf("stored cart was mutated through a read copy: %+v", again.Items)
		}
	})
}
