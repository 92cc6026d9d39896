package redis

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Evva88/FinalBack-Velli/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// newTestStore connects to the Redis named by TEST_REDIS_URL (default
// localhost) and skips when it is unreachable. Each test works in its own
// logical database and flushes it up front.
func newTestStore(t *testing.T) (*InventoryStore, context.Context) {
	t.Helper()

	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("parse redis url: %v", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("skipping: redis unavailable at %s: %v", url, err)
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flush test db: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return NewInventoryStore(client), ctx
}

func TestInventoryStore_CRUD(t *testing.T) {
	store, ctx := newTestStore(t)

	product := domain.Product{
		ID:       uuid.NewString(),
		Title:    "Keyboard",
		Code:     "KB-01",
		Price:    decimal.RequireFromString("49.99"),
		Status:   true,
		Stock:    10,
		Category: "peripherals",
		Owner:    "user-1",
	}
	if err := store.CreateProduct(ctx, product); err != nil {
		t.Fatalf("create: %v", err)
	}

	t.Run("get round-trips all fields", func(t *testing.T) {
		got, err := store.GetProduct(ctx, product.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Title != product.Title || got.Code != product.Code || got.Stock != product.Stock || !got.Status {
			t.Fatalf("unexpected product: %+v", got)
		}
		if !got.Price.Equal(product.Price) {
			t.Fatalf("expected price %s, got %s", product.Price, got.Price)
		}
	})

	t.Run("duplicate code", func(t *testing.T) {
		dup := product
		dup.ID = uuid.NewString()
		if err := store.CreateProduct(ctx, dup); !errors.Is(err, domain.ErrCodeAlreadyExists) {
			t.Fatalf("expected ErrCodeAlreadyExists, got %v", err)
		}
	})

	t.Run("update reassigns code", func(t *testing.T) {
		updated := product
		updated.Code = "KB-02"
		updated.Stock = 4
		if err := store.UpdateProduct(ctx, updated); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, err := store.GetProduct(ctx, product.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Code != "KB-02" || got.Stock != 4 {
			t.Fatalf("update not applied: %+v", got)
		}

		// The old code is free again.
		fresh := domain.Product{ID: uuid.NewString(), Code: "KB-01", Price: decimal.NewFromInt(1)}
		if err := store.CreateProduct(ctx, fresh); err != nil {
			t.Fatalf("expected old code to be reusable, got %v", err)
		}
	})

	t.Run("list is sorted by code", func(t *testing.T) {
		products, err := store.ListProducts(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(products) != 2 || products[0].Code != "KB-01" || products[1].Code != "KB-02" {
			t.Fatalf("unexpected listing: %+v", products)
		}
	})

	t.Run("delete releases the code", func(t *testing.T) {
		if err := store.DeleteProduct(ctx, product.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := store.GetProduct(ctx, product.ID); !errors.Is(err, domain.ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
		fresh := domain.Product{ID: uuid.NewString(), Code: "KB-02", Price: decimal.NewFromInt(1)}
		if err := store.CreateProduct(ctx, fresh); err != nil {
			t.Fatalf("expected deleted code to be reusable, got %v", err)
		}
	})
}

func TestInventoryStore_DecrementStock(t *testing.T) {
	store, ctx := newTestStore(t)

	product := domain.Product{ID: uuid.NewString(), Code: "KB-01", Price: decimal.NewFromInt(50), Stock: 5}
	if err := store.CreateProduct(ctx, product); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.DecrementStock(ctx, product.ID, 3); err != nil {
		t.Fatalf("decrement: %v", err)
	}
	got, err := store.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Stock != 2 {
		t.Fatalf("expected stock 2, got %d", got.Stock)
	}

	t.Run("insufficient stock", func(t *testing.T) {
		if err := store.DecrementStock(ctx, product.ID, 3); !errors.Is(err, domain.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		if err := store.DecrementStock(ctx, uuid.NewString(), 1); !errors.Is(err, domain.ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		if err := store.DecrementStock(ctx, product.ID, 0); !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Fatalf("expected ErrInvalidQuantity, got %v", err)
		}
	})
}

func TestInventoryStore_DecrementStock_Concurrent(t *testing.T) {
	store, ctx := newTestStore(t)

	const (
		stock   = 10
		callers = 25
	)
	product := domain.Product{ID: uuid.NewString(), Code: "KB-01", Price: decimal.NewFromInt(50), Stock: stock}
	if err := store.CreateProduct(ctx, product); err != nil {
		t.Fatalf("create: %v", err)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			err := store.DecrementStock(ctx, product.ID, 1)
			switch {
			case err == nil:
				mu.Lock()
				succeeded++
				mu.Unlock()
			case errors.Is(err, domain.ErrInsufficientStock):
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != stock {
		t.Fatalf("expected exactly %d successful decrements, got %d", stock, succeeded)
	}
	got, err := store.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Stock != 0 {
		t.Fatalf("expected stock 0, got %d", got.Stock)
	}
}
