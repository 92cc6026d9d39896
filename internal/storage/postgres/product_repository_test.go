package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Evva88/FinalBack-Velli/internal/domain"
	"github.com/Evva88/FinalBack-Velli/internal/testutil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func setupProductRepo(t *testing.T) (*ProductRepository, *pgxpool.Pool, context.Context) {
	t.Helper()
	ctx := context.Background()
	pool := testutil.NewTestPool(t)
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)
	return NewProductRepository(pool), pool, ctx
}

func TestProductRepository_CreateAndGet(t *testing.T) {
	repo, _, ctx := setupProductRepo(t)

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
	if err := repo.CreateProduct(ctx, product); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != product.Title || got.Code != product.Code || got.Stock != product.Stock {
		t.Fatalf("unexpected product: %+v", got)
	}
	if !got.Price.Equal(product.Price) {
		t.Fatalf("expected price %s, got %s", product.Price, got.Price)
	}

	t.Run("duplicate code", func(t *testing.T) {
		dup := product
		dup.ID = uuid.NewString()
		if err := repo.CreateProduct(ctx, dup); !errors.Is(err, domain.ErrCodeAlreadyExists) {
			t.Fatalf("expected ErrCodeAlreadyExists, got %v", err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, err := repo.GetProduct(ctx, uuid.NewString()); !errors.Is(err, domain.ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		if _, err := repo.GetProduct(ctx, "not-a-uuid"); !errors.Is(err, domain.ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound for malformed id, got %v", err)
		}
	})
}

func TestProductRepository_UpdateAndDelete(t *testing.T) {
	repo, pool, ctx := setupProductRepo(t)

	id := testutil.InsertProduct(t, ctx, pool, domain.Product{Code: "KB-01", Price: decimal.NewFromInt(50), Stock: 10})

	product, err := repo.GetProduct(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	product.Title = "Mechanical keyboard"
	product.Stock = 4
	if err := repo.UpdateProduct(ctx, product); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetProduct(ctx, id)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Title != "Mechanical keyboard" || got.Stock != 4 {
		t.Fatalf("update not applied: %+v", got)
	}

	t.Run("update unknown product", func(t *testing.T) {
		missing := product
		missing.ID = uuid.NewString()
		missing.Code = "ZZ-99"
		if err := repo.UpdateProduct(ctx, missing); !errors.Is(err, domain.ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.DeleteProduct(ctx, id); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := repo.DeleteProduct(ctx, id); !errors.Is(err, domain.ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound on second delete, got %v", err)
		}
	})
}

func TestProductRepository_DecrementStock(t *testing.T) {
	repo, pool, ctx := setupProductRepo(t)

	id := testutil.InsertProduct(t, ctx, pool, domain.Product{Code: "KB-01", Price: decimal.NewFromInt(50), Stock: 5})

	if err := repo.DecrementStock(ctx, id, 3); err != nil {
		t.Fatalf("decrement: %v", err)
	}
	got, err := repo.GetProduct(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Stock != 2 {
		t.Fatalf("expected stock 2, got %d", got.Stock)
	}

	t.Run("insufficient stock", func(t *testing.T) {
		if err := repo.DecrementStock(ctx, id, 3); !errors.Is(err, domain.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
		got, err := repo.GetProduct(ctx, id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Stock != 2 {
			t.Fatalf("expected stock unchanged at 2, got %d", got.Stock)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		if err := repo.DecrementStock(ctx, uuid.NewString(), 1); !errors.Is(err, domain.ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		if err := repo.DecrementStock(ctx, id, 0); !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Fatalf("expected ErrInvalidQuantity, got %v", err)
		}
	})
}

func TestProductRepository_DecrementStock_Concurrent(t *testing.T) {
	repo, pool, ctx := setupProductRepo(t)

	const (
		stock   = 10
		callers = 25
	)
	id := testutil.InsertProduct(t, ctx, pool, domain.Product{Code: "KB-01", Price: decimal.NewFromInt(50), Stock: stock})

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			err := repo.DecrementStock(ctx, id, 1)
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
	got, err := repo.GetProduct(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Stock != 0 {
		t.Fatalf("expected stock 0, got %d", got.Stock)
	}
}
