package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Evva88/FinalBack-Velli/internal/domain"
	"github.com/shopspring/decimal"
)

type stubTicketLister struct {
	list func(ctx context.Context, purchaser string) ([]domain.Ticket, error)
}

func (s *stubTicketLister) ListByPurchaser(ctx context.Context, purchaser string) ([]domain.Ticket, error) {
	return s.list(ctx, purchaser)
}

func TestHandleTickets(t *testing.T) {
	t.Parallel()

	t.Run("lists tickets for a purchaser", func(t *testing.T) {
		purchasedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		svc := &stubTicketLister{
			list: func(_ context.Context, purchaser string) ([]domain.Ticket, error) {
				if purchaser != "ana@example.com" {
					t.Errorf("unexpected purchaser %q", purchaser)
				}
				return []domain.Ticket{
					{ID: "t1", Code: "code-1", Amount: decimal.NewFromInt(30), Purchaser: purchaser, PurchasedAt: purchasedAt},
				}, nil
			},
		}

		rec := httptest.NewRecorder()
		HandleTickets(svc)(rec, httptest.NewRequest(http.MethodGet, "/tickets?purchaser=ana@example.com", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
		}
		var resp []ticketResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(resp) != 1 || resp[0].Code != "code-1" || !resp[0].Amount.Equal(decimal.NewFromInt(30)) {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("requires purchaser", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleTickets(&stubTicketLister{})(rec, httptest.NewRequest(http.MethodGet, "/tickets", nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects POST", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleTickets(&stubTicketLister{})(rec, httptest.NewRequest(http.MethodPost, "/tickets", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}
