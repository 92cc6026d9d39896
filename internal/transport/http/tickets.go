package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Evva88/FinalBack-Velli/internal/domain"
	"github.com/shopspring/decimal"
)

// TicketLister is the minimal interface needed to list purchase history.
type TicketLister interface {
	ListByPurchaser(ctx context.Context, purchaser string) ([]domain.Ticket, error)
}

// HandleTickets serves GET /tickets?purchaser=...
func HandleTickets(svc TicketLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		purchaser := r.URL.Query().Get("purchaser")
		if purchaser == "" {
			writeError(w, http.StatusBadRequest, codePurchaserRequired, domain.ErrPurchaserRequired.Error())
			return
		}

		tickets, err := svc.ListByPurchaser(r.Context(), purchaser)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]ticketResponse, 0, len(tickets))
		for _, t := range tickets {
			out = append(out, ticketResponseFrom(t))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type ticketResponse struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Amount      decimal.Decimal `json:"amount"`
	Purchaser   string          `json:"purchaser"`
	PurchasedAt time.Time       `json:"purchased_at"`
}

func ticketResponseFrom(t domain.Ticket) ticketResponse {
	return ticketResponse{
		ID:          t.ID,
		Code:        t.Code,
		Amount:      t.Amount,
		Purchaser:   t.Purchaser,
		PurchasedAt: t.PurchasedAt,
	}
}
