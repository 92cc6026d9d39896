package app

import (
	"context"

	"github.com/Evva88/FinalBack-Velli/internal/clock"
	"github.com/Evva88/FinalBack-Velli/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TicketRepository interface {
	CreateTicket(ctx context.Context, ticket domain.Ticket) error
	ListTicketsByPurchaser(ctx context.Context, purchaser string) ([]domain.Ticket, error)
}

// TicketIssuer mints immutable purchase records. Codes are random v4 UUIDs,
// so concurrent issuance needs no coordination to stay collision-free.
type TicketIssuer struct {
	tickets TicketRepository
	clock   clock.Clock
}

func NewTicketIssuer(tickets TicketRepository, clk clock.Clock) *TicketIssuer {
	return &TicketIssuer{
		tickets: tickets,
		clock:   clk,
	}
}

func (i *TicketIssuer) Issue(ctx context.Context, purchaser string, amount decimal.Decimal) (domain.Ticket, error) {
	if purchaser == "" {
		return domain.Ticket{}, domain.ErrPurchaserRequired
	}
	if amount.IsNegative() {
		return domain.Ticket{}, domain.ErrInvalidAmount
	}

	ticket := domain.Ticket{
		ID:          uuid.NewString(),
		Code:        uuid.NewString(),
		Amount:      amount,
		Purchaser:   purchaser,
		PurchasedAt: i.clock.Now(),
	}

	if err := i.tickets.CreateTicket(ctx, ticket); err != nil {
		return domain.Ticket{}, err
	}
	return ticket, nil
}

func (i *TicketIssuer) ListByPurchaser(ctx context.Context, purchaser string) ([]domain.Ticket, error) {
	if purchaser == "" {
		return nil, domain.ErrPurchaserRequired
	}
	return i.tickets.ListTicketsByPurchaser(ctx, purchaser)
}
