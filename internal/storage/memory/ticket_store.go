package memory

import (
	"context"
	"sync"

	"github.com/Evva88/FinalBack-Velli/internal/domain"
)

// TicketStore keeps issued tickets in process memory, append-only.
type TicketStore struct {
	mu      sync.RWMutex
	tickets []domain.Ticket
}

func NewTicketStore() *TicketStore {
	return &TicketStore{}
}

func (s *TicketStore) CreateTicket(_ context.Context, ticket domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tickets = append(s.tickets, ticket)
	return nil
}

func (s *TicketStore) ListTicketsByPurchaser(_ context.Context, purchaser string) ([]domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Ticket
	for _, ticket := range s.tickets {
		if ticket.Purchaser == purchaser {
			out = append(out, ticket)
		}
	}
	return out, nil
}
