package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ticket is an immutable purchase record. Code is globally unique and
// generated without coordination at issuance.
type Ticket struct {
	ID          string
	Code        string
	Amount      decimal.Decimal
	Purchaser   string
	PurchasedAt time.Time
}
