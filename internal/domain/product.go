package domain

import "github.com/shopspring/decimal"

// Product is a sellable item with a finite stock count. Stock is mutated
// only through the inventory store's conditional decrement (or product CRUD)
// and never goes negative.
type Product struct {
	ID          string
	Title       string
	Description string
	Code        string
	Price       decimal.Decimal
	Status      bool
	Stock       int
	Category    string
	Thumbnail   string
	Owner       string
}
