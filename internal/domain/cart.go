package domain

// LineItem is a requested purchase of one product.
type LineItem struct {
	ProductID string
	Quantity  int
}

// Cart holds the line items a user intends to buy. Items may reference
// products that have since been deleted or understocked; checkout resolves
// that per item instead of rejecting the cart.
type Cart struct {
	ID    string
	Items []LineItem
}
