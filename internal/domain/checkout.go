package domain

// FailReason classifies why a line item could not be fulfilled. A decrement
// lost to a concurrent checkout reports the same reason as a short read;
// the caller only cares that the item stayed in the cart.
type FailReason string

const (
	FailReasonProductMissing    FailReason = "product_missing"
	FailReasonInsufficientStock FailReason = "insufficient_stock"
)

// FailedItem is a line item left in the cart after checkout.
type FailedItem struct {
	LineItem
	Reason FailReason
}
