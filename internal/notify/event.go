package notify

// Event types broadcast to connected clients. Delivery is best-effort and
// carries no correctness weight for the publishing side.
const (
	EventProductCreated    = "product_created"
	EventProductUpdated    = "product_updated"
	EventProductDeleted    = "product_deleted"
	EventStockChanged      = "stock_changed"
	EventPurchaseCompleted = "purchase_completed"
)

// Event is the JSON envelope sent over the wire.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}
