package entities

import "time"

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusSold     ProductStatus = "sold"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product is a marketplace listing with a stock counter.
//
// Storage model (DynamoDB):
//   - PK: id
//
// Quantity reaching zero flips Status to sold.
type Product struct {
	ID        string        `json:"id"`
	SellerID  string        `json:"seller_id"`
	Name      string        `json:"name"`
	Price     int64         `json:"price"`
	Currency  string        `json:"currency"`
	Quantity  int64         `json:"quantity"`
	Status    ProductStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// LineItem is one priced row of a cart snapshot.
type LineItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

// CartSnapshot is the priced cart frozen into a purchase intent at checkout,
// so fulfillment ignores later price changes.
type CartSnapshot struct {
	Items      []LineItem `json:"items"`
	Total      int64      `json:"total"`
	Currency   string     `json:"currency"`
	CapturedAt time.Time  `json:"captured_at"`
}

type OrderStatus string

const (
	OrderStatusPaid OrderStatus = "paid"
)

// Order aggregates every line item of one completed purchase intent.
//
// Storage model (DynamoDB):
//   - PK: id (derived from intent id, one order per intent)
type Order struct {
	ID            string      `json:"id"`
	IntentID      string      `json:"intent_id"`
	BuyerID       string      `json:"buyer_id"`
	Items         []LineItem  `json:"items"`
	Total         int64       `json:"total"`
	Currency      string      `json:"currency"`
	CorrelationID string      `json:"correlation_id"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
}
