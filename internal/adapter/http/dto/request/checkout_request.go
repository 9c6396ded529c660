package request

import (
	"strings"

	"mobilepay_ledger/internal/usecase"
)

type CartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
}

type PurchaseCheckoutRequest struct {
	Items []CartItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (r PurchaseCheckoutRequest) CartItems() []usecase.CartItem {
	items := make([]usecase.CartItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, usecase.CartItem{ProductID: strings.TrimSpace(it.ProductID), Quantity: it.Quantity})
	}
	return items
}

type ContributionCheckoutRequest struct {
	PodID string `json:"pod_id" binding:"required"`
}

// InitiateRequest starts the push prompt. Amount is required for
// contributions and must match the cart total for purchases when sent.
type InitiateRequest struct {
	Amount *int64 `json:"amount"`
	Phone  string `json:"phone" binding:"required"`
}
