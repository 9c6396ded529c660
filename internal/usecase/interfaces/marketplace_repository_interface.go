package interfaces

import (
	"context"
	"errors"
	"mobilepay_ledger/internal/domain/entities"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductInactive   = errors.New("product is not available")
	ErrInsufficientStock = errors.New("insufficient product stock")
	ErrOrderExists       = errors.New("order already exists for intent")
)

// IMarketplaceRepository persists products and orders.
//
// FulfillOrder is all-or-nothing: every stock decrement and the order insert
// commit together or not at all.
type IMarketplaceRepository interface {
	CreateProduct(ctx context.Context, p entities.Product) (entities.Product, error)
	GetProduct(ctx context.Context, id string) (entities.Product, error)
	FulfillOrder(ctx context.Context, order entities.Order) (entities.Order, error)
	GetOrder(ctx context.Context, id string) (entities.Order, error)
}
