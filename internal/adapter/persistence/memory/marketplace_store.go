package memory

import (
	"context"
	"fmt"
	"sync"

	"mobilepay_ledger/internal/domain/entities"
	"mobilepay_ledger/internal/usecase/interfaces"
)

// MarketplaceStore keeps products and orders in memory. FulfillOrder checks
// every line item before touching any stock.
type MarketplaceStore struct {
	mu       sync.Mutex
	products map[string]entities.Product
	orders   map[string]entities.Order
}

var _ interfaces.IMarketplaceRepository = (*MarketplaceStore)(nil)

func NewMarketplaceStore() *MarketplaceStore {
	return &MarketplaceStore{
		products: make(map[string]entities.Product),
		orders:   make(map[string]entities.Order),
	}
}

func (s *MarketplaceStore) CreateProduct(_ context.Context, p entities.Product) (entities.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.ID]; exists {
		return entities.Product{}, fmt.Errorf("product %s already exists", p.ID)
	}
	s.products[p.ID] = p
	return p, nil
}

func (s *MarketplaceStore) GetProduct(_ context.Context, id string) (entities.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id], nil
}

func (s *MarketplaceStore) FulfillOrder(_ context.Context, order entities.Order) (entities.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return entities.Order{}, interfaces.ErrOrderExists
	}

	need := make(map[string]int64, len(order.Items))
	for _, li := range order.Items {
		need[li.ProductID] += li.Quantity
	}
	for id, qty := range need {
		p, ok := s.products[id]
		switch {
		case !ok:
			return entities.Order{}, fmt.Errorf("%w: %s", interfaces.ErrProductNotFound, id)
		case p.Status != entities.ProductStatusActive && p.Quantity > 0:
			return entities.Order{}, fmt.Errorf("%w: %s", interfaces.ErrProductInactive, id)
		case p.Status != entities.ProductStatusActive || p.Quantity < qty:
			return entities.Order{}, fmt.Errorf("%w: %s", interfaces.ErrInsufficientStock, id)
		}
	}

	for id, qty := range need {
		p := s.products[id]
		p.Quantity -= qty
		if p.Quantity == 0 {
			p.Status = entities.ProductStatusSold
		}
		p.UpdatedAt = order.CreatedAt
		s.products[id] = p
	}
	order.Items = append([]entities.LineItem(nil), order.Items...)
	s.orders[order.ID] = order
	return order, nil
}

func (s *MarketplaceStore) GetOrder(_ context.Context, id string) (entities.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id], nil
}
