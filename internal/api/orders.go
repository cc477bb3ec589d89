package api

import (
	"context"
	"fmt"

	"github.com/kevinramil/streetsell-tui/internal/model"
)

// CreateOrderRequest is the purchase payload for POST /ordini.
type CreateOrderRequest struct {
	ProdottoID  string `json:"prodottoId"`
	IndirizzoID string `json:"indirizzoId"`
}

// statusUpdate is the body for PUT /ordini/{id}/stato.
type statusUpdate struct {
	NuovoStato model.OrderStatus `json:"nuovoStato"`
}

// ManagedOrders fetches the unified list of orders the current user is
// party to, as buyer or seller. Both the order-management view and the
// notification poller read this endpoint.
func (c *Client) ManagedOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := c.Get(ctx, "/ordini/gestione", &orders); err != nil {
		return nil, fmt.Errorf("fetching managed orders: %w", err)
	}
	return orders, nil
}

// CreateOrder purchases a product, shipping to the given address.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*model.Order, error) {
	var order model.Order
	if err := c.Post(ctx, "/ordini", req, &order); err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}
	return &order, nil
}

// UpdateOrderStatus requests a lifecycle transition. The backend enforces
// who may transition to what (seller ships, buyer completes, either side
// cancels while pending/confirmed).
func (c *Client) UpdateOrderStatus(
	ctx context.Context,
	orderID string,
	status model.OrderStatus,
) (*model.Order, error) {
	var order model.Order
	path := fmt.Sprintf("/ordini/%s/stato", orderID)
	if err := c.Put(ctx, path, statusUpdate{NuovoStato: status}, &order); err != nil {
		return nil, fmt.Errorf("updating order %s to %s: %w", orderID, status, err)
	}
	return &order, nil
}
