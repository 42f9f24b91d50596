package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/oakhaven-doors/door-orders/lifecycle"
	"github.com/oakhaven-doors/door-orders/models"
	"github.com/oakhaven-doors/door-orders/storage"
)

var (
	ErrNoOrdersSelected = errors.New("pickup request needs at least one order")
	ErrOrderNotPrepared = errors.New("order is not prepared for pickup")
	ErrOrderNotOwned    = errors.New("order does not belong to this customer")
)

// PickupLedger records batched pickup requests and drives the referenced
// orders to pickup_requested.
type PickupLedger struct {
	store storage.Store
	now   func() time.Time
}

// NewPickupLedger returns a ledger backed by the given store.
func NewPickupLedger(store storage.Store) *PickupLedger {
	return &PickupLedger{store: store, now: time.Now}
}

// Create validates the batch, persists the pickup request and transitions
// every referenced order to pickup_requested. The call succeeds once the
// ledger write has succeeded; an order that then fails to transition is
// logged and left behind rather than rolling the request back.
func (l *PickupLedger) Create(ctx context.Context, customerID string, orderIDs []string) (*models.PickupRequest, error) {
	if len(orderIDs) == 0 {
		return nil, ErrNoOrdersSelected
	}

	orders := make([]*models.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		order, err := l.store.GetOrder(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", id, err)
		}
		if order.CustomerID != customerID {
			return nil, fmt.Errorf("order %s: %w", id, ErrOrderNotOwned)
		}
		if order.Status != models.StatusPrepared {
			return nil, fmt.Errorf("order %s: %w", id, ErrOrderNotPrepared)
		}
		orders = append(orders, order)
	}

	request := models.PickupRequest{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		OrderIDs:    orderIDs,
		RequestedAt: l.now().UTC(),
		Status:      models.PickupPending,
	}
	if err := l.store.InsertPickupRequest(ctx, request); err != nil {
		return nil, err
	}

	for _, order := range orders {
		update, err := lifecycle.RequestPickup(order)
		if err == nil {
			err = l.store.UpdateOrder(ctx, order.ID, update)
		}
		if err != nil {
			// Known consistency gap: the request is already recorded.
			log.Printf("pickup request %s: failed to transition order %s: %v", request.ID, order.ID, err)
		}
	}

	return &request, nil
}

// ListByCustomer returns the pickup requests made by the given customer.
func (l *PickupLedger) ListByCustomer(ctx context.Context, customerID string) ([]models.PickupRequest, error) {
	requests, err := l.store.ListPickupRequests(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]models.PickupRequest, 0, len(requests))
	for _, r := range requests {
		if r.CustomerID == customerID {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}
