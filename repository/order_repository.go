// Package repository implements the order, pickup-request and user-role
// read/write APIs over the storage port. Lifecycle transitions are validated
// by the lifecycle package before anything is persisted, so illegal attempts
// never reach storage.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oakhaven-doors/door-orders/lifecycle"
	"github.com/oakhaven-doors/door-orders/models"
	"github.com/oakhaven-doors/door-orders/storage"
)

// retentionMonths is how long delivered orders are kept before cleanup.
const retentionMonths = 3

// ErrDuplicateOrderNumber is returned when the order number is already used
// by an active (not delivered, not rejected) order. Numbers of terminal
// orders may be reused.
var ErrDuplicateOrderNumber = errors.New("order number already in use by an active order")

// OrderRepository is the unified read/write API over orders.
//
// Listing order is whatever the backing store provides (creation time
// descending on the remote store, insertion order locally); callers that
// display orders must apply their own sort key.
type OrderRepository struct {
	store storage.Store
	now   func() time.Time
}

// NewOrderRepository returns a repository backed by the given store.
func NewOrderRepository(store storage.Store) *OrderRepository {
	return &OrderRepository{store: store, now: time.Now}
}

// ListAll returns every stored order.
func (r *OrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	return r.store.ListOrders(ctx)
}

// ListByCustomer returns the orders placed by the given customer.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	orders, err := r.store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.CustomerID == customerID {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

// ListByStatus returns the orders currently in the given status.
func (r *OrderRepository) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	orders, err := r.store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == status {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

// GetByID returns the order with the given id, or storage.ErrNotFound.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	return r.store.GetOrder(ctx, id)
}

// Create persists a new order. A missing id is filled with a fresh UUID, a
// missing status defaults to pending, and CreatedAt/UpdatedAt are stamped.
// The order number must not be in use by any active order; format validation
// is the placing workflow's job.
func (r *OrderRepository) Create(ctx context.Context, order models.Order) (*models.Order, error) {
	if order.OrderNumber == "" {
		return nil, fmt.Errorf("order number is required")
	}
	if order.Status == "" {
		order.Status = models.StatusPending
	}
	if !order.Status.Valid() {
		return nil, fmt.Errorf("invalid order status %q", order.Status)
	}

	inUse, err := r.orderNumberInUse(ctx, order.OrderNumber)
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateOrderNumber, order.OrderNumber)
	}

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	now := r.now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	if err := r.store.InsertOrder(ctx, order); err != nil {
		return nil, err
	}
	return &order, nil
}

// orderNumberInUse scans active orders for an exact number match.
func (r *OrderRepository) orderNumberInUse(ctx context.Context, number string) (bool, error) {
	orders, err := r.store.ListOrders(ctx)
	if err != nil {
		return false, err
	}
	for _, o := range orders {
		if o.OrderNumber == number && o.Status.Active() {
			return true, nil
		}
	}
	return false, nil
}

// ApplyUpdate merges the provided fields into the stored order and refreshes
// its UpdatedAt. Returns storage.ErrNotFound for an unknown id; callers that
// hold a stale reference may ignore it.
func (r *OrderRepository) ApplyUpdate(ctx context.Context, id string, update models.OrderUpdate) error {
	return r.store.UpdateOrder(ctx, id, update)
}

// transition loads the order, derives the update for the event and persists
// it. The decision field and the status change travel in one update.
func (r *OrderRepository) transition(ctx context.Context, id string, event func(*models.Order) (models.OrderUpdate, error)) (*models.Order, error) {
	order, err := r.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	update, err := event(order)
	if err != nil {
		return nil, err
	}
	if err := r.store.UpdateOrder(ctx, id, update); err != nil {
		return nil, err
	}
	update.Apply(order)
	return order, nil
}

// Accept moves a pending order to accepted with the expected delivery date.
func (r *OrderRepository) Accept(ctx context.Context, id string, deliveryDate time.Time) (*models.Order, error) {
	return r.transition(ctx, id, func(o *models.Order) (models.OrderUpdate, error) {
		return lifecycle.Accept(o, deliveryDate, r.now())
	})
}

// Reject moves a pending order to rejected with the given reason.
func (r *OrderRepository) Reject(ctx context.Context, id string, reason string) (*models.Order, error) {
	return r.transition(ctx, id, func(o *models.Order) (models.OrderUpdate, error) {
		return lifecycle.Reject(o, reason)
	})
}

// MarkPrepared moves an accepted order to prepared.
func (r *OrderRepository) MarkPrepared(ctx context.Context, id string) (*models.Order, error) {
	return r.transition(ctx, id, lifecycle.MarkPrepared)
}

// MarkDelivered moves a prepared or pickup_requested order to delivered.
func (r *OrderRepository) MarkDelivered(ctx context.Context, id string) (*models.Order, error) {
	return r.transition(ctx, id, func(o *models.Order) (models.OrderUpdate, error) {
		return lifecycle.MarkDelivered(o, r.now().UTC())
	})
}

// CleanupExpired removes orders delivered more than three months ago and
// returns how many were removed. Orders without a delivery timestamp are
// never removed. Running it again is a no-op.
func (r *OrderRepository) CleanupExpired(ctx context.Context) (int, error) {
	orders, err := r.store.ListOrders(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := r.now().UTC().AddDate(0, -retentionMonths, 0)
	var expired []string
	for _, o := range orders {
		// Only strictly-newer deliveries survive; delivery exactly at
		// the cutoff instant counts as expired.
		if o.Status == models.StatusDelivered && o.DeliveredAt != nil && !o.DeliveredAt.After(cutoff) {
			expired = append(expired, o.ID)
		}
	}
	if len(expired) == 0 {
		return 0, nil
	}

	if err := r.store.DeleteOrders(ctx, expired); err != nil {
		return 0, err
	}
	return len(expired), nil
}
