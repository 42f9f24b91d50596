package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakhaven-doors/door-orders/models"
)

func testOrder(id, number string, status models.OrderStatus) models.Order {
	createdAt := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	return models.Order{
		ID:            id,
		OrderNumber:   number,
		OrderMessage:  "front door, oak",
		ContactPerson: "Sam",
		CustomerInfo: models.CustomerInfo{
			Name:    "Sam Carpenter",
			Email:   "sam@example.com",
			Phone:   "+1 555 0100",
			Address: "12 Mill Road",
		},
		Status:     status,
		CustomerID: "user-1",
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func TestLocalStoreOrders(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	// Empty store reads as empty, not as an error.
	orders, err := store.ListOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	require.NoError(t, store.InsertOrder(ctx, testOrder("a", "1001", models.StatusPending)))
	require.NoError(t, store.InsertOrder(ctx, testOrder("b", "1002", models.StatusPending)))

	orders, err = store.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	got, err := store.GetOrder(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "1002", got.OrderNumber)

	_, err = store.GetOrder(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreUpdateOrder(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	order := testOrder("a", "1001", models.StatusPending)
	require.NoError(t, store.InsertOrder(ctx, order))

	status := models.StatusAccepted
	deliveryDate := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	err = store.UpdateOrder(ctx, "a", models.OrderUpdate{
		Status:               &status,
		ExpectedDeliveryDate: &deliveryDate,
	})
	require.NoError(t, err)

	got, err := store.GetOrder(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, got.Status)
	require.NotNil(t, got.ExpectedDeliveryDate)
	assert.True(t, got.ExpectedDeliveryDate.Equal(deliveryDate))
	assert.True(t, got.UpdatedAt.After(order.UpdatedAt), "updated_at must be refreshed")
	assert.Equal(t, order.OrderMessage, got.OrderMessage, "untouched fields survive")

	err = store.UpdateOrder(ctx, "missing", models.OrderUpdate{Status: &status})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreDeleteOrders(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.InsertOrder(ctx, testOrder("a", "1001", models.StatusDelivered)))
	require.NoError(t, store.InsertOrder(ctx, testOrder("b", "1002", models.StatusPending)))
	require.NoError(t, store.InsertOrder(ctx, testOrder("c", "1003", models.StatusPending)))

	require.NoError(t, store.DeleteOrders(ctx, []string{"a", "c", "missing"}))

	orders, err := store.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "b", orders[0].ID)

	// Deleting nothing is a no-op.
	require.NoError(t, store.DeleteOrders(ctx, nil))
}

func TestLocalStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	photoURL := "https://bucket.s3.us-east-1.amazonaws.com/a-1735686000.png"
	order := testOrder("a", "1001", models.StatusPending)
	order.PhotoURL = &photoURL
	require.NoError(t, store.InsertOrder(ctx, order))
	require.NoError(t, store.SetUserRole(ctx, "user-1", models.RoleAdmin))

	reopened, err := NewLocalStore(dir)
	require.NoError(t, err)

	got, err := reopened.GetOrder(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got.PhotoURL)
	assert.Equal(t, photoURL, *got.PhotoURL)
	assert.Nil(t, got.RejectionReason, "absent optionals stay absent after the JSON round-trip")

	role, err := reopened.GetUserRole(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)
}

func TestLocalStorePickupRequests(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	requests, err := store.ListPickupRequests(ctx)
	require.NoError(t, err)
	assert.Empty(t, requests)

	request := models.PickupRequest{
		ID:          "req-1",
		CustomerID:  "user-1",
		OrderIDs:    []string{"a", "b"},
		RequestedAt: time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC),
		Status:      models.PickupPending,
	}
	require.NoError(t, store.InsertPickupRequest(ctx, request))

	requests, err = store.ListPickupRequests(ctx)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, request.OrderIDs, requests[0].OrderIDs)
}

func TestLocalStoreUserRoles(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.GetUserRole(ctx, "unknown")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.SetUserRole(ctx, "user-1", models.RoleCustomer))
	role, err := store.GetUserRole(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, role)

	// Overwriting is idempotent.
	require.NoError(t, store.SetUserRole(ctx, "user-1", models.RoleAdmin))
	require.NoError(t, store.SetUserRole(ctx, "user-1", models.RoleAdmin))
	role, err = store.GetUserRole(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)
}
