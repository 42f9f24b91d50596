package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakhaven-doors/door-orders/models"
)

// brokenStore fails every operation with a fixed error, standing in for an
// unreachable remote store.
type brokenStore struct {
	err error
}

func (s brokenStore) ListOrders(ctx context.Context) ([]models.Order, error) { return nil, s.err }
func (s brokenStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return nil, s.err
}
func (s brokenStore) InsertOrder(ctx context.Context, order models.Order) error { return s.err }
func (s brokenStore) UpdateOrder(ctx context.Context, id string, update models.OrderUpdate) error {
	return s.err
}
func (s brokenStore) DeleteOrders(ctx context.Context, ids []string) error { return s.err }
func (s brokenStore) ListPickupRequests(ctx context.Context) ([]models.PickupRequest, error) {
	return nil, s.err
}
func (s brokenStore) InsertPickupRequest(ctx context.Context, request models.PickupRequest) error {
	return s.err
}
func (s brokenStore) GetUserRole(ctx context.Context, userID string) (models.Role, error) {
	return "", s.err
}
func (s brokenStore) SetUserRole(ctx context.Context, userID string, role models.Role) error {
	return s.err
}

func TestFallbackStoreRoutesToLocalOnPrimaryFailure(t *testing.T) {
	ctx := context.Background()
	local, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	down := brokenStore{err: errors.New("connection refused")}
	store := NewFallbackStore(down, local)

	// Writes land locally when the primary is down.
	require.NoError(t, store.InsertOrder(ctx, testOrder("a", "1001", models.StatusPending)))

	orders, err := store.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "a", orders[0].ID)

	status := models.StatusAccepted
	require.NoError(t, store.UpdateOrder(ctx, "a", models.OrderUpdate{Status: &status}))

	got, err := store.GetOrder(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, got.Status)

	require.NoError(t, store.SetUserRole(ctx, "user-1", models.RoleAdmin))
	role, err := store.GetUserRole(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)
}

func TestFallbackStoreDoesNotFallBackOnNotFound(t *testing.T) {
	ctx := context.Background()

	// Local holds a stale copy the primary no longer has; a definitive
	// not-found from the primary must win over the mirror.
	local, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, local.InsertOrder(ctx, testOrder("stale", "1001", models.StatusPending)))

	primary := setupRemoteStore(t)
	store := NewFallbackStore(primary, local)

	_, err = store.GetOrder(ctx, "stale")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFallbackStoreMirrorsSuccessfulWrites(t *testing.T) {
	ctx := context.Background()
	local, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	primary := setupRemoteStore(t)
	store := NewFallbackStore(primary, local)

	require.NoError(t, store.InsertOrder(ctx, testOrder("a", "1001", models.StatusPending)))

	// The local mirror holds a last-known copy of the remote write.
	mirrored, err := local.GetOrder(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1001", mirrored.OrderNumber)

	status := models.StatusAccepted
	require.NoError(t, store.UpdateOrder(ctx, "a", models.OrderUpdate{Status: &status}))

	mirrored, err = local.GetOrder(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, mirrored.Status)
}

func TestFallbackStoreSurfacesLocalFailure(t *testing.T) {
	ctx := context.Background()

	// Both paths down: the local error is surfaced, there is no third hop.
	down := brokenStore{err: errors.New("connection refused")}
	alsoDown := brokenStore{err: errors.New("disk full")}
	store := NewFallbackStore(down, alsoDown)

	err := store.InsertOrder(ctx, testOrder("a", "1001", models.StatusPending))
	require.Error(t, err)
	assert.Equal(t, "disk full", err.Error())
}
