package storage

import (
	"context"
	"errors"
	"log"

	"github.com/oakhaven-doors/door-orders/models"
)

// FallbackStore composes a primary (remote) store with a local one. Every
// operation runs against the primary; a failure logs and re-runs it locally,
// so callers see at most one error even when the remote store is down.
// Successful primary writes are mirrored into the local store best-effort,
// keeping it a last-known copy; nothing reconciles local data back to the
// primary once connectivity resumes.
//
// ErrNotFound from the primary is an answer, not an outage, and is returned
// as-is: consulting the stale mirror would resurrect deleted records.
type FallbackStore struct {
	primary Store
	local   Store
}

// NewFallbackStore builds the composition. Both stores must be non-nil.
func NewFallbackStore(primary, local Store) *FallbackStore {
	return &FallbackStore{primary: primary, local: local}
}

// shouldFallBack reports whether err warrants retrying on the local store,
// logging the failure when it does.
func shouldFallBack(op string, err error) bool {
	if err == nil || errors.Is(err, ErrNotFound) {
		return false
	}
	log.Printf("remote %s failed, falling back to local storage: %v", op, err)
	return true
}

// mirror replays a successful primary write on the local store. Mirror
// failures are logged and swallowed; the primary write already succeeded.
func mirror(op string, err error) {
	if err != nil {
		log.Printf("local mirror of %s failed: %v", op, err)
	}
}

func (s *FallbackStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.primary.ListOrders(ctx)
	if shouldFallBack("ListOrders", err) {
		return s.local.ListOrders(ctx)
	}
	return orders, err
}

func (s *FallbackStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.primary.GetOrder(ctx, id)
	if shouldFallBack("GetOrder", err) {
		return s.local.GetOrder(ctx, id)
	}
	return order, err
}

func (s *FallbackStore) InsertOrder(ctx context.Context, order models.Order) error {
	if err := s.primary.InsertOrder(ctx, order); err != nil {
		if shouldFallBack("InsertOrder", err) {
			return s.local.InsertOrder(ctx, order)
		}
		return err
	}
	mirror("InsertOrder", s.local.InsertOrder(ctx, order))
	return nil
}

func (s *FallbackStore) UpdateOrder(ctx context.Context, id string, update models.OrderUpdate) error {
	if err := s.primary.UpdateOrder(ctx, id, update); err != nil {
		if shouldFallBack("UpdateOrder", err) {
			return s.local.UpdateOrder(ctx, id, update)
		}
		return err
	}
	if err := s.local.UpdateOrder(ctx, id, update); err != nil && !errors.Is(err, ErrNotFound) {
		mirror("UpdateOrder", err)
	}
	return nil
}

func (s *FallbackStore) DeleteOrders(ctx context.Context, ids []string) error {
	if err := s.primary.DeleteOrders(ctx, ids); err != nil {
		if shouldFallBack("DeleteOrders", err) {
			return s.local.DeleteOrders(ctx, ids)
		}
		return err
	}
	mirror("DeleteOrders", s.local.DeleteOrders(ctx, ids))
	return nil
}

func (s *FallbackStore) ListPickupRequests(ctx context.Context) ([]models.PickupRequest, error) {
	requests, err := s.primary.ListPickupRequests(ctx)
	if shouldFallBack("ListPickupRequests", err) {
		return s.local.ListPickupRequests(ctx)
	}
	return requests, err
}

func (s *FallbackStore) InsertPickupRequest(ctx context.Context, request models.PickupRequest) error {
	if err := s.primary.InsertPickupRequest(ctx, request); err != nil {
		if shouldFallBack("InsertPickupRequest", err) {
			return s.local.InsertPickupRequest(ctx, request)
		}
		return err
	}
	mirror("InsertPickupRequest", s.local.InsertPickupRequest(ctx, request))
	return nil
}

func (s *FallbackStore) GetUserRole(ctx context.Context, userID string) (models.Role, error) {
	role, err := s.primary.GetUserRole(ctx, userID)
	if shouldFallBack("GetUserRole", err) {
		return s.local.GetUserRole(ctx, userID)
	}
	return role, err
}

func (s *FallbackStore) SetUserRole(ctx context.Context, userID string, role models.Role) error {
	if err := s.primary.SetUserRole(ctx, userID, role); err != nil {
		if shouldFallBack("SetUserRole", err) {
			return s.local.SetUserRole(ctx, userID, role)
		}
		return err
	}
	mirror("SetUserRole", s.local.SetUserRole(ctx, userID, role))
	return nil
}
