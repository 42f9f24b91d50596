package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/oakhaven-doors/door-orders/models"
	"github.com/oakhaven-doors/door-orders/storage"
)

// RoleStore reads and writes the user-id to role mapping.
type RoleStore struct {
	store storage.Store
}

// NewRoleStore returns a role store backed by the given store.
func NewRoleStore(store storage.Store) *RoleStore {
	return &RoleStore{store: store}
}

// Get returns the user's selected role. A user without a stored role is a
// customer; nobody defaults to admin.
func (r *RoleStore) Get(ctx context.Context, userID string) (models.Role, error) {
	role, err := r.store.GetUserRole(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.RoleCustomer, nil
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

// Set stores the user's role, overwriting any previous selection.
func (r *RoleStore) Set(ctx context.Context, userID string, role models.Role) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if !role.Valid() {
		return fmt.Errorf("invalid role %q", role)
	}
	return r.store.SetUserRole(ctx, userID, role)
}
