package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakhaven-doors/door-orders/models"
)

func TestRoleStoreDefaultsToCustomer(t *testing.T) {
	ctx := context.Background()
	roles := NewRoleStore(newTestStore(t))

	role, err := roles.Get(ctx, "never-seen-before")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, role)
}

func TestRoleStoreSet(t *testing.T) {
	ctx := context.Background()
	roles := NewRoleStore(newTestStore(t))

	require.NoError(t, roles.Set(ctx, "user-1", models.RoleAdmin))
	role, err := roles.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	// Overwriting is allowed and idempotent.
	require.NoError(t, roles.Set(ctx, "user-1", models.RoleCustomer))
	require.NoError(t, roles.Set(ctx, "user-1", models.RoleCustomer))
	role, err = roles.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, role)
}

func TestRoleStoreSetValidation(t *testing.T) {
	ctx := context.Background()
	roles := NewRoleStore(newTestStore(t))

	assert.Error(t, roles.Set(ctx, "", models.RoleAdmin))
	assert.Error(t, roles.Set(ctx, "user-1", models.Role("superuser")))
}
