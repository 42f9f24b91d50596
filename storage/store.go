// Package storage provides durable persistence for orders, pickup requests
// and user roles behind a single Store port. Two implementations exist: a
// remote relational store (PostgreSQL via GORM) and a local JSON-file store.
// Open selects the stack once at startup so callers never branch on whether
// a remote store is configured.
package storage

import (
	"context"
	"errors"
	"log"

	"github.com/oakhaven-doors/door-orders/config"
	"github.com/oakhaven-doors/door-orders/models"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the persistence port consumed by the repositories.
type Store interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	InsertOrder(ctx context.Context, order models.Order) error
	// UpdateOrder merges the provided fields into the stored order and
	// always stamps updated_at. Returns ErrNotFound for an unknown id.
	UpdateOrder(ctx context.Context, id string, update models.OrderUpdate) error
	DeleteOrders(ctx context.Context, ids []string) error

	ListPickupRequests(ctx context.Context) ([]models.PickupRequest, error)
	InsertPickupRequest(ctx context.Context, request models.PickupRequest) error

	// GetUserRole returns ErrNotFound when the user has no stored role;
	// defaulting to customer is the caller's concern.
	GetUserRole(ctx context.Context, userID string) (models.Role, error)
	SetUserRole(ctx context.Context, userID string, role models.Role) error
}

// Open builds the storage stack for the given configuration. When a remote
// database is configured and reachable the result is remote-primary with the
// local store as fallback mirror; otherwise it is the local store alone. A
// remote connection or migration failure degrades to local-only rather than
// failing startup.
func Open(cfg *config.Config) (Store, error) {
	local, err := NewLocalStore(cfg.LocalStorePath)
	if err != nil {
		return nil, err
	}

	if !cfg.IsRemoteConfigured() {
		return local, nil
	}

	db, err := config.ConnectRemote(cfg)
	if err != nil {
		log.Printf("remote store unavailable, using local storage: %v", err)
		return local, nil
	}

	remote := NewRemoteStore(db)
	if err := remote.Migrate(); err != nil {
		log.Printf("remote store migration failed, using local storage: %v", err)
		return local, nil
	}

	return NewFallbackStore(remote, local), nil
}
