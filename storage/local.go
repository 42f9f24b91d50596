package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oakhaven-doors/door-orders/models"
)

// Collection file names inside the local store directory.
const (
	ordersFile         = "orders.json"
	pickupRequestsFile = "pickup_requests.json"
	userRolesFile      = "user_roles.json"
)

// LocalStore persists each collection as a plain JSON file under a single
// directory. It is the durable per-installation fallback used when no remote
// database is configured or reachable. Serialization is a plain JSON
// round-trip with no migration support; a record shape change requires a
// compatible reader.
type LocalStore struct {
	dir string
	mu  sync.Mutex
}

// NewLocalStore creates the store directory if needed and returns the store.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create local store directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// readCollection decodes the named file into v. A missing file reads as
// empty: v is left at its zero value.
func (s *LocalStore) readCollection(name string, v any) error {
	file, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

func (s *LocalStore) writeCollection(name string, v any) error {
	file, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return nil
}

func (s *LocalStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []models.Order
	if err := s.readCollection(ordersFile, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *LocalStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []models.Order
	if err := s.readCollection(ordersFile, &orders); err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *LocalStore) InsertOrder(ctx context.Context, order models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []models.Order
	if err := s.readCollection(ordersFile, &orders); err != nil {
		return err
	}
	orders = append(orders, order)
	return s.writeCollection(ordersFile, orders)
}

func (s *LocalStore) UpdateOrder(ctx context.Context, id string, update models.OrderUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []models.Order
	if err := s.readCollection(ordersFile, &orders); err != nil {
		return err
	}
	for i := range orders {
		if orders[i].ID == id {
			update.Apply(&orders[i])
			orders[i].UpdatedAt = time.Now().UTC()
			return s.writeCollection(ordersFile, orders)
		}
	}
	return ErrNotFound
}

func (s *LocalStore) DeleteOrders(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []models.Order
	if err := s.readCollection(ordersFile, &orders); err != nil {
		return err
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := orders[:0]
	for _, o := range orders {
		if !drop[o.ID] {
			kept = append(kept, o)
		}
	}
	return s.writeCollection(ordersFile, kept)
}

func (s *LocalStore) ListPickupRequests(ctx context.Context) ([]models.PickupRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var requests []models.PickupRequest
	if err := s.readCollection(pickupRequestsFile, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *LocalStore) InsertPickupRequest(ctx context.Context, request models.PickupRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var requests []models.PickupRequest
	if err := s.readCollection(pickupRequestsFile, &requests); err != nil {
		return err
	}
	requests = append(requests, request)
	return s.writeCollection(pickupRequestsFile, requests)
}

func (s *LocalStore) GetUserRole(ctx context.Context, userID string) (models.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles := map[string]models.UserRole{}
	if err := s.readCollection(userRolesFile, &roles); err != nil {
		return "", err
	}
	entry, ok := roles[userID]
	if !ok {
		return "", ErrNotFound
	}
	return entry.Role, nil
}

func (s *LocalStore) SetUserRole(ctx context.Context, userID string, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles := map[string]models.UserRole{}
	if err := s.readCollection(userRolesFile, &roles); err != nil {
		return err
	}
	entry, ok := roles[userID]
	if !ok {
		entry = models.UserRole{UserID: userID, CreatedAt: time.Now().UTC()}
	}
	entry.Role = role
	roles[userID] = entry
	return s.writeCollection(userRolesFile, roles)
}
