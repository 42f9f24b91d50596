package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oakhaven-doors/door-orders/models"
)

// orderRecord is the flat snake_case row shape of the orders table.
type orderRecord struct {
	ID                   string     `gorm:"column:id;primaryKey"`
	OrderNumber          string     `gorm:"column:order_number;not null;index"`
	OrderMessage         string     `gorm:"column:order_message"`
	ContactPerson        string     `gorm:"column:contact_person"`
	CustomerName         string     `gorm:"column:customer_name"`
	CustomerEmail        string     `gorm:"column:customer_email"`
	CustomerPhone        string     `gorm:"column:customer_phone"`
	CustomerAddress      string     `gorm:"column:customer_address"`
	Status               string     `gorm:"column:status;not null;index"`
	CreatedAt            time.Time  `gorm:"column:created_at"`
	UpdatedAt            time.Time  `gorm:"column:updated_at"`
	ExpectedDeliveryDate *time.Time `gorm:"column:expected_delivery_date"`
	RejectionReason      *string    `gorm:"column:rejection_reason"`
	CustomerID           string     `gorm:"column:customer_id;not null;index"`
	DeliveredAt          *time.Time `gorm:"column:delivered_at"`
	PhotoURL             *string    `gorm:"column:photo_url"`
}

func (orderRecord) TableName() string {
	return "orders"
}

// pickupRequestRecord is the row shape of the pickup_requests table. The
// referenced order ids travel as a JSON-encoded text column so the same
// shape works on every supported database.
type pickupRequestRecord struct {
	ID          string    `gorm:"column:id;primaryKey"`
	CustomerID  string    `gorm:"column:customer_id;not null;index"`
	OrderIDs    string    `gorm:"column:order_ids;not null"`
	RequestedAt time.Time `gorm:"column:requested_at"`
	Status      string    `gorm:"column:status;not null"`
}

func (pickupRequestRecord) TableName() string {
	return "pickup_requests"
}

type userRoleRecord struct {
	UserID    string    `gorm:"column:user_id;primaryKey"`
	Role      string    `gorm:"column:role;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (userRoleRecord) TableName() string {
	return "user_roles"
}

// orderToStorage converts a domain order to its row shape. It is total:
// every domain field has a column, absent optionals stay NULL.
func orderToStorage(o models.Order) orderRecord {
	return orderRecord{
		ID:                   o.ID,
		OrderNumber:          o.OrderNumber,
		OrderMessage:         o.OrderMessage,
		ContactPerson:        o.ContactPerson,
		CustomerName:         o.CustomerInfo.Name,
		CustomerEmail:        o.CustomerInfo.Email,
		CustomerPhone:        o.CustomerInfo.Phone,
		CustomerAddress:      o.CustomerInfo.Address,
		Status:               string(o.Status),
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
		ExpectedDeliveryDate: o.ExpectedDeliveryDate,
		RejectionReason:      o.RejectionReason,
		CustomerID:           o.CustomerID,
		DeliveredAt:          o.DeliveredAt,
		PhotoURL:             o.PhotoURL,
	}
}

// orderToDomain is the inverse of orderToStorage; NULL optional columns map
// to nil.
func orderToDomain(r orderRecord) models.Order {
	return models.Order{
		ID:            r.ID,
		OrderNumber:   r.OrderNumber,
		OrderMessage:  r.OrderMessage,
		ContactPerson: r.ContactPerson,
		CustomerInfo: models.CustomerInfo{
			Name:    r.CustomerName,
			Email:   r.CustomerEmail,
			Phone:   r.CustomerPhone,
			Address: r.CustomerAddress,
		},
		Status:               models.OrderStatus(r.Status),
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
		ExpectedDeliveryDate: r.ExpectedDeliveryDate,
		RejectionReason:      r.RejectionReason,
		CustomerID:           r.CustomerID,
		DeliveredAt:          r.DeliveredAt,
		PhotoURL:             r.PhotoURL,
	}
}

// orderUpdateColumns translates a partial update into the column map handed
// to GORM. Only provided fields produce columns; updated_at is always
// stamped regardless of what else changed.
func orderUpdateColumns(update models.OrderUpdate, now time.Time) map[string]any {
	cols := map[string]any{"updated_at": now}
	if update.OrderMessage != nil {
		cols["order_message"] = *update.OrderMessage
	}
	if update.ContactPerson != nil {
		cols["contact_person"] = *update.ContactPerson
	}
	if update.CustomerInfo != nil {
		cols["customer_name"] = update.CustomerInfo.Name
		cols["customer_email"] = update.CustomerInfo.Email
		cols["customer_phone"] = update.CustomerInfo.Phone
		cols["customer_address"] = update.CustomerInfo.Address
	}
	if update.Status != nil {
		cols["status"] = string(*update.Status)
	}
	if update.ExpectedDeliveryDate != nil {
		cols["expected_delivery_date"] = *update.ExpectedDeliveryDate
	}
	if update.RejectionReason != nil {
		cols["rejection_reason"] = *update.RejectionReason
	}
	if update.DeliveredAt != nil {
		cols["delivered_at"] = *update.DeliveredAt
	}
	if update.PhotoURL != nil {
		cols["photo_url"] = *update.PhotoURL
	}
	return cols
}

func pickupRequestToStorage(r models.PickupRequest) (pickupRequestRecord, error) {
	ids, err := json.Marshal(r.OrderIDs)
	if err != nil {
		return pickupRequestRecord{}, fmt.Errorf("failed to encode order ids: %w", err)
	}
	return pickupRequestRecord{
		ID:          r.ID,
		CustomerID:  r.CustomerID,
		OrderIDs:    string(ids),
		RequestedAt: r.RequestedAt,
		Status:      string(r.Status),
	}, nil
}

func pickupRequestToDomain(r pickupRequestRecord) (models.PickupRequest, error) {
	var ids []string
	if err := json.Unmarshal([]byte(r.OrderIDs), &ids); err != nil {
		return models.PickupRequest{}, fmt.Errorf("failed to decode order ids: %w", err)
	}
	return models.PickupRequest{
		ID:          r.ID,
		CustomerID:  r.CustomerID,
		OrderIDs:    ids,
		RequestedAt: r.RequestedAt,
		Status:      models.PickupRequestStatus(r.Status),
	}, nil
}

// RemoteStore is the GORM-backed relational implementation of Store.
type RemoteStore struct {
	db *gorm.DB
}

// NewRemoteStore wraps an open database handle.
func NewRemoteStore(db *gorm.DB) *RemoteStore {
	return &RemoteStore{db: db}
}

// Migrate creates or updates the three tables.
func (s *RemoteStore) Migrate() error {
	if err := s.db.AutoMigrate(&orderRecord{}, &pickupRequestRecord{}, &userRoleRecord{}); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}
	return nil
}

func (s *RemoteStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	var records []orderRecord
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	orders := make([]models.Order, len(records))
	for i, r := range records {
		orders[i] = orderToDomain(r)
	}
	return orders, nil
}

func (s *RemoteStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var record orderRecord
	err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	order := orderToDomain(record)
	return &order, nil
}

func (s *RemoteStore) InsertOrder(ctx context.Context, order models.Order) error {
	record := orderToStorage(order)
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (s *RemoteStore) UpdateOrder(ctx context.Context, id string, update models.OrderUpdate) error {
	cols := orderUpdateColumns(update, time.Now().UTC())
	result := s.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", id).Updates(cols)
	if result.Error != nil {
		return fmt.Errorf("failed to update order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RemoteStore) DeleteOrders(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&orderRecord{}).Error; err != nil {
		return fmt.Errorf("failed to delete orders: %w", err)
	}
	return nil
}

func (s *RemoteStore) ListPickupRequests(ctx context.Context) ([]models.PickupRequest, error) {
	var records []pickupRequestRecord
	if err := s.db.WithContext(ctx).Order("requested_at DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list pickup requests: %w", err)
	}
	requests := make([]models.PickupRequest, 0, len(records))
	for _, r := range records {
		request, err := pickupRequestToDomain(r)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, nil
}

func (s *RemoteStore) InsertPickupRequest(ctx context.Context, request models.PickupRequest) error {
	record, err := pickupRequestToStorage(request)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to insert pickup request: %w", err)
	}
	return nil
}

func (s *RemoteStore) GetUserRole(ctx context.Context, userID string) (models.Role, error) {
	var record userRoleRecord
	err := s.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user role: %w", err)
	}
	return models.Role(record.Role), nil
}

func (s *RemoteStore) SetUserRole(ctx context.Context, userID string, role models.Role) error {
	record := userRoleRecord{
		UserID:    userID,
		Role:      string(role),
		CreatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to set user role: %w", err)
	}
	return nil
}
