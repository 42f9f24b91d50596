package models

import (
	"time"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending         OrderStatus = "pending"          // new order, waiting for admin action
	StatusAccepted        OrderStatus = "accepted"         // admin accepted, under processing
	StatusPrepared        OrderStatus = "prepared"         // order is ready for pickup
	StatusPickupRequested OrderStatus = "pickup_requested" // customer requested pickup
	StatusDelivered       OrderStatus = "delivered"        // order has been delivered
	StatusRejected        OrderStatus = "rejected"         // admin rejected the order
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusPrepared, StatusPickupRequested, StatusDelivered, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether s permits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusRejected
}

// Active reports whether an order in status s still counts toward
// order-number uniqueness (not yet delivered or rejected).
func (s OrderStatus) Active() bool {
	return s.Valid() && !s.Terminal()
}

// CustomerInfo holds the delivery details entered when placing an order.
type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Order represents a wooden-door order in the system.
type Order struct {
	ID            string       `json:"id"`
	OrderNumber   string       `json:"orderNumber"`
	OrderMessage  string       `json:"orderMessage"`
	ContactPerson string       `json:"contactPerson"`
	CustomerInfo  CustomerInfo `json:"customerInfo"`
	Status        OrderStatus  `json:"status"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`

	// Admin decisions, set only by the matching status transition.
	ExpectedDeliveryDate *time.Time `json:"expectedDeliveryDate,omitempty"`
	RejectionReason      *string    `json:"rejectionReason,omitempty"`

	// CustomerID is the stable identifier from the identity provider.
	CustomerID string `json:"customerId"`

	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`

	// PhotoURL references the externally stored order photo. A photo is
	// mandatory input when placing an order, but the stored field stays
	// optional so an upload failure does not lose the order.
	PhotoURL *string `json:"photoUrl,omitempty"`
}

// OrderUpdate carries a partial update to an order. Nil fields are left
// untouched when the update is applied.
type OrderUpdate struct {
	OrderMessage         *string
	ContactPerson        *string
	CustomerInfo         *CustomerInfo
	Status               *OrderStatus
	ExpectedDeliveryDate *time.Time
	RejectionReason      *string
	DeliveredAt          *time.Time
	PhotoURL             *string
}

// Apply merges the provided fields of u into o. UpdatedAt is the caller's
// responsibility; it is stamped by the storage layer on every write.
func (u OrderUpdate) Apply(o *Order) {
	if u.OrderMessage != nil {
		o.OrderMessage = *u.OrderMessage
	}
	if u.ContactPerson != nil {
		o.ContactPerson = *u.ContactPerson
	}
	if u.CustomerInfo != nil {
		o.CustomerInfo = *u.CustomerInfo
	}
	if u.Status != nil {
		o.Status = *u.Status
	}
	if u.ExpectedDeliveryDate != nil {
		o.ExpectedDeliveryDate = u.ExpectedDeliveryDate
	}
	if u.RejectionReason != nil {
		o.RejectionReason = u.RejectionReason
	}
	if u.DeliveredAt != nil {
		o.DeliveredAt = u.DeliveredAt
	}
	if u.PhotoURL != nil {
		o.PhotoURL = u.PhotoURL
	}
}
