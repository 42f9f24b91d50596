package models

import (
	"time"
)

// PickupRequestStatus is the state of a pickup request.
type PickupRequestStatus string

const (
	PickupPending PickupRequestStatus = "pending"
	// PickupCompleted exists in stored data but nothing currently drives a
	// request to it; requests are written once and never mutated.
	PickupCompleted PickupRequestStatus = "completed"
)

// PickupRequest records a customer asking to pick up a batch of prepared
// orders in one trip.
type PickupRequest struct {
	ID          string              `json:"id"`
	CustomerID  string              `json:"customerId"`
	OrderIDs    []string            `json:"orderIds"`
	RequestedAt time.Time           `json:"requestedAt"`
	Status      PickupRequestStatus `json:"status"`
}
