// Package lifecycle encodes the order status state machine. Each event
// function validates its inputs against the current order and returns the
// partial update the transition produces; the order itself is never touched,
// so a failed attempt leaves it byte-for-byte unchanged.
package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oakhaven-doors/door-orders/models"
)

var (
	ErrIllegalTransition    = errors.New("illegal status transition")
	ErrDeliveryDateRequired = errors.New("expected delivery date is required")
	ErrDeliveryDateInPast   = errors.New("expected delivery date must not be in the past")
	ErrReasonRequired       = errors.New("rejection reason is required")
)

// transitions lists the legal target statuses per source status. Terminal
// statuses have no entry.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPending:         {models.StatusAccepted, models.StatusRejected},
	models.StatusAccepted:        {models.StatusPrepared},
	models.StatusPrepared:        {models.StatusPickupRequested, models.StatusDelivered},
	models.StatusPickupRequested: {models.StatusDelivered},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to models.OrderStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

func checkTransition(o *models.Order, to models.OrderStatus) error {
	if !CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, to)
	}
	return nil
}

// Accept moves a pending order to accepted. The expected delivery date is
// required and must not be before the start of the current day.
func Accept(o *models.Order, deliveryDate time.Time, now time.Time) (models.OrderUpdate, error) {
	if err := checkTransition(o, models.StatusAccepted); err != nil {
		return models.OrderUpdate{}, err
	}
	if deliveryDate.IsZero() {
		return models.OrderUpdate{}, ErrDeliveryDateRequired
	}
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if deliveryDate.Before(startOfToday) {
		return models.OrderUpdate{}, ErrDeliveryDateInPast
	}
	status := models.StatusAccepted
	return models.OrderUpdate{
		Status:               &status,
		ExpectedDeliveryDate: &deliveryDate,
	}, nil
}

// Reject moves a pending order to rejected. A non-blank reason is required.
func Reject(o *models.Order, reason string) (models.OrderUpdate, error) {
	if err := checkTransition(o, models.StatusRejected); err != nil {
		return models.OrderUpdate{}, err
	}
	if strings.TrimSpace(reason) == "" {
		return models.OrderUpdate{}, ErrReasonRequired
	}
	status := models.StatusRejected
	return models.OrderUpdate{
		Status:          &status,
		RejectionReason: &reason,
	}, nil
}

// MarkPrepared moves an accepted order to prepared.
func MarkPrepared(o *models.Order) (models.OrderUpdate, error) {
	if err := checkTransition(o, models.StatusPrepared); err != nil {
		return models.OrderUpdate{}, err
	}
	status := models.StatusPrepared
	return models.OrderUpdate{Status: &status}, nil
}

// RequestPickup moves a prepared order to pickup_requested. The linked
// PickupRequest is recorded by the ledger, not here.
func RequestPickup(o *models.Order) (models.OrderUpdate, error) {
	if err := checkTransition(o, models.StatusPickupRequested); err != nil {
		return models.OrderUpdate{}, err
	}
	status := models.StatusPickupRequested
	return models.OrderUpdate{Status: &status}, nil
}

// MarkDelivered moves a prepared or pickup_requested order to delivered and
// stamps the delivery time.
func MarkDelivered(o *models.Order, now time.Time) (models.OrderUpdate, error) {
	if err := checkTransition(o, models.StatusDelivered); err != nil {
		return models.OrderUpdate{}, err
	}
	status := models.StatusDelivered
	deliveredAt := now
	return models.OrderUpdate{
		Status:      &status,
		DeliveredAt: &deliveredAt,
	}, nil
}
