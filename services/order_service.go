package services

import (
	"context"
	"errors"
	"log"
	"mime/multipart"

	"github.com/google/uuid"

	"github.com/oakhaven-doors/door-orders/models"
	"github.com/oakhaven-doors/door-orders/repository"
	"github.com/oakhaven-doors/door-orders/utils"
)

// ErrPhotoRequired is returned when an order is placed without a photo.
var ErrPhotoRequired = errors.New("an order photo is required")

// OrderService runs the customer-facing place-order workflow: input
// validation, photo upload and repository create.
type OrderService struct {
	orders   *repository.OrderRepository
	photos   PhotoStore
	identity IdentityProvider
}

// NewOrderService wires the workflow's collaborators together.
func NewOrderService(orders *repository.OrderRepository, photos PhotoStore, identity IdentityProvider) *OrderService {
	return &OrderService{
		orders:   orders,
		photos:   photos,
		identity: identity,
	}
}

// PlaceOrderInput is what the order form collects.
type PlaceOrderInput struct {
	OrderNumber   string
	OrderMessage  string
	ContactPerson string

	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string

	// Photo of the door or opening; mandatory input.
	Photo *multipart.FileHeader
}

// PlaceOrder validates the input, uploads the photo and creates the order
// for the signed-in customer. All validation happens before any persistence;
// a failed photo upload is tolerated (the order is kept without a photo
// URL) so a flaky blob store cannot lose the order itself.
func (s *OrderService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	if err := utils.ValidateOrderNumber(input.OrderNumber); err != nil {
		return nil, err
	}
	if input.Photo == nil {
		return nil, ErrPhotoRequired
	}
	if err := utils.ValidateImageFile(input.Photo); err != nil {
		return nil, err
	}

	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	email := input.CustomerEmail
	if email == "" {
		email = user.PrimaryEmail()
	}

	orderID := uuid.NewString()

	var photoURL *string
	if url, err := s.photos.Upload(input.Photo, orderID); err != nil {
		log.Printf("photo upload failed for order %s, keeping order without photo: %v", orderID, err)
	} else {
		photoURL = &url
	}

	order := models.Order{
		ID:            orderID,
		OrderNumber:   input.OrderNumber,
		OrderMessage:  input.OrderMessage,
		ContactPerson: input.ContactPerson,
		CustomerInfo: models.CustomerInfo{
			Name:    input.CustomerName,
			Email:   email,
			Phone:   input.CustomerPhone,
			Address: input.CustomerAddress,
		},
		Status:     models.StatusPending,
		CustomerID: user.ID,
		PhotoURL:   photoURL,
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		// The order was not persisted; reclaim the uploaded photo so a
		// rejected creation does not leave an orphaned blob behind.
		if photoURL != nil {
			if delErr := s.photos.Delete(*photoURL); delErr != nil {
				log.Printf("failed to reclaim photo for unsaved order %s: %v", orderID, delErr)
			}
		}
		return nil, err
	}
	return created, nil
}
