package service

import (
	"context"

	"campusrent-backend/internal/domain"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, phone, campus, password string) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
}

type UserService interface {
	GetProfile(ctx context.Context, userID int32) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int32, name, email, phone, campus, avatarURL string) (*domain.User, error)
}

type ItemService interface {
	AddItem(ctx context.Context, item *domain.Item) error
	GetItem(ctx context.Context, id int32) (*domain.Item, error)
	UpdateItem(ctx context.Context, ownerID int32, item *domain.Item) error
	DeleteItem(ctx context.Context, ownerID, itemID int32) error
	ListItems(ctx context.Context, category string, page, pageSize int32) ([]domain.Item, int32, error)
	ListMyItems(ctx context.Context, ownerID int32) ([]domain.Item, error)
}

// CreateRentalInput carries the terms a renter proposes when requesting an
// item.
type CreateRentalInput struct {
	ItemID         int32                 `json:"item_id"`
	PaymentMethod  domain.PaymentMethod  `json:"payment_method"`
	RentalPeriod   domain.RentalPeriod   `json:"rental_period"`
	MeetingDetails domain.MeetingDetails `json:"meeting_details"`
	Message        string                `json:"message"`
}

// ModifyRentalInput is a partial update: nil fields keep the current terms.
type ModifyRentalInput struct {
	RentalPeriod   *domain.RentalPeriod   `json:"rental_period,omitempty"`
	MeetingDetails *domain.MeetingDetails `json:"meeting_details,omitempty"`
	Message        string                 `json:"message"`
}

// RentalService owns the rental lifecycle: it validates and executes every
// transition, enforces who may act, recomputes the price, and appends to the
// negotiation log. There is no other mutation path for rental records.
type RentalService interface {
	CreateRentalRequest(ctx context.Context, renterID int32, input *CreateRentalInput) (*domain.Rental, error)
	ModifyRental(ctx context.Context, actorID, rentalID int32, input *ModifyRentalInput) (*domain.Rental, error)
	AcceptRental(ctx context.Context, actorID, rentalID int32) (*domain.Rental, error)
	RejectRental(ctx context.Context, actorID, rentalID int32) (*domain.Rental, error)
	ConfirmPickup(ctx context.Context, actorID, rentalID int32) (*domain.Rental, error)
	ConfirmReturn(ctx context.Context, actorID, rentalID int32) (*domain.Rental, error)
	MarkReviewed(ctx context.Context, actorID, rentalID int32) error

	// Read-side views. No mutations.
	GetRental(ctx context.Context, userID, rentalID int32) (*domain.Rental, error)
	ListPendingForOwner(ctx context.Context, ownerID int32) ([]domain.Rental, error)
	ListAllForOwner(ctx context.Context, ownerID int32) ([]domain.Rental, error)
	ListMyRentals(ctx context.Context, renterID int32, statuses []domain.RentalStatus) ([]domain.Rental, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendRentalRequestNotification(ctx context.Context, ownerEmail, renterName, itemTitle string) error
	SendRentalModifiedNotification(ctx context.Context, email, modifierName, itemTitle string) error
	SendRentalDecisionNotification(ctx context.Context, renterEmail, itemTitle, ownerName string, accepted bool) error
	SendReturnReminderNotification(ctx context.Context, email, itemTitle, endDate string) error
}
