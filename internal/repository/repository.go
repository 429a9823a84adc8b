package repository

import (
	"context"

	"campusrent-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id int32) (*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, category string, page, pageSize int32) ([]domain.Item, int32, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Item, error)
}

// RentalRepository persists rental records together with their negotiation
// log. Every mutating call is a single atomic storage operation: the status
// precondition is checked in the same statement (or transaction) that
// applies the write, so a stale transition never partially applies.
type RentalRepository interface {
	// Create inserts the rental and its initial negotiation entries in one
	// transaction.
	Create(ctx context.Context, rental *domain.Rental) error
	// GetByID loads the rental including its chat history in insertion order.
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	// UpdateTerms applies new terms, price, status and lastModifiedBy and
	// appends one negotiation entry, all in one transaction guarded by the
	// allowed prior statuses. Returns domain.ErrConflict when the record no
	// longer satisfies the precondition.
	UpdateTerms(ctx context.Context, rental *domain.Rental, entry *domain.NegotiationEntry, from []domain.RentalStatus) error
	// UpdateStatus is a conditional status transition: it applies only when
	// the current status is one of from, and returns domain.ErrConflict
	// otherwise.
	UpdateStatus(ctx context.Context, id int32, from []domain.RentalStatus, to domain.RentalStatus, actorID int32) error
	// SetReviewed marks the owner or renter review flag on a rental.
	SetReviewed(ctx context.Context, id int32, party domain.Party) error
	ListByOwner(ctx context.Context, ownerID int32, statuses []domain.RentalStatus) ([]domain.Rental, error)
	ListByRenter(ctx context.Context, renterID int32, statuses []domain.RentalStatus) ([]domain.Rental, error)
	// ListOngoingPastEndDate returns ongoing rentals whose end date is before
	// the given yyyy-mm-dd date. Used by the return reminder job.
	ListOngoingPastEndDate(ctx context.Context, date string) ([]domain.Rental, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
