package unit

import (
	"context"

	"campusrent-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockItemRepo
type MockItemRepo struct {
	mock.Mock
}

func (m *MockItemRepo) Create(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockItemRepo) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *MockItemRepo) Update(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockItemRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockItemRepo) List(ctx context.Context, category string, page, pageSize int32) ([]domain.Item, int32, error) {
	args := m.Called(ctx, category, page, pageSize)
	return args.Get(0).([]domain.Item), args.Get(1).(int32), args.Error(2)
}
func (m *MockItemRepo) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Item, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Item), args.Error(1)
}

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) UpdateTerms(ctx context.Context, rental *domain.Rental, entry *domain.NegotiationEntry, from []domain.RentalStatus) error {
	args := m.Called(ctx, rental, entry, from)
	return args.Error(0)
}
func (m *MockRentalRepo) UpdateStatus(ctx context.Context, id int32, from []domain.RentalStatus, to domain.RentalStatus, actorID int32) error {
	args := m.Called(ctx, id, from, to, actorID)
	return args.Error(0)
}
func (m *MockRentalRepo) SetReviewed(ctx context.Context, id int32, party domain.Party) error {
	args := m.Called(ctx, id, party)
	return args.Error(0)
}
func (m *MockRentalRepo) ListByOwner(ctx context.Context, ownerID int32, statuses []domain.RentalStatus) ([]domain.Rental, error) {
	args := m.Called(ctx, ownerID, statuses)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListByRenter(ctx context.Context, renterID int32, statuses []domain.RentalStatus) ([]domain.Rental, error) {
	args := m.Called(ctx, renterID, statuses)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListOngoingPastEndDate(ctx context.Context, date string) ([]domain.Rental, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]domain.Rental), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRentalRequestNotification(ctx context.Context, ownerEmail, renterName, itemTitle string) error {
	args := m.Called(ctx, ownerEmail, renterName, itemTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendRentalModifiedNotification(ctx context.Context, email, modifierName, itemTitle string) error {
	args := m.Called(ctx, email, modifierName, itemTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendRentalDecisionNotification(ctx context.Context, renterEmail, itemTitle, ownerName string, accepted bool) error {
	args := m.Called(ctx, renterEmail, itemTitle, ownerName, accepted)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnReminderNotification(ctx context.Context, email, itemTitle, endDate string) error {
	args := m.Called(ctx, email, itemTitle, endDate)
	return args.Error(0)
}
