package handlers

import (
	"context"
	"io"
	"time"

	"campusrent-backend/internal/domain"
	"campusrent-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockRentalService
type MockRentalService struct {
	mock.Mock
}

func (m *MockRentalService) CreateRentalRequest(ctx context.Context, renterID int32, input *service.CreateRentalInput) (*domain.Rental, error) {
	args := m.Called(ctx, renterID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) ModifyRental(ctx context.Context, actorID, rentalID int32, input *service.ModifyRentalInput) (*domain.Rental, error) {
	args := m.Called(ctx, actorID, rentalID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) AcceptRental(ctx context.Context, actorID, rentalID int32) (*domain.Rental, error) {
	args := m.Called(ctx, actorID, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) RejectRental(ctx context.Context, actorID, rentalID int32) (*domain.Rental, error) {
	args := m.Called(ctx, actorID, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) ConfirmPickup(ctx context.Context, actorID, rentalID int32) (*domain.Rental, error) {
	args := m.Called(ctx, actorID, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) ConfirmReturn(ctx context.Context, actorID, rentalID int32) (*domain.Rental, error) {
	args := m.Called(ctx, actorID, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) MarkReviewed(ctx context.Context, actorID, rentalID int32) error {
	args := m.Called(ctx, actorID, rentalID)
	return args.Error(0)
}
func (m *MockRentalService) GetRental(ctx context.Context, userID, rentalID int32) (*domain.Rental, error) {
	args := m.Called(ctx, userID, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) ListPendingForOwner(ctx context.Context, ownerID int32) ([]domain.Rental, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalService) ListAllForOwner(ctx context.Context, ownerID int32) ([]domain.Rental, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalService) ListMyRentals(ctx context.Context, renterID int32, statuses []domain.RentalStatus) ([]domain.Rental, error) {
	args := m.Called(ctx, renterID, statuses)
	return args.Get(0).([]domain.Rental), args.Error(1)
}

// MockAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, name, email, phone, campus, password string) (*domain.User, string, string, error) {
	args := m.Called(ctx, name, email, phone, campus, password)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*domain.User), args.String(1), args.String(2), args.Error(3)
}
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*domain.User), args.String(1), args.String(2), args.Error(3)
}
func (m *MockAuthService) RefreshToken(ctx context.Context, refresh string) (string, string, error) {
	args := m.Called(ctx, refresh)
	return args.String(0), args.String(1), args.Error(2)
}

// MockUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetProfile(ctx context.Context, userID int32) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) UpdateProfile(ctx context.Context, userID int32, name, email, phone, campus, avatarURL string) (*domain.User, error) {
	args := m.Called(ctx, userID, name, email, phone, campus, avatarURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockItemService
type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) AddItem(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockItemService) GetItem(ctx context.Context, id int32) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *MockItemService) UpdateItem(ctx context.Context, ownerID int32, item *domain.Item) error {
	args := m.Called(ctx, ownerID, item)
	return args.Error(0)
}
func (m *MockItemService) DeleteItem(ctx context.Context, ownerID, itemID int32) error {
	args := m.Called(ctx, ownerID, itemID)
	return args.Error(0)
}
func (m *MockItemService) ListItems(ctx context.Context, category string, page, pageSize int32) ([]domain.Item, int32, error) {
	args := m.Called(ctx, category, page, pageSize)
	return args.Get(0).([]domain.Item), args.Get(1).(int32), args.Error(2)
}
func (m *MockItemService) ListMyItems(ctx context.Context, ownerID int32) ([]domain.Item, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Item), args.Error(1)
}

// MockNotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

// MockStorage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GenerateUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error) {
	args := m.Called(ctx, key, contentType, expiresIn)
	return args.String(0), args.Error(1)
}
func (m *MockStorage) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Error(1)
}
func (m *MockStorage) FileExists(ctx context.Context, key string) (bool, int64, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}
func (m *MockStorage) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
func (m *MockStorage) SaveFile(key string, reader io.Reader) error {
	args := m.Called(key, reader)
	return args.Error(0)
}
func (m *MockStorage) ReadFile(key string) (io.ReadCloser, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}
