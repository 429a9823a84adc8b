package unit

import (
	"context"
	"testing"

	"campusrent-backend/internal/domain"
	"campusrent-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newRentalFixture() (*MockRentalRepo, *MockItemRepo, *MockUserRepo, *MockNotificationRepo, *MockEmailService, service.RentalService) {
	rentalRepo := new(MockRentalRepo)
	itemRepo := new(MockItemRepo)
	userRepo := new(MockUserRepo)
	noteRepo := new(MockNotificationRepo)
	emailSvc := new(MockEmailService)
	svc := service.NewRentalService(rentalRepo, itemRepo, userRepo, noteRepo, emailSvc)
	return rentalRepo, itemRepo, userRepo, noteRepo, emailSvc, svc
}

var negotiable = []domain.RentalStatus{domain.RentalStatusPending, domain.RentalStatusModified}

func TestRentalService_CreateRentalRequest(t *testing.T) {
	ctx := context.Background()
	renterID := int32(1)
	ownerID := int32(10)
	itemID := int32(2)

	item := &domain.Item{
		ID:              itemID,
		OwnerID:         ownerID,
		Title:           "Cordless Drill",
		DailyPriceCents: 1000,
		DepositCents:    500,
	}
	input := &service.CreateRentalInput{
		ItemID:       itemID,
		RentalPeriod: domain.RentalPeriod{StartDate: "2025-06-01", EndDate: "2025-06-03"},
		MeetingDetails: domain.MeetingDetails{
			Date: "2025-06-01", Time: "10:00", Location: "Library entrance",
		},
		Message: "Hi, can I borrow this?",
	}

	t.Run("Success", func(t *testing.T) {
		rentalRepo, itemRepo, userRepo, noteRepo, emailSvc, svc := newRentalFixture()

		itemRepo.On("GetByID", ctx, itemID).Return(item, nil)

		var created *domain.Rental
		rentalRepo.On("Create", ctx, mock.AnythingOfType("*domain.Rental")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*domain.Rental)
				created.ID = 7
			}).Return(nil)
		rentalRepo.On("GetByID", ctx, int32(7)).Return(&domain.Rental{
			ID: 7, ItemID: itemID, OwnerID: ownerID, RenterID: renterID,
			Status: domain.RentalStatusPending, TotalPriceCents: 3500,
		}, nil)

		userRepo.On("GetByID", ctx, ownerID).Return(&domain.User{ID: ownerID, Email: "owner@campus.edu", Name: "Owner"}, nil)
		userRepo.On("GetByID", ctx, renterID).Return(&domain.User{ID: renterID, Email: "renter@campus.edu", Name: "Renter"}, nil)
		emailSvc.On("SendRentalRequestNotification", ctx, "owner@campus.edu", "Renter", "Cordless Drill").Return(nil)
		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		res, err := svc.CreateRentalRequest(ctx, renterID, input)
		assert.NoError(t, err)
		assert.NotNil(t, res)

		// 3 inclusive days * 1000 + 500 deposit
		assert.Equal(t, int64(3500), created.TotalPriceCents)
		assert.Equal(t, domain.RentalStatusPending, created.Status)
		assert.Equal(t, domain.PaymentMethodCash, created.PaymentMethod)
		assert.Equal(t, renterID, created.LastModifiedBy)

		// Exactly one log entry: the renter's original request.
		assert.Len(t, created.ChatHistory, 1)
		assert.Equal(t, domain.PartyRenter, created.ChatHistory[0].Sender)
		assert.Equal(t, domain.NegotiationTypeRequest, created.ChatHistory[0].Type)
		assert.Equal(t, "Hi, can I borrow this?", created.ChatHistory[0].Message)
	})

	t.Run("Item Not Found", func(t *testing.T) {
		rentalRepo, itemRepo, _, _, _, svc := newRentalFixture()
		itemRepo.On("GetByID", ctx, int32(404)).Return(nil, domain.ErrNotFound)

		missing := *input
		missing.ItemID = 404
		res, err := svc.CreateRentalRequest(ctx, renterID, &missing)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, res)
		rentalRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Own Item", func(t *testing.T) {
		rentalRepo, itemRepo, _, _, _, svc := newRentalFixture()
		itemRepo.On("GetByID", ctx, itemID).Return(item, nil)

		res, err := svc.CreateRentalRequest(ctx, ownerID, input)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Nil(t, res)
		rentalRepo.AssertNotCalled(t, "Create")
	})

	t.Run("End Before Start", func(t *testing.T) {
		rentalRepo, itemRepo, _, _, _, svc := newRentalFixture()
		itemRepo.On("GetByID", ctx, itemID).Return(item, nil)

		bad := *input
		bad.RentalPeriod = domain.RentalPeriod{StartDate: "2025-06-03", EndDate: "2025-06-01"}
		res, err := svc.CreateRentalRequest(ctx, renterID, &bad)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Nil(t, res)
		rentalRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Missing Meeting Details", func(t *testing.T) {
		_, itemRepo, _, _, _, svc := newRentalFixture()
		itemRepo.On("GetByID", ctx, itemID).Return(item, nil)

		bad := *input
		bad.MeetingDetails = domain.MeetingDetails{}
		res, err := svc.CreateRentalRequest(ctx, renterID, &bad)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Nil(t, res)
	})
}

func TestRentalService_ModifyRental(t *testing.T) {
	ctx := context.Background()
	rentalID := int32(7)
	renterID := int32(1)
	ownerID := int32(10)
	itemID := int32(2)

	newRental := func() *domain.Rental {
		return &domain.Rental{
			ID: rentalID, ItemID: itemID, OwnerID: ownerID, RenterID: renterID,
			Status:          domain.RentalStatusPending,
			RentalPeriod:    domain.RentalPeriod{StartDate: "2025-06-01", EndDate: "2025-06-03"},
			MeetingDetails:  domain.MeetingDetails{Date: "2025-06-01", Time: "10:00", Location: "Library entrance"},
			TotalPriceCents: 3500,
		}
	}
	item := &domain.Item{ID: itemID, OwnerID: ownerID, Title: "Cordless Drill", DailyPriceCents: 1000, DepositCents: 500}

	t.Run("Owner Extends Period", func(t *testing.T) {
		rentalRepo, itemRepo, userRepo, noteRepo, emailSvc, svc := newRentalFixture()
		rt := newRental()

		rentalRepo.On("GetByID", ctx, rentalID).Return(rt, nil)
		itemRepo.On("GetByID", ctx, itemID).Return(item, nil)

		var entry *domain.NegotiationEntry
		rentalRepo.On("UpdateTerms", ctx, rt, mock.AnythingOfType("*domain.NegotiationEntry"), negotiable).
			Run(func(args mock.Arguments) {
				entry = args.Get(2).(*domain.NegotiationEntry)
			}).Return(nil)

		userRepo.On("GetByID", ctx, ownerID).Return(&domain.User{ID: ownerID, Email: "owner@campus.edu", Name: "Owner"}, nil)
		userRepo.On("GetByID", ctx, renterID).Return(&domain.User{ID: renterID, Email: "renter@campus.edu", Name: "Renter"}, nil)
		emailSvc.On("SendRentalModifiedNotification", ctx, "renter@campus.edu", "Owner", "Cordless Drill").Return(nil)
		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		res, err := svc.ModifyRental(ctx, ownerID, rentalID, &service.ModifyRentalInput{
			RentalPeriod: &domain.RentalPeriod{StartDate: "2025-06-01", EndDate: "2025-06-05"},
			Message:      "I need it back by the 5th at the latest",
		})
		assert.NoError(t, err)
		assert.NotNil(t, res)

		// 5 inclusive days * 1000 + 500 deposit, against the current item rate.
		assert.Equal(t, int64(5500), rt.TotalPriceCents)
		assert.Equal(t, domain.RentalStatusModified, rt.Status)
		assert.Equal(t, ownerID, rt.LastModifiedBy)

		assert.Equal(t, domain.PartyOwner, entry.Sender)
		assert.Equal(t, domain.NegotiationTypeModify, entry.Type)
		assert.Equal(t, "2025-06-05", entry.RentalPeriod.EndDate)
	})

	t.Run("Meeting Change Keeps Price", func(t *testing.T) {
		rentalRepo, itemRepo, userRepo, noteRepo, emailSvc, svc := newRentalFixture()
		rt := newRental()

		rentalRepo.On("GetByID", ctx, rentalID).Return(rt, nil)
		itemRepo.On("GetByID", ctx, itemID).Return(item, nil)
		rentalRepo.On("UpdateTerms", ctx, rt, mock.AnythingOfType("*domain.NegotiationEntry"), negotiable).Return(nil)
		userRepo.On("GetByID", ctx, mock.AnythingOfType("int32")).Return(&domain.User{Email: "x@campus.edu"}, nil)
		emailSvc.On("SendRentalModifiedNotification", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		_, err := svc.ModifyRental(ctx, renterID, rentalID, &service.ModifyRentalInput{
			MeetingDetails: &domain.MeetingDetails{Date: "2025-06-01", Time: "14:00", Location: "Student union"},
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(3500), rt.TotalPriceCents)
		assert.Equal(t, "14:00", rt.MeetingDetails.Time)
	})

	t.Run("Third Party", func(t *testing.T) {
		rentalRepo, _, _, _, _, svc := newRentalFixture()
		rentalRepo.On("GetByID", ctx, rentalID).Return(newRental(), nil)

		res, err := svc.ModifyRental(ctx, int32(99), rentalID, &service.ModifyRentalInput{})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Nil(t, res)
		rentalRepo.AssertNotCalled(t, "UpdateTerms")
	})

	t.Run("Already Decided", func(t *testing.T) {
		rentalRepo, itemRepo, _, _, _, svc := newRentalFixture()
		rt := newRental()
		rentalRepo.On("GetByID", ctx, rentalID).Return(rt, nil)
		itemRepo.On("GetByID", ctx, itemID).Return(item, nil)
		rentalRepo.On("UpdateTerms", ctx, rt, mock.AnythingOfType("*domain.NegotiationEntry"), negotiable).
			Return(domain.ErrConflict)

		res, err := svc.ModifyRental(ctx, renterID, rentalID, &service.ModifyRentalInput{
			RentalPeriod: &domain.RentalPeriod{StartDate: "2025-06-01", EndDate: "2025-06-04"},
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Nil(t, res)
	})
}

func TestRentalService_Decisions(t *testing.T) {
	ctx := context.Background()
	rentalID := int32(7)
	renterID := int32(1)
	ownerID := int32(10)

	newRental := func(status domain.RentalStatus) *domain.Rental {
		return &domain.Rental{
			ID: rentalID, ItemID: 2, OwnerID: ownerID, RenterID: renterID, Status: status,
		}
	}

	expectNotify := func(itemRepo *MockItemRepo, userRepo *MockUserRepo, noteRepo *MockNotificationRepo) {
		itemRepo.On("GetByID", ctx, int32(2)).Return(&domain.Item{ID: 2, OwnerID: ownerID, Title: "Cordless Drill"}, nil)
		userRepo.On("GetByID", ctx, ownerID).Return(&domain.User{ID: ownerID, Email: "owner@campus.edu", Name: "Owner"}, nil)
		userRepo.On("GetByID", ctx, renterID).Return(&domain.User{ID: renterID, Email: "renter@campus.edu", Name: "Renter"}, nil)
		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)
	}

	t.Run("Accept", func(t *testing.T) {
		rentalRepo, itemRepo, userRepo, noteRepo, emailSvc, svc := newRentalFixture()
		rt := newRental(domain.RentalStatusModified)
		rentalRepo.On("GetByID", ctx, rentalID).Return(rt, nil)
		rentalRepo.On("UpdateStatus", ctx, rentalID, negotiable, domain.RentalStatusAccepted, ownerID).Return(nil)
		expectNotify(itemRepo, userRepo, noteRepo)
		emailSvc.On("SendRentalDecisionNotification", ctx, "renter@campus.edu", "Cordless Drill", "Owner", true).Return(nil)

		res, err := svc.AcceptRental(ctx, ownerID, rentalID)
		assert.NoError(t, err)
		assert.NotNil(t, res)
		rentalRepo.AssertExpectations(t)
	})

	t.Run("Reject", func(t *testing.T) {
		rentalRepo, itemRepo, userRepo, noteRepo, emailSvc, svc := newRentalFixture()
		rt := newRental(domain.RentalStatusPending)
		rentalRepo.On("GetByID", ctx, rentalID).Return(rt, nil)
		rentalRepo.On("UpdateStatus", ctx, rentalID, negotiable, domain.RentalStatusRejected, ownerID).Return(nil)
		expectNotify(itemRepo, userRepo, noteRepo)
		emailSvc.On("SendRentalDecisionNotification", ctx, "renter@campus.edu", "Cordless Drill", "Owner", false).Return(nil)

		res, err := svc.RejectRental(ctx, ownerID, rentalID)
		assert.NoError(t, err)
		assert.NotNil(t, res)
	})

	t.Run("Renter Cannot Decide", func(t *testing.T) {
		rentalRepo, _, _, _, _, svc := newRentalFixture()
		rentalRepo.On("GetByID", ctx, rentalID).Return(newRental(domain.RentalStatusPending), nil)

		res, err := svc.AcceptRental(ctx, renterID, rentalID)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Nil(t, res)
		rentalRepo.AssertNotCalled(t, "UpdateStatus")
	})

	t.Run("Already Rejected", func(t *testing.T) {
		rentalRepo, _, _, _, _, svc := newRentalFixture()
		rentalRepo.On("GetByID", ctx, rentalID).Return(newRental(domain.RentalStatusRejected), nil)
		rentalRepo.On("UpdateStatus", ctx, rentalID, negotiable, domain.RentalStatusAccepted, ownerID).
			Return(domain.ErrConflict)

		res, err := svc.AcceptRental(ctx, ownerID, rentalID)
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Nil(t, res)
	})
}

func TestRentalService_Handoff(t *testing.T) {
	ctx := context.Background()
	rentalID := int32(7)
	renterID := int32(1)
	ownerID := int32(10)

	newRental := func(status domain.RentalStatus) *domain.Rental {
		return &domain.Rental{
			ID: rentalID, ItemID: 2, OwnerID: ownerID, RenterID: renterID, Status: status,
		}
	}

	t.Run("Pickup", func(t *testing.T) {
		rentalRepo, itemRepo, userRepo, _, _, svc := newRentalFixture()
		rentalRepo.On("GetByID", ctx, rentalID).Return(newRental(domain.RentalStatusAccepted), nil)
		rentalRepo.On("UpdateStatus", ctx, rentalID,
			[]domain.RentalStatus{domain.RentalStatusAccepted}, domain.RentalStatusOngoing, renterID).Return(nil)
		itemRepo.On("GetByID", ctx, int32(2)).Return(&domain.Item{ID: 2}, nil)
		userRepo.On("GetByID", ctx, mock.AnythingOfType("int32")).Return(&domain.User{}, nil)

		res, err := svc.ConfirmPickup(ctx, renterID, rentalID)
		assert.NoError(t, err)
		assert.NotNil(t, res)
	})

	t.Run("Return Before Pickup", func(t *testing.T) {
		rentalRepo, _, _, _, _, svc := newRentalFixture()
		rentalRepo.On("GetByID", ctx, rentalID).Return(newRental(domain.RentalStatusAccepted), nil)
		rentalRepo.On("UpdateStatus", ctx, rentalID,
			[]domain.RentalStatus{domain.RentalStatusOngoing}, domain.RentalStatusCompleted, ownerID).
			Return(domain.ErrConflict)

		res, err := svc.ConfirmReturn(ctx, ownerID, rentalID)
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Nil(t, res)
	})

	t.Run("Third Party Cannot Confirm", func(t *testing.T) {
		rentalRepo, _, _, _, _, svc := newRentalFixture()
		rentalRepo.On("GetByID", ctx, rentalID).Return(newRental(domain.RentalStatusAccepted), nil)

		res, err := svc.ConfirmPickup(ctx, int32(99), rentalID)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Nil(t, res)
		rentalRepo.AssertNotCalled(t, "UpdateStatus")
	})
}

func TestRentalService_MarkReviewed(t *testing.T) {
	ctx := context.Background()
	rentalID := int32(7)
	renterID := int32(1)
	ownerID := int32(10)

	t.Run("Renter Reviews Completed Rental", func(t *testing.T) {
		rentalRepo, _, _, _, _, svc := newRentalFixture()
		rentalRepo.On("GetByID", ctx, rentalID).Return(&domain.Rental{
			ID: rentalID, OwnerID: ownerID, RenterID: renterID, Status: domain.RentalStatusCompleted,
		}, nil)
		rentalRepo.On("SetReviewed", ctx, rentalID, domain.PartyRenter).Return(nil)

		err := svc.MarkReviewed(ctx, renterID, rentalID)
		assert.NoError(t, err)
		rentalRepo.AssertExpectations(t)
	})

	t.Run("Not Completed", func(t *testing.T) {
		rentalRepo, _, _, _, _, svc := newRentalFixture()
		rentalRepo.On("GetByID", ctx, rentalID).Return(&domain.Rental{
			ID: rentalID, OwnerID: ownerID, RenterID: renterID, Status: domain.RentalStatusOngoing,
		}, nil)

		err := svc.MarkReviewed(ctx, ownerID, rentalID)
		assert.ErrorIs(t, err, domain.ErrConflict)
		rentalRepo.AssertNotCalled(t, "SetReviewed")
	})
}

func TestRentalService_Views(t *testing.T) {
	ctx := context.Background()
	renterID := int32(1)
	ownerID := int32(10)

	t.Run("Get Rental Third Party", func(t *testing.T) {
		rentalRepo, _, _, _, _, svc := newRentalFixture()
		rentalRepo.On("GetByID", ctx, int32(7)).Return(&domain.Rental{
			ID: 7, OwnerID: ownerID, RenterID: renterID,
		}, nil)

		res, err := svc.GetRental(ctx, int32(99), int32(7))
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Nil(t, res)
	})

	t.Run("Pending Excludes Decided", func(t *testing.T) {
		rentalRepo, _, _, _, _, svc := newRentalFixture()
		rentalRepo.On("ListByOwner", ctx, ownerID, negotiable).Return([]domain.Rental{}, nil)

		res, err := svc.ListPendingForOwner(ctx, ownerID)
		assert.NoError(t, err)
		assert.Empty(t, res)
		rentalRepo.AssertExpectations(t)
	})

	t.Run("Owner Overview Excludes Rejected", func(t *testing.T) {
		rentalRepo, _, _, _, _, svc := newRentalFixture()
		expected := []domain.RentalStatus{
			domain.RentalStatusPending,
			domain.RentalStatusModified,
			domain.RentalStatusAccepted,
			domain.RentalStatusOngoing,
			domain.RentalStatusCompleted,
		}
		rentalRepo.On("ListByOwner", ctx, ownerID, expected).Return([]domain.Rental{}, nil)

		_, err := svc.ListAllForOwner(ctx, ownerID)
		assert.NoError(t, err)
		rentalRepo.AssertExpectations(t)
	})

	t.Run("Renter Filter Passthrough", func(t *testing.T) {
		rentalRepo, _, _, _, _, svc := newRentalFixture()
		filter := []domain.RentalStatus{domain.RentalStatusOngoing}
		rentalRepo.On("ListByRenter", ctx, renterID, filter).Return([]domain.Rental{}, nil)

		_, err := svc.ListMyRentals(ctx, renterID, filter)
		assert.NoError(t, err)
		rentalRepo.AssertExpectations(t)
	})
}
