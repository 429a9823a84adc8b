package service

import (
	"context"
	"fmt"

	"campusrent-backend/internal/domain"
	"campusrent-backend/internal/logger"
	"campusrent-backend/internal/repository"
	"campusrent-backend/internal/utils"
)

// negotiable is the set of statuses from which terms can still change and
// the owner can still decide.
var negotiable = []domain.RentalStatus{domain.RentalStatusPending, domain.RentalStatusModified}

// ownerViewStatuses excludes rejected requests from the owner's overview.
var ownerViewStatuses = []domain.RentalStatus{
	domain.RentalStatusPending,
	domain.RentalStatusModified,
	domain.RentalStatusAccepted,
	domain.RentalStatusOngoing,
	domain.RentalStatusCompleted,
}

type rentalService struct {
	rentalRepo repository.RentalRepository
	itemRepo   repository.ItemRepository
	userRepo   repository.UserRepository
	noteRepo   repository.NotificationRepository
	emailSvc   EmailService
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
) RentalService {
	return &rentalService{
		rentalRepo: rentalRepo,
		itemRepo:   itemRepo,
		userRepo:   userRepo,
		noteRepo:   noteRepo,
		emailSvc:   emailSvc,
	}
}

func (s *rentalService) CreateRentalRequest(ctx context.Context, renterID int32, input *CreateRentalInput) (*domain.Rental, error) {
	item, err := s.itemRepo.GetByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID == renterID {
		return nil, fmt.Errorf("cannot rent your own item: %w", domain.ErrInvalidInput)
	}
	if input.RentalPeriod.StartDate == "" || input.RentalPeriod.EndDate == "" {
		return nil, fmt.Errorf("rental period is required: %w", domain.ErrInvalidInput)
	}
	if input.MeetingDetails.Date == "" || input.MeetingDetails.Time == "" || input.MeetingDetails.Location == "" {
		return nil, fmt.Errorf("meeting details are required: %w", domain.ErrInvalidInput)
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = domain.PaymentMethodCash
	}

	totalPrice, err := utils.CalculateTotalPriceCents(item.DailyPriceCents,
		input.RentalPeriod.StartDate, input.RentalPeriod.EndDate, item.DepositCents)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidInput)
	}

	rental := &domain.Rental{
		ItemID:          item.ID,
		OwnerID:         item.OwnerID,
		RenterID:        renterID,
		Status:          domain.RentalStatusPending,
		PaymentMethod:   input.PaymentMethod,
		RentalPeriod:    input.RentalPeriod,
		MeetingDetails:  input.MeetingDetails,
		TotalPriceCents: totalPrice,
		LastModifiedBy:  renterID,
		ChatHistory: []domain.NegotiationEntry{{
			Sender:         domain.PartyRenter,
			Type:           domain.NegotiationTypeRequest,
			RentalPeriod:   input.RentalPeriod,
			MeetingDetails: input.MeetingDetails,
			Message:        input.Message,
		}},
	}

	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		return nil, err
	}
	logger.Info("Rental request created", "rental_id", rental.ID, "item_id", item.ID, "renter_id", renterID)

	s.notify(ctx, rental.OwnerID, "New Rental Request", rental, func(owner, renter *domain.User) {
		_ = s.emailSvc.SendRentalRequestNotification(ctx, owner.Email, renter.Name, item.Title)
	})

	return s.GetRental(ctx, renterID, rental.ID)
}

func (s *rentalService) ModifyRental(ctx context.Context, actorID, rentalID int32, input *ModifyRentalInput) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	party := rt.PartyOf(actorID)
	if party == domain.PartyNone {
		return nil, fmt.Errorf("not a party to rental %d: %w", rentalID, domain.ErrUnauthorized)
	}

	// Merge the partial terms into the current record.
	if input.RentalPeriod != nil {
		rt.RentalPeriod = *input.RentalPeriod
	}
	if input.MeetingDetails != nil {
		rt.MeetingDetails = *input.MeetingDetails
	}

	// The price follows the item's current rate and deposit, not a snapshot
	// taken at creation. A late modify therefore reprices against the item's
	// current economics; that is the documented contract.
	if input.RentalPeriod != nil {
		item, err := s.itemRepo.GetByID(ctx, rt.ItemID)
		if err != nil {
			return nil, err
		}
		totalPrice, err := utils.CalculateTotalPriceCents(item.DailyPriceCents,
			rt.RentalPeriod.StartDate, rt.RentalPeriod.EndDate, item.DepositCents)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidInput)
		}
		rt.TotalPriceCents = totalPrice
	}

	rt.Status = domain.RentalStatusModified
	rt.LastModifiedBy = actorID

	entry := &domain.NegotiationEntry{
		Sender:         party,
		Type:           domain.NegotiationTypeModify,
		RentalPeriod:   rt.RentalPeriod,
		MeetingDetails: rt.MeetingDetails,
		Message:        input.Message,
	}

	if err := s.rentalRepo.UpdateTerms(ctx, rt, entry, negotiable); err != nil {
		return nil, err
	}
	logger.Info("Rental modified", "rental_id", rentalID, "by", actorID, "party", party)

	counterpart := rt.RenterID
	if party == domain.PartyRenter {
		counterpart = rt.OwnerID
	}
	s.notify(ctx, counterpart, "Rental Request Updated", rt, func(owner, renter *domain.User) {
		modifier := renter
		target := owner
		if party == domain.PartyOwner {
			modifier, target = owner, renter
		}
		title := s.itemTitle(ctx, rt.ItemID)
		_ = s.emailSvc.SendRentalModifiedNotification(ctx, target.Email, modifier.Name, title)
	})

	return s.GetRental(ctx, actorID, rentalID)
}

func (s *rentalService) AcceptRental(ctx context.Context, actorID, rentalID int32) (*domain.Rental, error) {
	return s.decide(ctx, actorID, rentalID, domain.RentalStatusAccepted)
}

func (s *rentalService) RejectRental(ctx context.Context, actorID, rentalID int32) (*domain.Rental, error) {
	return s.decide(ctx, actorID, rentalID, domain.RentalStatusRejected)
}

// decide executes the owner's accept/reject decision. No negotiation entry
// is appended: the status change itself is the record of the decision, and
// the log keeps only the terms that were negotiated.
func (s *rentalService) decide(ctx context.Context, actorID, rentalID int32, to domain.RentalStatus) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.PartyOf(actorID) != domain.PartyOwner {
		return nil, fmt.Errorf("only the owner may decide on rental %d: %w", rentalID, domain.ErrUnauthorized)
	}

	if err := s.rentalRepo.UpdateStatus(ctx, rentalID, negotiable, to, actorID); err != nil {
		return nil, err
	}
	rt.Status = to
	logger.Info("Rental decision recorded", "rental_id", rentalID, "status", to)

	s.notify(ctx, rt.RenterID, fmt.Sprintf("Rental %s", to), rt, func(owner, renter *domain.User) {
		title := s.itemTitle(ctx, rt.ItemID)
		_ = s.emailSvc.SendRentalDecisionNotification(ctx, renter.Email, title, owner.Name, to == domain.RentalStatusAccepted)
	})

	return s.GetRental(ctx, actorID, rentalID)
}

func (s *rentalService) ConfirmPickup(ctx context.Context, actorID, rentalID int32) (*domain.Rental, error) {
	return s.confirm(ctx, actorID, rentalID, domain.RentalStatusAccepted, domain.RentalStatusOngoing)
}

func (s *rentalService) ConfirmReturn(ctx context.Context, actorID, rentalID int32) (*domain.Rental, error) {
	return s.confirm(ctx, actorID, rentalID, domain.RentalStatusOngoing, domain.RentalStatusCompleted)
}

// confirm records the physical handoff milestones. Either party may confirm;
// the transition only applies from the expected prior status.
func (s *rentalService) confirm(ctx context.Context, actorID, rentalID int32, from, to domain.RentalStatus) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.PartyOf(actorID) == domain.PartyNone {
		return nil, fmt.Errorf("not a party to rental %d: %w", rentalID, domain.ErrUnauthorized)
	}

	if err := s.rentalRepo.UpdateStatus(ctx, rentalID, []domain.RentalStatus{from}, to, actorID); err != nil {
		return nil, err
	}
	logger.Info("Rental handoff confirmed", "rental_id", rentalID, "status", to, "by", actorID)

	return s.GetRental(ctx, actorID, rentalID)
}

func (s *rentalService) MarkReviewed(ctx context.Context, actorID, rentalID int32) error {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return err
	}
	party := rt.PartyOf(actorID)
	if party == domain.PartyNone {
		return fmt.Errorf("not a party to rental %d: %w", rentalID, domain.ErrUnauthorized)
	}
	if rt.Status != domain.RentalStatusCompleted {
		return fmt.Errorf("rental %d is not completed: %w", rentalID, domain.ErrConflict)
	}
	return s.rentalRepo.SetReviewed(ctx, rentalID, party)
}

func (s *rentalService) GetRental(ctx context.Context, userID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.PartyOf(userID) == domain.PartyNone {
		return nil, fmt.Errorf("not a party to rental %d: %w", rentalID, domain.ErrUnauthorized)
	}
	s.populate(ctx, rt)
	return rt, nil
}

func (s *rentalService) ListPendingForOwner(ctx context.Context, ownerID int32) ([]domain.Rental, error) {
	rentals, err := s.rentalRepo.ListByOwner(ctx, ownerID, negotiable)
	if err != nil {
		return nil, err
	}
	s.populateAll(ctx, rentals)
	return rentals, nil
}

func (s *rentalService) ListAllForOwner(ctx context.Context, ownerID int32) ([]domain.Rental, error) {
	rentals, err := s.rentalRepo.ListByOwner(ctx, ownerID, ownerViewStatuses)
	if err != nil {
		return nil, err
	}
	s.populateAll(ctx, rentals)
	return rentals, nil
}

func (s *rentalService) ListMyRentals(ctx context.Context, renterID int32, statuses []domain.RentalStatus) ([]domain.Rental, error) {
	rentals, err := s.rentalRepo.ListByRenter(ctx, renterID, statuses)
	if err != nil {
		return nil, err
	}
	s.populateAll(ctx, rentals)
	return rentals, nil
}

// populate attaches the item and both parties to a record for presentation.
// Lookup failures leave the reference nil rather than failing the read.
func (s *rentalService) populate(ctx context.Context, rt *domain.Rental) {
	if item, err := s.itemRepo.GetByID(ctx, rt.ItemID); err == nil {
		rt.Item = item
	}
	if owner, err := s.userRepo.GetByID(ctx, rt.OwnerID); err == nil {
		owner.PasswordHash = ""
		rt.Owner = owner
	}
	if renter, err := s.userRepo.GetByID(ctx, rt.RenterID); err == nil {
		renter.PasswordHash = ""
		rt.Renter = renter
	}
}

func (s *rentalService) populateAll(ctx context.Context, rentals []domain.Rental) {
	for i := range rentals {
		s.populate(ctx, &rentals[i])
	}
}

func (s *rentalService) itemTitle(ctx context.Context, itemID int32) string {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return ""
	}
	return item.Title
}

// notify creates an in-app notification for userID and runs the email hook
// with both parties loaded. Notification failures are logged, never
// propagated: the transition already committed.
func (s *rentalService) notify(ctx context.Context, userID int32, title string, rt *domain.Rental, email func(owner, renter *domain.User)) {
	owner, err1 := s.userRepo.GetByID(ctx, rt.OwnerID)
	renter, err2 := s.userRepo.GetByID(ctx, rt.RenterID)
	if err1 == nil && err2 == nil {
		email(owner, renter)
	}

	note := &domain.Notification{
		UserID:  userID,
		Title:   title,
		Message: fmt.Sprintf("Rental request #%d is now %s", rt.ID, rt.Status),
		Attributes: map[string]string{
			"type":      "RENTAL",
			"rental_id": fmt.Sprintf("%d", rt.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Failed to create notification", "user_id", userID, "rental_id", rt.ID, "error", err)
	}
}
