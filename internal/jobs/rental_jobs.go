package jobs

import (
	"context"
	"fmt"
	"time"

	"campusrent-backend/internal/domain"
	"campusrent-backend/internal/logger"
)

// SendReturnReminders emails the renter and the owner of every ongoing rental
// whose agreed end date has passed without a confirmed return.
func (jr *JobRunner) SendReturnReminders() {
	jr.runWithRecovery("SendReturnReminders", func() {
		ctx := context.Background()
		today := time.Now().UTC().Format("2006-01-02")

		rentals, err := jr.store.RentalRepository.ListOngoingPastEndDate(ctx, today)
		if err != nil {
			logger.Error("Failed to list overdue rentals", "error", err)
			return
		}

		count := 0
		for i := range rentals {
			rental := &rentals[i]
			if err := jr.remindParties(ctx, rental); err != nil {
				logger.Error("Failed to send return reminder",
					"rental_id", rental.ID, "error", err)
				continue
			}
			count++
		}

		logger.Info("Sent return reminders", "count", count, "overdue", len(rentals))
	})
}

func (jr *JobRunner) remindParties(ctx context.Context, rental *domain.Rental) error {
	item, err := jr.store.ItemRepository.GetByID(ctx, rental.ItemID)
	if err != nil {
		return err
	}

	for _, partyID := range []int32{rental.RenterID, rental.OwnerID} {
		user, err := jr.store.UserRepository.GetByID(ctx, partyID)
		if err != nil {
			logger.Error("Failed to load rental party",
				"rental_id", rental.ID, "user_id", partyID, "error", err)
			continue
		}

		if err := jr.services.Email.SendReturnReminderNotification(ctx, user.Email, item.Title, rental.RentalPeriod.EndDate); err != nil {
			logger.Error("Failed to email return reminder",
				"rental_id", rental.ID, "user_id", partyID, "error", err)
			continue
		}

		note := &domain.Notification{
			UserID:  partyID,
			Title:   "Return Reminder",
			Message: fmt.Sprintf("Return overdue for %s (due %s)", item.Title, rental.RentalPeriod.EndDate),
			Attributes: map[string]string{
				"type":      "RENTAL",
				"rental_id": fmt.Sprintf("%d", rental.ID),
				"item_id":   fmt.Sprintf("%d", rental.ItemID),
				"end_date":  rental.RentalPeriod.EndDate,
			},
		}
		if err := jr.store.NotificationRepository.Create(ctx, note); err != nil {
			logger.Error("Failed to create reminder notification",
				"rental_id", rental.ID, "user_id", partyID, "error", err)
		}
	}
	return nil
}
