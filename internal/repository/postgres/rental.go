package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"campusrent-backend/internal/domain"
	"campusrent-backend/internal/repository"

	"github.com/lib/pq"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, item_id, owner_id, renter_id, status, payment_method,
	start_date, end_date, meeting_date, meeting_time, meeting_location, meeting_notes,
	total_price_cents, last_modified_by, owner_reviewed, renter_reviewed, created_on, updated_on`

func scanRental(row interface{ Scan(...interface{}) error }) (*domain.Rental, error) {
	rt := &domain.Rental{}
	err := row.Scan(&rt.ID, &rt.ItemID, &rt.OwnerID, &rt.RenterID, &rt.Status, &rt.PaymentMethod,
		&rt.RentalPeriod.StartDate, &rt.RentalPeriod.EndDate,
		&rt.MeetingDetails.Date, &rt.MeetingDetails.Time, &rt.MeetingDetails.Location, &rt.MeetingDetails.Notes,
		&rt.TotalPriceCents, &rt.LastModifiedBy, &rt.OwnerReviewed, &rt.RenterReviewed, &rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO rentals (item_id, owner_id, renter_id, status, payment_method,
	            start_date, end_date, meeting_date, meeting_time, meeting_location, meeting_notes,
	            total_price_cents, last_modified_by, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id, created_on`
	now := time.Now()
	err = tx.QueryRowContext(ctx, query, rt.ItemID, rt.OwnerID, rt.RenterID, rt.Status, rt.PaymentMethod,
		rt.RentalPeriod.StartDate, rt.RentalPeriod.EndDate,
		rt.MeetingDetails.Date, rt.MeetingDetails.Time, rt.MeetingDetails.Location, rt.MeetingDetails.Notes,
		rt.TotalPriceCents, rt.LastModifiedBy, now, now).Scan(&rt.ID, &rt.CreatedOn)
	if err != nil {
		return err
	}

	for i := range rt.ChatHistory {
		entry := &rt.ChatHistory[i]
		entry.SeqNo = int32(i + 1)
		if err := insertEntry(ctx, tx, rt.ID, entry); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// insertEntry appends one negotiation entry. The log is append-only: no
// UPDATE or DELETE statement exists for negotiation_entries anywhere.
func insertEntry(ctx context.Context, tx *sql.Tx, rentalID int32, e *domain.NegotiationEntry) error {
	query := `INSERT INTO negotiation_entries (rental_id, seq_no, sender, type,
	            start_date, end_date, meeting_date, meeting_time, meeting_location, meeting_notes,
	            message, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	_, err := tx.ExecContext(ctx, query, rentalID, e.SeqNo, e.Sender, e.Type,
		e.RentalPeriod.StartDate, e.RentalPeriod.EndDate,
		e.MeetingDetails.Date, e.MeetingDetails.Time, e.MeetingDetails.Location, e.MeetingDetails.Notes,
		e.Message, e.Timestamp)
	return err
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rental %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	entries, err := r.listEntries(ctx, id)
	if err != nil {
		return nil, err
	}
	rt.ChatHistory = entries
	return rt, nil
}

func (r *rentalRepository) listEntries(ctx context.Context, rentalID int32) ([]domain.NegotiationEntry, error) {
	query := `SELECT seq_no, sender, type, start_date, end_date, meeting_date, meeting_time,
	            meeting_location, meeting_notes, message, created_on
	          FROM negotiation_entries WHERE rental_id = $1 ORDER BY seq_no`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.NegotiationEntry
	for rows.Next() {
		var e domain.NegotiationEntry
		if err := rows.Scan(&e.SeqNo, &e.Sender, &e.Type,
			&e.RentalPeriod.StartDate, &e.RentalPeriod.EndDate,
			&e.MeetingDetails.Date, &e.MeetingDetails.Time, &e.MeetingDetails.Location, &e.MeetingDetails.Notes,
			&e.Message, &e.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func statusList(statuses []domain.RentalStatus) pq.StringArray {
	out := make(pq.StringArray, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// UpdateTerms applies a negotiated terms change and its log entry as one
// transaction. The row is locked and the prior-status precondition checked
// under the lock, so a racing accept or a second modify cannot interleave:
// either the whole update (terms + price + status + entry) commits or none
// of it does.
func (r *rentalRepository) UpdateTerms(ctx context.Context, rt *domain.Rental, entry *domain.NegotiationEntry, from []domain.RentalStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var current string
	var seq int32
	lock := `SELECT r.status, (SELECT count(*) FROM negotiation_entries e WHERE e.rental_id = r.id)
	         FROM rentals r WHERE r.id = $1 FOR UPDATE OF r`
	err = tx.QueryRowContext(ctx, lock, rt.ID).Scan(&current, &seq)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("rental %d: %w", rt.ID, domain.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if !statusAllowed(domain.RentalStatus(current), from) {
		return fmt.Errorf("rental %d is %s: %w", rt.ID, current, domain.ErrConflict)
	}

	query := `UPDATE rentals SET status=$1, start_date=$2, end_date=$3,
	            meeting_date=$4, meeting_time=$5, meeting_location=$6, meeting_notes=$7,
	            total_price_cents=$8, last_modified_by=$9, updated_on=$10
	          WHERE id=$11`
	_, err = tx.ExecContext(ctx, query, rt.Status,
		rt.RentalPeriod.StartDate, rt.RentalPeriod.EndDate,
		rt.MeetingDetails.Date, rt.MeetingDetails.Time, rt.MeetingDetails.Location, rt.MeetingDetails.Notes,
		rt.TotalPriceCents, rt.LastModifiedBy, time.Now(), rt.ID)
	if err != nil {
		return err
	}

	entry.SeqNo = seq + 1
	if err := insertEntry(ctx, tx, rt.ID, entry); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateStatus performs the transition as one conditional update: the write
// applies only if the current status still satisfies the precondition.
func (r *rentalRepository) UpdateStatus(ctx context.Context, id int32, from []domain.RentalStatus, to domain.RentalStatus, actorID int32) error {
	query := `UPDATE rentals SET status=$1, last_modified_by=$2, updated_on=$3
	          WHERE id=$4 AND status = ANY($5)`
	res, err := r.db.ExecContext(ctx, query, to, actorID, time.Now(), id, statusList(from))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("rental %d not in %v: %w", id, from, domain.ErrConflict)
	}
	return nil
}

func (r *rentalRepository) SetReviewed(ctx context.Context, id int32, party domain.Party) error {
	column := "owner_reviewed"
	if party == domain.PartyRenter {
		column = "renter_reviewed"
	}
	query := fmt.Sprintf(`UPDATE rentals SET %s=true, updated_on=$1 WHERE id=$2`, column)
	res, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("rental %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *rentalRepository) ListByOwner(ctx context.Context, ownerID int32, statuses []domain.RentalStatus) ([]domain.Rental, error) {
	return r.list(ctx, "owner_id", ownerID, statuses)
}

func (r *rentalRepository) ListByRenter(ctx context.Context, renterID int32, statuses []domain.RentalStatus) ([]domain.Rental, error) {
	return r.list(ctx, "renter_id", renterID, statuses)
}

func (r *rentalRepository) list(ctx context.Context, column string, userID int32, statuses []domain.RentalStatus) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE ` + column + ` = $1`
	args := []interface{}{userID}
	if len(statuses) > 0 {
		query += " AND status = ANY($2)"
		args = append(args, statusList(statuses))
	}
	query += " ORDER BY created_on DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The chat history travels with its record.
	for i := range rentals {
		entries, err := r.listEntries(ctx, rentals[i].ID)
		if err != nil {
			return nil, err
		}
		rentals[i].ChatHistory = entries
	}
	return rentals, nil
}

func (r *rentalRepository) ListOngoingPastEndDate(ctx context.Context, date string) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE status = 'ongoing' AND end_date < $1`
	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

func statusAllowed(current domain.RentalStatus, from []domain.RentalStatus) bool {
	for _, s := range from {
		if s == current {
			return true
		}
	}
	return false
}
