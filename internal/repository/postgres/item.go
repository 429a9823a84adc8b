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

type itemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, it *domain.Item) error {
	query := `INSERT INTO items (owner_id, title, description, category, daily_price_cents, deposit_cents, photos, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	return r.db.QueryRowContext(ctx, query, it.OwnerID, it.Title, it.Description, it.Category, it.DailyPriceCents, it.DepositCents, pq.Array(it.Photos), it.Status, time.Now(), time.Now()).Scan(&it.ID)
}

func (r *itemRepository) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	it := &domain.Item{}
	query := `SELECT id, owner_id, title, description, category, daily_price_cents, deposit_cents, photos, status, created_on, updated_on
	          FROM items WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&it.ID, &it.OwnerID, &it.Title, &it.Description, &it.Category, &it.DailyPriceCents, &it.DepositCents, pq.Array(&it.Photos), &it.Status, &it.CreatedOn, &it.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *itemRepository) Update(ctx context.Context, it *domain.Item) error {
	query := `UPDATE items SET title=$1, description=$2, category=$3, daily_price_cents=$4, deposit_cents=$5, photos=$6, status=$7, updated_on=$8 WHERE id=$9`
	res, err := r.db.ExecContext(ctx, query, it.Title, it.Description, it.Category, it.DailyPriceCents, it.DepositCents, pq.Array(it.Photos), it.Status, time.Now(), it.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("item %d: %w", it.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *itemRepository) List(ctx context.Context, category string, page, pageSize int32) ([]domain.Item, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, owner_id, title, description, category, daily_price_cents, deposit_cents, photos, status, created_on, updated_on
	          FROM items WHERE status = 'listed'`

	args := []interface{}{}
	argIdx := 1
	if category != "" {
		query += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, category)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.OwnerID, &it.Title, &it.Description, &it.Category, &it.DailyPriceCents, &it.DepositCents, pq.Array(&it.Photos), &it.Status, &it.CreatedOn, &it.UpdatedOn); err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, count, rows.Err()
}

func (r *itemRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Item, error) {
	query := `SELECT id, owner_id, title, description, category, daily_price_cents, deposit_cents, photos, status, created_on, updated_on
	          FROM items WHERE owner_id = $1 ORDER BY created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.OwnerID, &it.Title, &it.Description, &it.Category, &it.DailyPriceCents, &it.DepositCents, pq.Array(&it.Photos), &it.Status, &it.CreatedOn, &it.UpdatedOn); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
