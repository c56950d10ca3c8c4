package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/LJablon/EduRent/internal/model"
)

const reservationColumns = `id, listing_id, user_id, start_date, end_date, total_price, created_at`

type ReservationRepository struct {
	db *sqlx.DB
}

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, rv *model.Reservation) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO reservations (id, listing_id, user_id, start_date, end_date, total_price, created_at)
		VALUES (:id, :listing_id, :user_id, :start_date, :end_date, :total_price, :created_at)
	`, rv)
	if err != nil {
		return fmt.Errorf("ReservationRepository.Create: %w", classify(err))
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	var rv model.Reservation
	err := r.db.GetContext(ctx, &rv, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("ReservationRepository.GetByID: %w", err)
	}
	return &rv, nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ReservationRepository.Delete: %w", err)
	}
	return expectRow(res, "ReservationRepository.Delete")
}

// FindByListing returns a listing's reservations ordered by start date.
func (r *ReservationRepository) FindByListing(ctx context.Context, listingID string) ([]model.Reservation, error) {
	const q = `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE listing_id = $1
		ORDER BY start_date
	`
	var list []model.Reservation
	if err := r.db.SelectContext(ctx, &list, q, listingID); err != nil {
		return nil, fmt.Errorf("ReservationRepository.FindByListing: %w", err)
	}
	return list, nil
}

// Find returns reservations by guest, listing or listing owner, newest first.
func (r *ReservationRepository) Find(ctx context.Context, f model.ReservationFilter) ([]model.Reservation, error) {
	query := `
		SELECT rv.id, rv.listing_id, rv.user_id, rv.start_date, rv.end_date, rv.total_price, rv.created_at
		FROM reservations rv
		JOIN listings l ON l.id = rv.listing_id
		WHERE 1 = 1`
	args := []interface{}{}
	idx := 1

	if f.UserID != "" {
		query += fmt.Sprintf(" AND rv.user_id = $%d", idx)
		args = append(args, f.UserID)
		idx++
	}
	if f.ListingID != "" {
		query += fmt.Sprintf(" AND rv.listing_id = $%d", idx)
		args = append(args, f.ListingID)
		idx++
	}
	if f.OwnerID != "" {
		query += fmt.Sprintf(" AND l.user_id = $%d", idx)
		args = append(args, f.OwnerID)
	}
	query += " ORDER BY rv.created_at DESC"

	var list []model.Reservation
	if err := r.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, fmt.Errorf("ReservationRepository.Find: %w", err)
	}
	return list, nil
}
