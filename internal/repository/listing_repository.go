package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/LJablon/EduRent/internal/model"
)

const listingColumns = `id, user_id, title, description, image_src, photo_file_id, category,
	room_count, bathroom_count, guest_count, location_value, lat, lng,
	lease_start_date, lease_end_date, price, status, created_at, updated_at`

type ListingRepository struct {
	DB *sqlx.DB
}

func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{DB: db}
}

func (r *ListingRepository) Create(ctx context.Context, l *model.Listing) error {
	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO listings
			(id, user_id, title, description, image_src, photo_file_id, category,
			 room_count, bathroom_count, guest_count, location_value, lat, lng,
			 lease_start_date, lease_end_date, price, status, created_at, updated_at)
		VALUES
			(:id, :user_id, :title, :description, :image_src, :photo_file_id, :category,
			 :room_count, :bathroom_count, :guest_count, :location_value, :lat, :lng,
			 :lease_start_date, :lease_end_date, :price, :status, :created_at, :updated_at)
	`, l)
	if err != nil {
		return fmt.Errorf("ListingRepository.Create: %w", classify(err))
	}
	return nil
}

// GetByID returns sql.ErrNoRows (wrapped) when the listing does not exist.
func (r *ListingRepository) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	var l model.Listing
	err := r.DB.GetContext(ctx, &l, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("ListingRepository.GetByID: %w", err)
	}
	return &l, nil
}

// GetPending lists listings waiting for moderation, newest first.
func (r *ListingRepository) GetPending(ctx context.Context, limit, offset int) ([]model.Listing, error) {
	var list []model.Listing
	err := r.DB.SelectContext(ctx, &list, `
		SELECT `+listingColumns+` FROM listings
		WHERE status = 'pending'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListingRepository.GetPending: %w", err)
	}
	return list, nil
}

func (r *ListingRepository) Approve(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, model.ListingApproved)
}

func (r *ListingRepository) Reject(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, model.ListingRejected)
}

func (r *ListingRepository) setStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE listings SET status = $1, updated_at = now() WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("ListingRepository.setStatus: %w", err)
	}
	return expectRow(res, "ListingRepository.setStatus")
}

func (r *ListingRepository) Update(ctx context.Context, l *model.Listing) error {
	res, err := r.DB.NamedExecContext(ctx, `
		UPDATE listings SET
			title            = :title,
			description      = :description,
			image_src        = :image_src,
			category         = :category,
			room_count       = :room_count,
			bathroom_count   = :bathroom_count,
			guest_count      = :guest_count,
			location_value   = :location_value,
			lat              = :lat,
			lng              = :lng,
			lease_start_date = :lease_start_date,
			lease_end_date   = :lease_end_date,
			price            = :price,
			status           = :status,
			updated_at       = :updated_at
		WHERE id = :id
	`, l)
	if err != nil {
		return fmt.Errorf("ListingRepository.Update: %w", err)
	}
	return expectRow(res, "ListingRepository.Update")
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ListingRepository.Delete: %w", err)
	}
	return expectRow(res, "ListingRepository.Delete")
}

// GetFiltered returns listings matching f, newest first. Only approved
// listings are returned unless f.IncludeUnapproved is set. When both
// StartDate and EndDate are set, listings with a reservation touching that
// window are left out.
func (r *ListingRepository) GetFiltered(ctx context.Context, f model.ListingFilter) ([]model.Listing, error) {
	query := "SELECT " + listingColumns + " FROM listings WHERE 1 = 1"
	args := []interface{}{}
	idx := 1

	if !f.IncludeUnapproved {
		query += " AND status = 'approved'"
	}
	if f.UserID != "" {
		query += fmt.Sprintf(" AND user_id = $%d", idx)
		args = append(args, f.UserID)
		idx++
	}
	if f.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", idx)
		args = append(args, f.Category)
		idx++
	}
	if f.LocationValue != "" {
		query += fmt.Sprintf(" AND location_value = $%d", idx)
		args = append(args, f.LocationValue)
		idx++
	}
	if f.RoomCount > 0 {
		query += fmt.Sprintf(" AND room_count >= $%d", idx)
		args = append(args, f.RoomCount)
		idx++
	}
	if f.GuestCount > 0 {
		query += fmt.Sprintf(" AND guest_count >= $%d", idx)
		args = append(args, f.GuestCount)
		idx++
	}
	if f.BathroomCount > 0 {
		query += fmt.Sprintf(" AND bathroom_count >= $%d", idx)
		args = append(args, f.BathroomCount)
		idx++
	}
	if f.MinPrice > 0 {
		query += fmt.Sprintf(" AND price >= $%d", idx)
		args = append(args, f.MinPrice)
		idx++
	}
	if f.MaxPrice > 0 {
		query += fmt.Sprintf(" AND price <= $%d", idx)
		args = append(args, f.MaxPrice)
		idx++
	}
	if f.StartDate != nil && f.EndDate != nil {
		query += fmt.Sprintf(` AND NOT EXISTS (
			SELECT 1 FROM reservations rv
			WHERE rv.listing_id = listings.id AND rv.start_date <= $%d AND rv.end_date >= $%d)`, idx, idx+1)
		args = append(args, *f.EndDate, *f.StartDate)
		idx += 2
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, f.Limit, f.Offset)

	var listings []model.Listing
	if err := r.DB.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, fmt.Errorf("ListingRepository.GetFiltered: %w", err)
	}
	return listings, nil
}

func (r *ListingRepository) UpdatePhotoFileID(ctx context.Context, listingID string, fileID string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE listings SET photo_file_id = $1, image_src = $2, updated_at = now() WHERE id = $3
	`, fileID, PhotoURL(listingID), listingID)
	if err != nil {
		return fmt.Errorf("ListingRepository.UpdatePhotoFileID: %w", err)
	}
	return expectRow(res, "ListingRepository.UpdatePhotoFileID")
}

// PhotoURL is where the API serves a listing's uploaded photo.
func PhotoURL(listingID string) string {
	return fmt.Sprintf("/api/listings/%s/photo", listingID)
}

// expectRow turns a zero-row write into sql.ErrNoRows.
func expectRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, sql.ErrNoRows)
	}
	return nil
}
