package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/LJablon/EduRent/internal/model"
)

type ContactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, c *model.ContactRequest) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO contact_requests (id, listing_id, sender_id, owner_id, message, start_date, end_date, created_at)
		VALUES (:id, :listing_id, :sender_id, :owner_id, :message, :start_date, :end_date, :created_at)
	`, c)
	if err != nil {
		return fmt.Errorf("ContactRepository.Create: %w", classify(err))
	}
	return nil
}
