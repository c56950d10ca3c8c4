package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/LJablon/EduRent/internal/model"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	const q = `SELECT id, name, email, image, created_at FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &u, q, id); err != nil {
		return nil, fmt.Errorf("UserRepository.GetByID: %w", err)
	}
	return &u, nil
}
