package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"campus-notify/internal/domain"
)

// UserRepository reads the platform's recipient directory. This service
// never writes to it.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	query := `SELECT id, full_name, email, country_code, whatsapp_number FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		return nil, err
	}
	return &u, nil
}
