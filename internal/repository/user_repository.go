package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"sauti-jamii/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	FindRepresentatives(ctx context.Context, county string, specializations []string) ([]domain.User, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE id = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE email = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindRepresentatives returns verified, approved representatives in the county
// whose specialization set overlaps the given tags. An empty tag list matches
// every representative in the county. Ordered by name for determinism.
func (r *userRepository) FindRepresentatives(ctx context.Context, county string, specializations []string) ([]domain.User, error) {
	query := `
		SELECT * FROM users
		WHERE role = 'representative'
		  AND is_verified = true
		  AND is_approved = true
		  AND is_active = true
		  AND deleted_at IS NULL
		  AND county = $1
		  AND (cardinality($2::text[]) = 0 OR specializations && $2)
		ORDER BY full_name ASC`

	reps := []domain.User{}
	err := r.db.SelectContext(ctx, &reps, query, county, pq.Array(specializations))
	return reps, err
}
