package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sauti-jamii/internal/domain"
)

type PushRepository interface {
	// Upsert inserts the registration or, when the (user, endpoint) pair
	// already exists, replaces its key material.
	Upsert(ctx context.Context, reg *domain.PushRegistration) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PushRegistration, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByEndpoint(ctx context.Context, userID uuid.UUID, endpoint string) error
}

type pushRepository struct {
	db *sqlx.DB
}

func NewPushRepository(db *sqlx.DB) PushRepository {
	return &pushRepository{db: db}
}

func (r *pushRepository) Upsert(ctx context.Context, reg *domain.PushRegistration) error {
	query := `
		INSERT INTO push_registrations (id, user_id, endpoint, p256dh, auth, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, endpoint) DO UPDATE
		SET p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth, updated_at = NOW()
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		reg.ID, reg.UserID, reg.Endpoint, reg.P256dh, reg.Auth, reg.UserAgent,
	).Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)
}

func (r *pushRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PushRegistration, error) {
	query := `SELECT * FROM push_registrations WHERE user_id = $1 ORDER BY created_at ASC`

	regs := []domain.PushRegistration{}
	err := r.db.SelectContext(ctx, &regs, query, userID)
	return regs, err
}

func (r *pushRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM push_registrations WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *pushRepository) DeleteByEndpoint(ctx context.Context, userID uuid.UUID, endpoint string) error {
	query := `DELETE FROM push_registrations WHERE user_id = $1 AND endpoint = $2`
	_, err := r.db.ExecContext(ctx, query, userID, endpoint)
	return err
}
