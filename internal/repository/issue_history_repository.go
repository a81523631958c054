package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sauti-jamii/internal/domain"
)

// IssueHistoryRepository is append-only: transitions are recorded once and
// never mutated or deleted.
type IssueHistoryRepository interface {
	Create(ctx context.Context, entry *domain.IssueStatusHistory) error
	ListByIssue(ctx context.Context, issueID uuid.UUID) ([]domain.IssueStatusHistory, error)
}

type issueHistoryRepository struct {
	db *sqlx.DB
}

func NewIssueHistoryRepository(db *sqlx.DB) IssueHistoryRepository {
	return &issueHistoryRepository{db: db}
}

func (r *issueHistoryRepository) Create(ctx context.Context, entry *domain.IssueStatusHistory) error {
	query := `
		INSERT INTO issue_status_history (id, issue_id, status, actor_id, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		entry.ID, entry.IssueID, entry.Status, entry.ActorID, entry.Note,
	).Scan(&entry.CreatedAt)
}

func (r *issueHistoryRepository) ListByIssue(ctx context.Context, issueID uuid.UUID) ([]domain.IssueStatusHistory, error) {
	query := `
		SELECT
			h.*,
			u.full_name as actor_name
		FROM issue_status_history h
		LEFT JOIN users u ON h.actor_id = u.id
		WHERE h.issue_id = $1
		ORDER BY h.created_at ASC`

	entries := []domain.IssueStatusHistory{}
	err := r.db.SelectContext(ctx, &entries, query, issueID)
	return entries, err
}
