package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sauti-jamii/internal/domain"
)

type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Issue, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.IssueStatus) error
	UpdateAssignment(ctx context.Context, id uuid.UUID, assigneeID uuid.UUID, status domain.IssueStatus) error
	List(ctx context.Context, filter domain.IssueFilter, params domain.PaginationParams) ([]domain.Issue, int64, error)
}

type issueRepository struct {
	db *sqlx.DB
}

func NewIssueRepository(db *sqlx.DB) IssueRepository {
	return &issueRepository{db: db}
}

func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	query := `
		INSERT INTO issues (id, title, description, category, status, priority, reporter_id, location, county, ward)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		issue.ID, issue.Title, issue.Description, issue.Category, issue.Status,
		issue.Priority, issue.ReporterID, issue.Location, issue.County, issue.Ward,
	).Scan(&issue.CreatedAt, &issue.UpdatedAt)
}

func (r *issueRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Issue, error) {
	var issue domain.Issue
	query := `SELECT * FROM issues WHERE id = $1`
	if err := r.db.GetContext(ctx, &issue, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &issue, nil
}

func (r *issueRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.IssueStatus) error {
	query := `UPDATE issues SET status = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *issueRepository) UpdateAssignment(ctx context.Context, id uuid.UUID, assigneeID uuid.UUID, status domain.IssueStatus) error {
	query := `UPDATE issues SET assignee_id = $2, status = $3, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, assigneeID, status)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *issueRepository) List(ctx context.Context, filter domain.IssueFilter, params domain.PaginationParams) ([]domain.Issue, int64, error) {
	params.Validate()

	where := `WHERE ($1::uuid IS NULL OR reporter_id = $1)
		AND ($2::uuid IS NULL OR assignee_id = $2)
		AND ($3::text IS NULL OR county = $3)
		AND ($4::text IS NULL OR status = $4)`

	var total int64
	countQuery := `SELECT COUNT(*) FROM issues ` + where
	if err := r.db.GetContext(ctx, &total, countQuery,
		filter.ReporterID, filter.AssigneeID, filter.County, filter.Status); err != nil {
		return nil, 0, err
	}

	query := `SELECT * FROM issues ` + where + `
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6`

	var issues []domain.Issue
	err := r.db.SelectContext(ctx, &issues, query,
		filter.ReporterID, filter.AssigneeID, filter.County, filter.Status,
		params.PageSize, params.Offset())
	return issues, total, err
}
