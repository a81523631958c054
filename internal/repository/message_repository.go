package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sauti-jamii/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	// MarkDelivered sets delivered_at only if it is still null, reporting
	// whether this call performed the transition.
	MarkDelivered(ctx context.Context, id uuid.UUID) (bool, error)
	// MarkRead sets is_read/read_at only if read_at is still null.
	MarkRead(ctx context.Context, id uuid.UUID) (bool, error)
	ListConversation(ctx context.Context, userID, peerID uuid.UUID, params domain.PaginationParams) ([]domain.Message, int64, error)
	ListInbox(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Message, int64, error)
}

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, sender_id, recipient_id, body, topic, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING sent_at`

	return r.db.QueryRowxContext(ctx, query,
		msg.ID, msg.SenderID, msg.RecipientID, msg.Body, msg.Topic, msg.Category,
	).Scan(&msg.SentAt)
}

func (r *messageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	var msg domain.Message
	query := `SELECT * FROM messages WHERE id = $1`
	if err := r.db.GetContext(ctx, &msg, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) MarkDelivered(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE messages SET delivered_at = NOW() WHERE id = $1 AND delivered_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (r *messageRepository) MarkRead(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE messages SET is_read = true, read_at = NOW() WHERE id = $1 AND read_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (r *messageRepository) ListConversation(ctx context.Context, userID, peerID uuid.UUID, params domain.PaginationParams) ([]domain.Message, int64, error) {
	params.Validate()

	var total int64
	countQuery := `
		SELECT COUNT(*) FROM messages
		WHERE (sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1)`
	if err := r.db.GetContext(ctx, &total, countQuery, userID, peerID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM messages
		WHERE (sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1)
		ORDER BY sent_at DESC
		LIMIT $3 OFFSET $4`

	var messages []domain.Message
	err := r.db.SelectContext(ctx, &messages, query, userID, peerID, params.PageSize, params.Offset())
	return messages, total, err
}

func (r *messageRepository) ListInbox(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Message, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM messages WHERE recipient_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM messages
		WHERE recipient_id = $1
		ORDER BY sent_at DESC
		LIMIT $2 OFFSET $3`

	var messages []domain.Message
	err := r.db.SelectContext(ctx, &messages, query, userID, params.PageSize, params.Offset())
	return messages, total, err
}
