package postgres

import (
	"context"
	"time"

	"event-staffing-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type messageRow struct {
	ID            string    `db:"id"`
	SenderID      string    `db:"sender_id"`
	RecipientID   string    `db:"recipient_id"`
	Subject       *string   `db:"subject"`
	Content       string    `db:"content"`
	JobID         *string   `db:"job_id"`
	IsRead        bool      `db:"is_read"`
	CreatedAt     time.Time `db:"created_at"`
	SenderName    *string   `db:"sender_name"`
	RecipientName *string   `db:"recipient_name"`
}

const messageSelect = `
	SELECT m.id, m.sender_id, m.recipient_id, m.subject, m.content, m.job_id, m.is_read, m.created_at,
		s.full_name AS sender_name, rcp.full_name AS recipient_name
	FROM messages m
	LEFT JOIN profiles s ON s.id = m.sender_id
	LEFT JOIN profiles rcp ON rcp.id = m.recipient_id`

func messageToDomain(r messageRow) domain.Message {
	return domain.Message{
		ID:            r.ID,
		SenderID:      r.SenderID,
		RecipientID:   r.RecipientID,
		Subject:       r.Subject,
		Content:       r.Content,
		JobID:         r.JobID,
		IsRead:        r.IsRead,
		CreatedAt:     r.CreatedAt,
		SenderName:    r.SenderName,
		RecipientName: r.RecipientName,
	}
}

type messageRepo struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) domain.MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) Create(ctx context.Context, m *domain.Message) error {
	query := `INSERT INTO messages (sender_id, recipient_id, subject, content, job_id, is_read)
              VALUES ($1, $2, $3, $4, $5, false)
              RETURNING id, is_read, created_at`
	err := r.db.QueryRow(ctx, query, m.SenderID, m.RecipientID, m.Subject, m.Content, m.JobID).
		Scan(&m.ID, &m.IsRead, &m.CreatedAt)
	return wrapErr("messages.insert", err)
}

func (r *messageRepo) FetchInbox(ctx context.Context, userID string) ([]domain.Message, error) {
	rows, err := r.db.Query(ctx, messageSelect+` WHERE m.recipient_id = $1 ORDER BY m.created_at DESC`, userID)
	if err != nil {
		return nil, wrapErr("messages.inbox", err)
	}
	msgs, err := collect(rows, messageToDomain)
	return msgs, wrapErr("messages.inbox", err)
}

func (r *messageRepo) FetchSent(ctx context.Context, userID string) ([]domain.Message, error) {
	rows, err := r.db.Query(ctx, messageSelect+` WHERE m.sender_id = $1 ORDER BY m.created_at DESC`, userID)
	if err != nil {
		return nil, wrapErr("messages.sent", err)
	}
	msgs, err := collect(rows, messageToDomain)
	return msgs, wrapErr("messages.sent", err)
}

// MarkAsRead only ever sets is_read to true, so repeating it is harmless.
func (r *messageRepo) MarkAsRead(ctx context.Context, id, recipientID string) error {
	tag, err := r.db.Exec(ctx, `UPDATE messages SET is_read = true WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return wrapErr("messages.mark_read", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("messages.mark_read")
	}
	return nil
}

func (r *messageRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages WHERE recipient_id = $1 AND NOT is_read`, userID).Scan(&n)
	return n, wrapErr("messages.count_unread", err)
}
