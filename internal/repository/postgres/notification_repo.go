package postgres

import (
	"context"
	"time"

	"event-staffing-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type notificationRow struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	Title          string    `db:"title"`
	Message        string    `db:"message"`
	Type           string    `db:"type"`
	IsRead         bool      `db:"is_read"`
	RelatedJobID   *string   `db:"related_job_id"`
	RelatedEventID *string   `db:"related_event_id"`
	CreatedAt      time.Time `db:"created_at"`
}

const notificationColumns = `id, user_id, title, message, type, is_read, related_job_id, related_event_id, created_at`

func notificationToDomain(r notificationRow) domain.Notification {
	return domain.Notification{
		ID:             r.ID,
		UserID:         r.UserID,
		Title:          r.Title,
		Message:        r.Message,
		Type:           domain.NotificationType(r.Type),
		IsRead:         r.IsRead,
		RelatedJobID:   r.RelatedJobID,
		RelatedEventID: r.RelatedEventID,
		CreatedAt:      r.CreatedAt,
	}
}

type notificationRepo struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) domain.NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	query := `INSERT INTO notifications (user_id, title, message, type, is_read, related_job_id, related_event_id)
              VALUES ($1, $2, $3, $4, false, $5, $6)
              RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, n.UserID, n.Title, n.Message, n.Type, n.RelatedJobID, n.RelatedEventID).
		Scan(&n.ID, &n.CreatedAt)
	return wrapErr("notifications.insert", err)
}

func (r *notificationRepo) FetchByUserID(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	rows, err := r.db.Query(ctx, `SELECT `+notificationColumns+` FROM notifications
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, wrapErr("notifications.list", err)
	}
	list, err := collect(rows, notificationToDomain)
	return list, wrapErr("notifications.list", err)
}

// MarkAsRead is idempotent: is_read only moves to true.
func (r *notificationRepo) MarkAsRead(ctx context.Context, id, userID string) error {
	tag, err := r.db.Exec(ctx, `UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return wrapErr("notifications.mark_read", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("notifications.mark_read")
	}
	return nil
}

func (r *notificationRepo) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE notifications SET is_read = true WHERE user_id = $1 AND NOT is_read`, userID)
	if err != nil {
		return 0, wrapErr("notifications.mark_all_read", err)
	}
	return tag.RowsAffected(), nil
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`, userID).Scan(&n)
	return n, wrapErr("notifications.count_unread", err)
}
