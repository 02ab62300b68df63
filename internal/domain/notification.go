package domain

import (
	"context"
	"time"
)

type NotificationType string

const (
	NotificationApplication NotificationType = "application"
	NotificationJob         NotificationType = "job"
	NotificationPayment     NotificationType = "payment"
	NotificationMessage     NotificationType = "message"
	NotificationSystem      NotificationType = "system"
)

type Notification struct {
	ID             string           `json:"id"`
	UserID         string           `json:"userId"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	Type           NotificationType `json:"type"`
	IsRead         bool             `json:"isRead"`
	RelatedJobID   *string          `json:"relatedJobId,omitempty"`
	RelatedEventID *string          `json:"relatedEventId,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	FetchByUserID(ctx context.Context, userID string, limit int) ([]Notification, error)
	MarkAsRead(ctx context.Context, id, userID string) error
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
}

type NotificationUsecase interface {
	List(ctx context.Context, userID string) ([]Notification, error)
	MarkAsRead(ctx context.Context, userID, id string) error
	MarkAllAsRead(ctx context.Context, userID string) error
	UnreadCount(ctx context.Context, userID string) (int64, error)
	// Notify is best effort: failures are logged, never returned to the
	// action that triggered it.
	Notify(ctx context.Context, n Notification)
}
