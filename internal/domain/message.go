package domain

import (
	"context"
	"time"
)

// Message.IsRead only ever goes from false to true.
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Subject     *string   `json:"subject,omitempty"`
	Content     string    `json:"content"`
	JobID       *string   `json:"jobId,omitempty"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`

	SenderName    *string `json:"senderName,omitempty"`
	RecipientName *string `json:"recipientName,omitempty"`
}

type MessageInput struct {
	RecipientID string  `json:"recipientId" validate:"required,uuid"`
	Subject     *string `json:"subject" validate:"omitempty,max=200"`
	Content     string  `json:"content" validate:"required,notblank,max=5000"`
	JobID       *string `json:"jobId" validate:"omitempty,uuid"`
}

type MessageRepository interface {
	Create(ctx context.Context, msg *Message) error
	FetchInbox(ctx context.Context, userID string) ([]Message, error)
	FetchSent(ctx context.Context, userID string) ([]Message, error)
	// MarkAsRead only affects the recipient's own message.
	MarkAsRead(ctx context.Context, id, recipientID string) error
	CountUnread(ctx context.Context, userID string) (int64, error)
}

type MessageUsecase interface {
	Send(ctx context.Context, senderID string, input MessageInput) (*Message, error)
	ListInbox(ctx context.Context, userID string) ([]Message, error)
	ListSent(ctx context.Context, userID string) ([]Message, error)
	MarkAsRead(ctx context.Context, userID, id string) error
	UnreadCount(ctx context.Context, userID string) (int64, error)
}
