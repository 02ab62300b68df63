package usecase

import (
	"context"
	"errors"
	"strings"

	"event-staffing-backend/internal/domain"
	"event-staffing-backend/pkg/apperror"
	"event-staffing-backend/pkg/querycache"

	"github.com/go-playground/validator/v10"
)

type messageUsecase struct {
	messageRepo domain.MessageRepository
	notifier    domain.NotificationUsecase
	cache       *querycache.Cache
	validate    *validator.Validate
}

func NewMessageUsecase(
	messageRepo domain.MessageRepository,
	notifier domain.NotificationUsecase,
	cache *querycache.Cache,
	validate *validator.Validate,
) domain.MessageUsecase {
	return &messageUsecase{
		messageRepo: messageRepo,
		notifier:    notifier,
		cache:       cache,
		validate:    validate,
	}
}

func (u *messageUsecase) Send(ctx context.Context, senderID string, input domain.MessageInput) (*domain.Message, error) {
	input.Content = strings.TrimSpace(input.Content)
	if input.Subject != nil {
		subject := strings.TrimSpace(*input.Subject)
		input.Subject = &subject
		if subject == "" {
			input.Subject = nil
		}
	}
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}
	if input.RecipientID == senderID {
		return nil, apperror.BadRequest("You cannot send a message to yourself")
	}

	msg := &domain.Message{
		SenderID:    senderID,
		RecipientID: input.RecipientID,
		Subject:     input.Subject,
		Content:     input.Content,
		JobID:       input.JobID,
	}
	if err := u.messageRepo.Create(ctx, msg); err != nil {
		if errors.Is(err, domain.ErrReference) {
			return nil, apperror.BadRequest("Recipient not found")
		}
		return nil, failure("Failed to send your message", err)
	}

	title := "New message"
	if msg.Subject != nil {
		title = "New message: " + *msg.Subject
	}
	u.notifier.Notify(ctx, domain.Notification{
		UserID:       msg.RecipientID,
		Title:        title,
		Message:      preview(msg.Content, 120),
		Type:         domain.NotificationMessage,
		RelatedJobID: msg.JobID,
	})

	u.cache.Invalidate(ctx, querycache.Key("messages.unread", msg.RecipientID))
	return msg, nil
}

func (u *messageUsecase) ListInbox(ctx context.Context, userID string) ([]domain.Message, error) {
	messages, err := u.messageRepo.FetchInbox(ctx, userID)
	if err != nil {
		return nil, failure("Failed to load your messages", err)
	}
	return messages, nil
}

func (u *messageUsecase) ListSent(ctx context.Context, userID string) ([]domain.Message, error) {
	messages, err := u.messageRepo.FetchSent(ctx, userID)
	if err != nil {
		return nil, failure("Failed to load your sent messages", err)
	}
	return messages, nil
}

// MarkAsRead is idempotent. Only the recipient can mark a message read.
func (u *messageUsecase) MarkAsRead(ctx context.Context, userID, id string) error {
	if err := u.messageRepo.MarkAsRead(ctx, id, userID); err != nil {
		return lookupFailure("Message not found", "Failed to update the message", err)
	}
	u.cache.Invalidate(ctx, querycache.Key("messages.unread", userID))
	return nil
}

func (u *messageUsecase) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := u.cache.Fetch(ctx, querycache.Key("messages.unread", userID), &n, func() (interface{}, error) {
		return u.messageRepo.CountUnread(ctx, userID)
	})
	if err != nil {
		return 0, failure("Failed to count unread messages", err)
	}
	return n, nil
}

// preview shortens s to at most n runes.
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
