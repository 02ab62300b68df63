package usecase

import (
	"context"

	"event-staffing-backend/internal/domain"
	"event-staffing-backend/pkg/logger"
	"event-staffing-backend/pkg/querycache"
)

const notificationPageSize = 50

type notificationUsecase struct {
	repo  domain.NotificationRepository
	cache *querycache.Cache
}

func NewNotificationUsecase(repo domain.NotificationRepository, cache *querycache.Cache) domain.NotificationUsecase {
	return &notificationUsecase{repo: repo, cache: cache}
}

func (u *notificationUsecase) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	list, err := u.repo.FetchByUserID(ctx, userID, notificationPageSize)
	if err != nil {
		return nil, failure("Failed to load notifications", err)
	}
	return list, nil
}

func (u *notificationUsecase) MarkAsRead(ctx context.Context, userID, id string) error {
	if err := u.repo.MarkAsRead(ctx, id, userID); err != nil {
		return lookupFailure("Notification not found", "Failed to update the notification", err)
	}
	u.cache.Invalidate(ctx, querycache.Key("notifications.unread", userID))
	return nil
}

func (u *notificationUsecase) MarkAllAsRead(ctx context.Context, userID string) error {
	if _, err := u.repo.MarkAllAsRead(ctx, userID); err != nil {
		return failure("Failed to update notifications", err)
	}
	u.cache.Invalidate(ctx, querycache.Key("notifications.unread", userID))
	return nil
}

func (u *notificationUsecase) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := u.cache.Fetch(ctx, querycache.Key("notifications.unread", userID), &n, func() (interface{}, error) {
		return u.repo.CountUnread(ctx, userID)
	})
	if err != nil {
		return 0, failure("Failed to count notifications", err)
	}
	return n, nil
}

func (u *notificationUsecase) Notify(ctx context.Context, n domain.Notification) {
	if n.UserID == "" {
		return
	}
	if n.Type == "" {
		n.Type = domain.NotificationSystem
	}
	if err := u.repo.Create(ctx, &n); err != nil {
		logger.Log.Warn("Failed to create notification",
			"user_id", n.UserID,
			"type", n.Type,
			"error", err,
		)
		return
	}
	u.cache.Invalidate(ctx, querycache.Key("notifications.unread", n.UserID))
}
