package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/lumenlive/backend/internal/models"
	repo "github.com/lumenlive/backend/internal/repository"
	"github.com/lumenlive/backend/internal/worker"
)

type NotificationService struct {
	r  repo.Notifications
	wp *worker.Pool
}

func NewNotificationService(r repo.Notifications, wp *worker.Pool) *NotificationService {
	return &NotificationService{r: r, wp: wp}
}

// Push dispatches a notification off the request path. Delivery failure is
// logged and never propagated: a lost notification must not fail the
// operation that triggered it.
func (s *NotificationService) Push(userID string, typ models.NotificationType, title, body, relatedID string) {
	s.wp.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := s.r.Create(ctx, models.Notification{
			UserID:          userID,
			Type:            typ,
			Title:           title,
			Body:            body,
			RelatedEntityID: relatedID,
		})
		if err != nil {
			slog.Error("notification dispatch failed", "user_id", userID, "title", title, "err", err)
		}
	})
}

type NotificationList struct {
	UnreadCount   int64                 `json:"unread_count"`
	Notifications []models.Notification `json:"notifications"`
}

func (s *NotificationService) List(ctx context.Context, userID string, limit, offset int) (NotificationList, error) {
	items, err := s.r.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return NotificationList{}, err
	}
	unread, err := s.r.CountUnread(ctx, userID)
	if err != nil {
		return NotificationList{}, err
	}
	if items == nil {
		items = []models.Notification{}
	}
	return NotificationList{UnreadCount: unread, Notifications: items}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	return s.r.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.r.MarkAllRead(ctx, userID)
}
