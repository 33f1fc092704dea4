package services

import (
	"context"
	"fmt"

	"github.com/eldenheights/ehsas/internal/app/models"
	"github.com/eldenheights/ehsas/internal/app/repositories"
	"github.com/eldenheights/ehsas/internal/pkg/apperrors"
)

// Notification list bounds
const (
	DefaultNotificationLimit = 50
	MaxNotificationLimit     = 100
)

// NotificationService reads and acknowledges in-app admin notifications
type NotificationService interface {
	List(ctx context.Context, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

type notificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &notificationServiceImpl{notificationRepo: notificationRepo}
}

// List returns the newest notifications. limit is clamped to (0, MaxNotificationLimit].
func (s *notificationServiceImpl) List(ctx context.Context, limit int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	if limit > MaxNotificationLimit {
		limit = MaxNotificationLimit
	}

	list, err := s.notificationRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	return list, nil
}

// MarkRead flags a notification as read. Marking twice is not an error.
func (s *notificationServiceImpl) MarkRead(ctx context.Context, id string) error {
	if err := s.notificationRepo.MarkRead(ctx, id); err != nil {
		return contentError(err, apperrors.ErrNotificationNotFound, "marking notification read")
	}
	return nil
}
