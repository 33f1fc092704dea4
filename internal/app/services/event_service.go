package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eldenheights/ehsas/internal/app/models"
	"github.com/eldenheights/ehsas/internal/app/models/dto"
	"github.com/eldenheights/ehsas/internal/app/repositories"
	"github.com/eldenheights/ehsas/internal/pkg/apperrors"
)

// EventService manages society events
type EventService interface {
	Create(ctx context.Context, req *dto.CreateEventRequest) (*models.Event, error)
	Get(ctx context.Context, id string, activeOnly bool) (*models.Event, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Event, error)
	Update(ctx context.Context, id string, req *dto.UpdateEventRequest) (*models.Event, error)
	Delete(ctx context.Context, id string) error
}

type eventServiceImpl struct {
	eventRepo repositories.EventRepository
	logger    zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(eventRepo repositories.EventRepository, logger zerolog.Logger) EventService {
	return &eventServiceImpl{eventRepo: eventRepo, logger: logger}
}

func (s *eventServiceImpl) Create(ctx context.Context, req *dto.CreateEventRequest) (*models.Event, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required")
	}

	event := &models.Event{
		ID:          uuid.NewString(),
		Title:       title,
		Description: req.Description,
		EventType:   strings.TrimSpace(req.EventType),
		Date:        strings.TrimSpace(req.Date),
		Time:        strings.TrimSpace(req.Time),
		Location:    strings.TrimSpace(req.Location),
		ImageURL:    strings.TrimSpace(req.ImageURL),
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("error creating event: %w", err)
	}

	s.logger.Info().Str("eventID", event.ID).Str("title", event.Title).Msg("Event created")
	return event, nil
}

// Get returns the event; with activeOnly an inactive event reads as not found
func (s *eventServiceImpl) Get(ctx context.Context, id string, activeOnly bool) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, contentError(err, apperrors.ErrEventNotFound, "getting event")
	}
	if activeOnly && !event.IsActive {
		return nil, apperrors.ErrEventNotFound
	}
	return event, nil
}

func (s *eventServiceImpl) List(ctx context.Context, activeOnly bool) ([]*models.Event, error) {
	events, err := s.eventRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	return events, nil
}

// Update applies only the fields present in req
func (s *eventServiceImpl) Update(ctx context.Context, id string, req *dto.UpdateEventRequest) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, contentError(err, apperrors.ErrEventNotFound, "getting event")
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title cannot be empty")
		}
		event.Title = title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.EventType != nil {
		event.EventType = strings.TrimSpace(*req.EventType)
	}
	if req.Date != nil {
		event.Date = strings.TrimSpace(*req.Date)
	}
	if req.Time != nil {
		event.Time = strings.TrimSpace(*req.Time)
	}
	if req.Location != nil {
		event.Location = strings.TrimSpace(*req.Location)
	}
	if req.ImageURL != nil {
		event.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if req.IsActive != nil {
		event.IsActive = *req.IsActive
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, contentError(err, apperrors.ErrEventNotFound, "updating event")
	}
	return event, nil
}

func (s *eventServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return contentError(err, apperrors.ErrEventNotFound, "deleting event")
	}
	s.logger.Info().Str("eventID", id).Msg("Event deleted")
	return nil
}

// contentError keeps not-found errors recognizable and wraps everything else
func contentError(err, notFound error, action string) error {
	if errors.Is(err, notFound) {
		return notFound
	}
	return fmt.Errorf("error %s: %w", action, err)
}
