package services

import (
	"context"
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

// SpotlightService manages spotlight alumni entries
type SpotlightService interface {
	Create(ctx context.Context, req *dto.CreateSpotlightRequest) (*models.Spotlight, error)
	Get(ctx context.Context, id string, featuredOnly bool) (*models.Spotlight, error)
	List(ctx context.Context, featuredOnly bool) ([]*models.Spotlight, error)
	Update(ctx context.Context, id string, req *dto.UpdateSpotlightRequest) (*models.Spotlight, error)
	Delete(ctx context.Context, id string) error
}

type spotlightServiceImpl struct {
	spotlightRepo repositories.SpotlightRepository
	logger        zerolog.Logger
}

// NewSpotlightService creates a new SpotlightService
func NewSpotlightService(spotlightRepo repositories.SpotlightRepository, logger zerolog.Logger) SpotlightService {
	return &spotlightServiceImpl{spotlightRepo: spotlightRepo, logger: logger}
}

func parseCategory(value string) (models.SpotlightCategory, error) {
	category := models.SpotlightCategory(strings.ToLower(strings.TrimSpace(value)))
	if !category.Valid() {
		names := make([]string, len(models.SpotlightCategories))
		for i, c := range models.SpotlightCategories {
			names[i] = string(c)
		}
		return "", apperrors.NewValidationError("category must be one of " + strings.Join(names, ", "))
	}
	return category, nil
}

func (s *spotlightServiceImpl) Create(ctx context.Context, req *dto.CreateSpotlightRequest) (*models.Spotlight, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	category, err := parseCategory(req.Category)
	if err != nil {
		return nil, err
	}

	entry := &models.Spotlight{
		ID:          uuid.NewString(),
		Name:        name,
		Batch:       strings.TrimSpace(req.Batch),
		Profession:  strings.TrimSpace(req.Profession),
		Achievement: req.Achievement,
		Category:    category,
		ImageURL:    strings.TrimSpace(req.ImageURL),
		IsFeatured:  true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.spotlightRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("error creating spotlight entry: %w", err)
	}

	s.logger.Info().Str("spotlightID", entry.ID).Str("category", string(category)).Msg("Spotlight entry created")
	return entry, nil
}

func (s *spotlightServiceImpl) Get(ctx context.Context, id string, featuredOnly bool) (*models.Spotlight, error) {
	entry, err := s.spotlightRepo.GetByID(ctx, id)
	if err != nil {
		return nil, contentError(err, apperrors.ErrSpotlightNotFound, "getting spotlight entry")
	}
	if featuredOnly && !entry.IsFeatured {
		return nil, apperrors.ErrSpotlightNotFound
	}
	return entry, nil
}

func (s *spotlightServiceImpl) List(ctx context.Context, featuredOnly bool) ([]*models.Spotlight, error) {
	entries, err := s.spotlightRepo.List(ctx, featuredOnly)
	if err != nil {
		return nil, fmt.Errorf("error listing spotlight entries: %w", err)
	}
	return entries, nil
}

// Update applies only the fields present in req
func (s *spotlightServiceImpl) Update(ctx context.Context, id string, req *dto.UpdateSpotlightRequest) (*models.Spotlight, error) {
	entry, err := s.spotlightRepo.GetByID(ctx, id)
	if err != nil {
		return nil, contentError(err, apperrors.ErrSpotlightNotFound, "getting spotlight entry")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name cannot be empty")
		}
		entry.Name = name
	}
	if req.Category != nil {
		category, err := parseCategory(*req.Category)
		if err != nil {
			return nil, err
		}
		entry.Category = category
	}
	if req.Batch != nil {
		entry.Batch = strings.TrimSpace(*req.Batch)
	}
	if req.Profession != nil {
		entry.Profession = strings.TrimSpace(*req.Profession)
	}
	if req.Achievement != nil {
		entry.Achievement = *req.Achievement
	}
	if req.ImageURL != nil {
		entry.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if req.IsFeatured != nil {
		entry.IsFeatured = *req.IsFeatured
	}

	if err := s.spotlightRepo.Update(ctx, entry); err != nil {
		return nil, contentError(err, apperrors.ErrSpotlightNotFound, "updating spotlight entry")
	}
	return entry, nil
}

func (s *spotlightServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.spotlightRepo.Delete(ctx, id); err != nil {
		return contentError(err, apperrors.ErrSpotlightNotFound, "deleting spotlight entry")
	}
	s.logger.Info().Str("spotlightID", id).Msg("Spotlight entry deleted")
	return nil
}
