package services

import (
	"context"
	"fmt"

	"github.com/eldenheights/ehsas/internal/app/models"
	"github.com/eldenheights/ehsas/internal/app/models/dto"
	"github.com/eldenheights/ehsas/internal/app/repositories"
)

// batchDistributionLimit is how many batches the dashboard shows
const batchDistributionLimit = 10

// StatsService computes the admin dashboard summary
type StatsService interface {
	Get(ctx context.Context) (*dto.StatsResponse, error)
}

type statsServiceImpl struct {
	alumniRepo repositories.AlumniRepository
	eventRepo  repositories.EventRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(alumniRepo repositories.AlumniRepository, eventRepo repositories.EventRepository) StatsService {
	return &statsServiceImpl{alumniRepo: alumniRepo, eventRepo: eventRepo}
}

func (s *statsServiceImpl) Get(ctx context.Context) (*dto.StatsResponse, error) {
	approved, err := s.alumniRepo.CountByStatus(ctx, models.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("error counting approved alumni: %w", err)
	}
	pending, err := s.alumniRepo.CountByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("error counting pending alumni: %w", err)
	}
	events, err := s.eventRepo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting events: %w", err)
	}
	distribution, err := s.alumniRepo.BatchDistribution(ctx, batchDistributionLimit)
	if err != nil {
		return nil, fmt.Errorf("error computing batch distribution: %w", err)
	}
	if distribution == nil {
		distribution = []models.BatchCount{}
	}

	return &dto.StatsResponse{
		TotalAlumni:          approved,
		PendingRegistrations: pending,
		TotalEvents:          events,
		BatchDistribution:    distribution,
	}, nil
}
