package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/eldenheights/ehsas/internal/app/models"
	"github.com/eldenheights/ehsas/internal/app/models/dto"
	"github.com/eldenheights/ehsas/internal/app/repositories"
	"github.com/eldenheights/ehsas/internal/pkg/apperrors"
)

// DirectoryService answers public directory queries
type DirectoryService interface {
	Search(ctx context.Context, query dto.DirectoryQuery) ([]dto.PublicAlumni, error)
}

type directoryServiceImpl struct {
	alumniRepo repositories.AlumniRepository
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(alumniRepo repositories.AlumniRepository) DirectoryService {
	return &directoryServiceImpl{alumniRepo: alumniRepo}
}

// Search lists approved alumni. Status and batch go to the store, the
// profession and city substring filters are applied here.
func (s *directoryServiceImpl) Search(ctx context.Context, query dto.DirectoryQuery) ([]dto.PublicAlumni, error) {
	status := models.StatusApproved
	filter := models.AlumniFilter{Status: &status}

	if batch := strings.TrimSpace(query.Batch); batch != "" {
		year, err := strconv.Atoi(batch)
		if err != nil {
			return nil, apperrors.NewValidationError("batch must be a year")
		}
		filter.YearOfLeaving = &year
	}

	list, err := s.alumniRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error querying directory: %w", err)
	}

	profession := strings.ToLower(strings.TrimSpace(query.Profession))
	city := strings.ToLower(strings.TrimSpace(query.City))

	matches := make([]*models.Alumni, 0, len(list))
	for _, a := range list {
		// store filters are trusted, this guards the public view
		if a.Status != models.StatusApproved {
			continue
		}
		if profession != "" && !strings.Contains(strings.ToLower(a.Profession), profession) {
			continue
		}
		if city != "" && !strings.Contains(strings.ToLower(a.City), city) {
			continue
		}
		matches = append(matches, a)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].YearOfLeaving != matches[j].YearOfLeaving {
			return matches[i].YearOfLeaving > matches[j].YearOfLeaving
		}
		return strings.ToLower(matches[i].FullName()) < strings.ToLower(matches[j].FullName())
	})

	result := make([]dto.PublicAlumni, 0, len(matches))
	for _, a := range matches {
		result = append(result, dto.NewPublicAlumni(a))
	}
	return result, nil
}
