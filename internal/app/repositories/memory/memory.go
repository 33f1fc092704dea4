// Package memory provides mutex-guarded in-memory repositories for tests and local development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/eldenheights/ehsas/internal/app/models"
	"github.com/eldenheights/ehsas/internal/app/repositories"
	"github.com/eldenheights/ehsas/internal/pkg/apperrors"
)

var (
	_ repositories.AlumniRepository       = (*AlumniStore)(nil)
	_ repositories.AdminRepository        = (*AdminStore)(nil)
	_ repositories.EventRepository        = (*EventStore)(nil)
	_ repositories.SpotlightRepository    = (*SpotlightStore)(nil)
	_ repositories.NotificationRepository = (*NotificationStore)(nil)
)

// NewRepositories returns a fresh, empty in-memory store
func NewRepositories() *repositories.Repositories {
	return &repositories.Repositories{
		Alumni:        NewAlumniStore(),
		Admins:        NewAdminStore(),
		Events:        NewEventStore(),
		Spotlight:     NewSpotlightStore(),
		Notifications: NewNotificationStore(),
		Ping:          func(context.Context) error { return nil },
	}
}

// AlumniStore keeps alumni records in memory. A single mutex serializes
// approvals, which covers the per-batch ID mint.
type AlumniStore struct {
	mu      sync.RWMutex
	byID    map[string]*models.Alumni
	byEmail map[string]string
	ids     map[string]string
}

// NewAlumniStore creates an empty alumni store
func NewAlumniStore() *AlumniStore {
	return &AlumniStore{
		byID:    make(map[string]*models.Alumni),
		byEmail: make(map[string]string),
		ids:     make(map[string]string),
	}
}

func copyAlumni(a *models.Alumni) *models.Alumni {
	c := *a
	if a.EhsasID != nil {
		id := *a.EhsasID
		c.EhsasID = &id
	}
	if a.ApprovedAt != nil {
		at := *a.ApprovedAt
		c.ApprovedAt = &at
	}
	return &c
}

// Create implements repositories.AlumniRepository
func (s *AlumniStore) Create(_ context.Context, a *models.Alumni) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(a.Email)
	if _, taken := s.byEmail[key]; taken {
		return apperrors.ErrEmailAlreadyExists
	}
	if _, exists := s.byID[a.ID]; exists {
		return fmt.Errorf("%w: alumni %s", apperrors.ErrResourceAlreadyExists, a.ID)
	}
	s.byID[a.ID] = copyAlumni(a)
	s.byEmail[key] = a.ID
	return nil
}

// GetByID implements repositories.AlumniRepository
func (s *AlumniStore) GetByID(_ context.Context, id string) (*models.Alumni, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, apperrors.ErrAlumniNotFound
	}
	return copyAlumni(a), nil
}

// ExistsByEmail implements repositories.AlumniRepository
func (s *AlumniStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byEmail[strings.ToLower(email)]
	return ok, nil
}

// List implements repositories.AlumniRepository
func (s *AlumniStore) List(_ context.Context, filter models.AlumniFilter) ([]*models.Alumni, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := []*models.Alumni{}
	for _, a := range s.byID {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.YearOfLeaving != nil && a.YearOfLeaving != *filter.YearOfLeaving {
			continue
		}
		list = append(list, copyAlumni(a))
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// Approve implements repositories.AlumniRepository
func (s *AlumniStore) Approve(_ context.Context, id string, issue repositories.IssueFunc, approvedAt time.Time) (*models.Alumni, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return nil, apperrors.ErrAlumniNotFound
	}
	if a.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: alumni is %s", apperrors.ErrInvalidStateTransition, a.Status)
	}

	count := 0
	for _, other := range s.byID {
		if other.Status == models.StatusApproved && other.YearOfLeaving == a.YearOfLeaving {
			count++
		}
	}

	ehsasID := issue(a.YearOfLeaving, count)
	if owner, taken := s.ids[ehsasID]; taken && owner != id {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrMembershipIDConflict, ehsasID)
	}

	a.Status = models.StatusApproved
	a.EhsasID = &ehsasID
	a.ApprovedAt = &approvedAt
	s.ids[ehsasID] = id
	return copyAlumni(a), nil
}

// Reject implements repositories.AlumniRepository
func (s *AlumniStore) Reject(_ context.Context, id string) (*models.Alumni, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return nil, apperrors.ErrAlumniNotFound
	}
	if a.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: alumni is %s", apperrors.ErrInvalidStateTransition, a.Status)
	}
	a.Status = models.StatusRejected
	return copyAlumni(a), nil
}

// CountByStatus implements repositories.AlumniRepository
func (s *AlumniStore) CountByStatus(_ context.Context, status models.AlumniStatus) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, a := range s.byID {
		if a.Status == status {
			count++
		}
	}
	return count, nil
}

// BatchDistribution implements repositories.AlumniRepository
func (s *AlumniStore) BatchDistribution(_ context.Context, limit int) ([]models.BatchCount, error) {
	s.mu.RLock()
	counts := make(map[int]int)
	for _, a := range s.byID {
		if a.Status == models.StatusApproved {
			counts[a.YearOfLeaving]++
		}
	}
	s.mu.RUnlock()

	result := make([]models.BatchCount, 0, len(counts))
	for batch, count := range counts {
		result = append(result, models.BatchCount{Batch: batch, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Batch > result[j].Batch })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// AdminStore keeps admin accounts in memory
type AdminStore struct {
	mu      sync.RWMutex
	byEmail map[string]*models.Admin
}

// NewAdminStore creates an empty admin store
func NewAdminStore() *AdminStore {
	return &AdminStore{byEmail: make(map[string]*models.Admin)}
}

// Create implements repositories.AdminRepository
func (s *AdminStore) Create(_ context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[admin.Email]; ok {
		return fmt.Errorf("%w: admin %s", apperrors.ErrResourceAlreadyExists, admin.Email)
	}
	c := *admin
	s.byEmail[admin.Email] = &c
	return nil
}

// GetByEmail implements repositories.AdminRepository
func (s *AdminStore) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	admin, ok := s.byEmail[email]
	if !ok {
		return nil, apperrors.ErrAdminNotFound
	}
	c := *admin
	return &c, nil
}
