package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/eldenheights/ehsas/internal/app/models"
	"github.com/eldenheights/ehsas/internal/pkg/apperrors"
)

// EventStore keeps events in memory
type EventStore struct {
	mu     sync.RWMutex
	events map[string]*models.Event
}

// NewEventStore creates an empty event store
func NewEventStore() *EventStore {
	return &EventStore{events: make(map[string]*models.Event)}
}

// Create implements repositories.EventRepository
func (s *EventStore) Create(_ context.Context, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *e
	s.events[e.ID] = &c
	return nil
}

// GetByID implements repositories.EventRepository
func (s *EventStore) GetByID(_ context.Context, id string) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	c := *e
	return &c, nil
}

// List implements repositories.EventRepository
func (s *EventStore) List(_ context.Context, activeOnly bool) ([]*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := []*models.Event{}
	for _, e := range s.events {
		if activeOnly && !e.IsActive {
			continue
		}
		c := *e
		list = append(list, &c)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date < list[j].Date
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// Update implements repositories.EventRepository
func (s *EventStore) Update(_ context.Context, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.events[e.ID]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	c := *e
	c.CreatedAt = existing.CreatedAt
	s.events[e.ID] = &c
	return nil
}

// Delete implements repositories.EventRepository
func (s *EventStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return apperrors.ErrEventNotFound
	}
	delete(s.events, id)
	return nil
}

// CountActive implements repositories.EventRepository
func (s *EventStore) CountActive(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, e := range s.events {
		if e.IsActive {
			count++
		}
	}
	return count, nil
}

// SpotlightStore keeps spotlight entries in memory
type SpotlightStore struct {
	mu      sync.RWMutex
	entries map[string]*models.Spotlight
}

// NewSpotlightStore creates an empty spotlight store
func NewSpotlightStore() *SpotlightStore {
	return &SpotlightStore{entries: make(map[string]*models.Spotlight)}
}

// Create implements repositories.SpotlightRepository
func (s *SpotlightStore) Create(_ context.Context, sp *models.Spotlight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *sp
	s.entries[sp.ID] = &c
	return nil
}

// GetByID implements repositories.SpotlightRepository
func (s *SpotlightStore) GetByID(_ context.Context, id string) (*models.Spotlight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.entries[id]
	if !ok {
		return nil, apperrors.ErrSpotlightNotFound
	}
	c := *sp
	return &c, nil
}

// List implements repositories.SpotlightRepository
func (s *SpotlightStore) List(_ context.Context, featuredOnly bool) ([]*models.Spotlight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := []*models.Spotlight{}
	for _, sp := range s.entries {
		if featuredOnly && !sp.IsFeatured {
			continue
		}
		c := *sp
		list = append(list, &c)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

// Update implements repositories.SpotlightRepository
func (s *SpotlightStore) Update(_ context.Context, sp *models.Spotlight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.entries[sp.ID]
	if !ok {
		return apperrors.ErrSpotlightNotFound
	}
	c := *sp
	c.CreatedAt = existing.CreatedAt
	s.entries[sp.ID] = &c
	return nil
}

// Delete implements repositories.SpotlightRepository
func (s *SpotlightStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return apperrors.ErrSpotlightNotFound
	}
	delete(s.entries, id)
	return nil
}

// NotificationStore keeps notifications in memory
type NotificationStore struct {
	mu    sync.RWMutex
	items map[string]*models.Notification
}

// NewNotificationStore creates an empty notification store
func NewNotificationStore() *NotificationStore {
	return &NotificationStore{items: make(map[string]*models.Notification)}
}

// Create implements repositories.NotificationRepository
func (s *NotificationStore) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *n
	s.items[n.ID] = &c
	return nil
}

// List implements repositories.NotificationRepository
func (s *NotificationStore) List(_ context.Context, limit int) ([]*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*models.Notification, 0, len(s.items))
	for _, n := range s.items {
		c := *n
		list = append(list, &c)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// MarkRead implements repositories.NotificationRepository
func (s *NotificationStore) MarkRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.items[id]
	if !ok {
		return apperrors.ErrNotificationNotFound
	}
	n.IsRead = true
	return nil
}
