package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eldenheights/ehsas/internal/app/models"
	"github.com/eldenheights/ehsas/internal/pkg/apperrors"
	"github.com/eldenheights/ehsas/internal/pkg/logger"
)

var eventColumns = []string{
	"id", "title", "description", "event_type", "event_date", "event_time",
	"location", "image_url", "is_active", "created_at",
}

// EventRepositoryPG handles event database operations
type EventRepositoryPG struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new Postgres event repository
func NewEventRepository(db *pgxpool.Pool) *EventRepositoryPG {
	return &EventRepositoryPG{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	e := &models.Event{}
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.EventType, &e.Date, &e.Time,
		&e.Location, &e.ImageURL, &e.IsActive, &e.CreatedAt)
	return e, err
}

// Create inserts an event
func (r *EventRepositoryPG) Create(ctx context.Context, e *models.Event) error {
	sql, args, err := r.sb.Insert("events").
		Columns(eventColumns...).
		Values(e.ID, e.Title, e.Description, e.EventType, e.Date, e.Time, e.Location, e.ImageURL, e.IsActive, e.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create event query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Msg("Error executing create event query")
		return fmt.Errorf("error creating event: %w", err)
	}
	return nil
}

// GetByID retrieves an event by ID
func (r *EventRepositoryPG) GetByID(ctx context.Context, id string) (*models.Event, error) {
	if !validID(id) {
		return nil, apperrors.ErrEventNotFound
	}
	sql, args, err := r.sb.Select(eventColumns...).From("events").Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}
	e, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error getting event by ID: %w", err)
	}
	return e, nil
}

// List returns events, soonest date first
func (r *EventRepositoryPG) List(ctx context.Context, activeOnly bool) ([]*models.Event, error) {
	builder := r.sb.Select(eventColumns...).From("events")
	if activeOnly {
		builder = builder.Where(squirrel.Eq{"is_active": true})
	}
	sql, args, err := builder.OrderBy("event_date ASC", "created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying events: %w", err)
	}
	defer rows.Close()

	events := []*models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Update overwrites the editable fields of an event
func (r *EventRepositoryPG) Update(ctx context.Context, e *models.Event) error {
	sql, args, err := r.sb.Update("events").
		SetMap(map[string]interface{}{
			"title":       e.Title,
			"description": e.Description,
			"event_type":  e.EventType,
			"event_date":  e.Date,
			"event_time":  e.Time,
			"location":    e.Location,
			"image_url":   e.ImageURL,
			"is_active":   e.IsActive,
		}).
		Where(squirrel.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update event query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// Delete removes an event permanently
func (r *EventRepositoryPG) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperrors.ErrEventNotFound
	}
	sql, args, err := r.sb.Delete("events").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete event query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// CountActive counts active events
func (r *EventRepositoryPG) CountActive(ctx context.Context) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("events").Where(squirrel.Eq{"is_active": true}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count events query: %w", err)
	}
	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting events: %w", err)
	}
	return count, nil
}
