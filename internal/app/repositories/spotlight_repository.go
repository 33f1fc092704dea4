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
)

var spotlightColumns = []string{
	"id", "name", "batch", "profession", "achievement", "category", "image_url", "is_featured", "created_at",
}

// SpotlightRepositoryPG handles spotlight database operations
type SpotlightRepositoryPG struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSpotlightRepository creates a new Postgres spotlight repository
func NewSpotlightRepository(db *pgxpool.Pool) *SpotlightRepositoryPG {
	return &SpotlightRepositoryPG{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanSpotlight(row pgx.Row) (*models.Spotlight, error) {
	s := &models.Spotlight{}
	var category string
	err := row.Scan(&s.ID, &s.Name, &s.Batch, &s.Profession, &s.Achievement, &category, &s.ImageURL, &s.IsFeatured, &s.CreatedAt)
	s.Category = models.SpotlightCategory(category)
	return s, err
}

// Create inserts a spotlight entry
func (r *SpotlightRepositoryPG) Create(ctx context.Context, s *models.Spotlight) error {
	sql, args, err := r.sb.Insert("spotlight").
		Columns(spotlightColumns...).
		Values(s.ID, s.Name, s.Batch, s.Profession, s.Achievement, string(s.Category), s.ImageURL, s.IsFeatured, s.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create spotlight query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error creating spotlight: %w", err)
	}
	return nil
}

// GetByID retrieves a spotlight entry by ID
func (r *SpotlightRepositoryPG) GetByID(ctx context.Context, id string) (*models.Spotlight, error) {
	if !validID(id) {
		return nil, apperrors.ErrSpotlightNotFound
	}
	sql, args, err := r.sb.Select(spotlightColumns...).From("spotlight").Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get spotlight query: %w", err)
	}
	s, err := scanSpotlight(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSpotlightNotFound
		}
		return nil, fmt.Errorf("error getting spotlight by ID: %w", err)
	}
	return s, nil
}

// List returns spotlight entries, newest first
func (r *SpotlightRepositoryPG) List(ctx context.Context, featuredOnly bool) ([]*models.Spotlight, error) {
	builder := r.sb.Select(spotlightColumns...).From("spotlight")
	if featuredOnly {
		builder = builder.Where(squirrel.Eq{"is_featured": true})
	}
	sql, args, err := builder.OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list spotlight query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying spotlight: %w", err)
	}
	defer rows.Close()

	entries := []*models.Spotlight{}
	for rows.Next() {
		s, err := scanSpotlight(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning spotlight row: %w", err)
		}
		entries = append(entries, s)
	}
	return entries, rows.Err()
}

// Update overwrites the editable fields of a spotlight entry
func (r *SpotlightRepositoryPG) Update(ctx context.Context, s *models.Spotlight) error {
	sql, args, err := r.sb.Update("spotlight").
		SetMap(map[string]interface{}{
			"name":        s.Name,
			"batch":       s.Batch,
			"profession":  s.Profession,
			"achievement": s.Achievement,
			"category":    string(s.Category),
			"image_url":   s.ImageURL,
			"is_featured": s.IsFeatured,
		}).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update spotlight query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating spotlight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSpotlightNotFound
	}
	return nil
}

// Delete removes a spotlight entry permanently
func (r *SpotlightRepositoryPG) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperrors.ErrSpotlightNotFound
	}
	sql, args, err := r.sb.Delete("spotlight").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete spotlight query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting spotlight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSpotlightNotFound
	}
	return nil
}
