package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eldenheights/ehsas/internal/app/models"
	"github.com/eldenheights/ehsas/internal/pkg/apperrors"
)

// NotificationRepositoryPG handles notification database operations
type NotificationRepositoryPG struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new Postgres notification repository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepositoryPG {
	return &NotificationRepositoryPG{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a notification
func (r *NotificationRepositoryPG) Create(ctx context.Context, n *models.Notification) error {
	sql, args, err := r.sb.Insert("notifications").
		Columns("id", "type", "title", "message", "alumni_id", "is_read", "created_at").
		Values(n.ID, string(n.Type), n.Title, n.Message, n.AlumniID, n.IsRead, n.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create notification query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

// List returns the newest notifications first
func (r *NotificationRepositoryPG) List(ctx context.Context, limit int) ([]*models.Notification, error) {
	sql, args, err := r.sb.Select("id", "type", "title", "message", "alumni_id", "is_read", "created_at").
		From("notifications").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list notifications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying notifications: %w", err)
	}
	defer rows.Close()

	list := []*models.Notification{}
	for rows.Next() {
		n := &models.Notification{}
		var typ string
		if err := rows.Scan(&n.ID, &typ, &n.Title, &n.Message, &n.AlumniID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification row: %w", err)
		}
		n.Type = models.NotificationType(typ)
		list = append(list, n)
	}
	return list, rows.Err()
}

// MarkRead flags a notification as read
func (r *NotificationRepositoryPG) MarkRead(ctx context.Context, id string) error {
	if !validID(id) {
		return apperrors.ErrNotificationNotFound
	}
	sql, args, err := r.sb.Update("notifications").Set("is_read", true).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark read query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error marking notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}
