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
	"github.com/eldenheights/ehsas/internal/pkg/dberrors"
)

// AdminRepositoryPG handles admin account database operations
type AdminRepositoryPG struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAdminRepository creates a new Postgres admin repository
func NewAdminRepository(db *pgxpool.Pool) *AdminRepositoryPG {
	return &AdminRepositoryPG{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts an admin account
func (r *AdminRepositoryPG) Create(ctx context.Context, admin *models.Admin) error {
	sql, args, err := r.sb.Insert("admins").
		Columns("id", "email", "password_hash", "role", "created_at").
		Values(admin.ID, admin.Email, admin.PasswordHash, string(admin.Role), admin.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create admin query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintAdminEmail) {
			return fmt.Errorf("%w: admin %s", apperrors.ErrResourceAlreadyExists, admin.Email)
		}
		return fmt.Errorf("error creating admin: %w", err)
	}
	return nil
}

// GetByEmail retrieves an admin by lower-cased email
func (r *AdminRepositoryPG) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	sql, args, err := r.sb.Select("id", "email", "password_hash", "role", "created_at").
		From("admins").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get admin query: %w", err)
	}

	admin := &models.Admin{}
	var role string
	err = r.db.QueryRow(ctx, sql, args...).Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &role, &admin.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAdminNotFound
		}
		return nil, fmt.Errorf("error getting admin: %w", err)
	}
	admin.Role = models.RoleType(role)
	return admin, nil
}
