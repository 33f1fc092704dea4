package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eldenheights/ehsas/internal/app/models"
	"github.com/eldenheights/ehsas/internal/db"
	"github.com/eldenheights/ehsas/internal/pkg/apperrors"
	"github.com/eldenheights/ehsas/internal/pkg/dberrors"
	"github.com/eldenheights/ehsas/internal/pkg/logger"
)

// batchLockClass namespaces the advisory locks taken per batch year
const batchLockClass = 4701

var alumniColumns = []string{
	"id", "first_name", "last_name", "email", "mobile",
	"year_of_joining", "year_of_leaving", "class_of_joining", "last_class_studied", "last_house",
	"full_address", "city", "pincode", "state", "country",
	"profession", "organization", "status", "ehsas_id", "created_at", "approved_at",
}

// AlumniRepositoryPG handles alumni database operations
type AlumniRepositoryPG struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAlumniRepository creates a new Postgres alumni repository
func NewAlumniRepository(db *pgxpool.Pool) *AlumniRepositoryPG {
	return &AlumniRepositoryPG{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanAlumni(row pgx.Row) (*models.Alumni, error) {
	a := &models.Alumni{}
	var status string
	err := row.Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Mobile,
		&a.YearOfJoining, &a.YearOfLeaving, &a.ClassOfJoining, &a.LastClassStudied, &a.LastHouse,
		&a.FullAddress, &a.City, &a.Pincode, &a.State, &a.Country,
		&a.Profession, &a.Organization, &status, &a.EhsasID, &a.CreatedAt, &a.ApprovedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = models.AlumniStatus(status)
	return a, nil
}

// Create inserts a new registration
func (r *AlumniRepositoryPG) Create(ctx context.Context, a *models.Alumni) error {
	sql, args, err := r.sb.Insert("alumni").
		Columns(alumniColumns...).
		Values(
			a.ID, a.FirstName, a.LastName, a.Email, a.Mobile,
			a.YearOfJoining, a.YearOfLeaving, a.ClassOfJoining, a.LastClassStudied, a.LastHouse,
			a.FullAddress, a.City, a.Pincode, a.State, a.Country,
			a.Profession, a.Organization, string(a.Status), a.EhsasID, a.CreatedAt, a.ApprovedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create alumni query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintAlumniEmail) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", a.Email).Msg("Error executing create alumni query")
		return fmt.Errorf("error creating alumni: %w", err)
	}
	return nil
}

// GetByID retrieves a registration by ID
func (r *AlumniRepositoryPG) GetByID(ctx context.Context, id string) (*models.Alumni, error) {
	return r.getByID(ctx, r.db, id, false)
}

type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *AlumniRepositoryPG) getByID(ctx context.Context, q queryer, id string, forUpdate bool) (*models.Alumni, error) {
	if !validID(id) {
		return nil, apperrors.ErrAlumniNotFound
	}
	builder := r.sb.Select(alumniColumns...).From("alumni").Where(squirrel.Eq{"id": id}).Limit(1)
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get alumni query: %w", err)
	}

	a, err := scanAlumni(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAlumniNotFound
		}
		logger.Error().Err(err).Str("alumniID", id).Msg("Error scanning alumni row")
		return nil, fmt.Errorf("error getting alumni by ID: %w", err)
	}
	return a, nil
}

// ExistsByEmail reports whether a registration uses email
func (r *AlumniRepositoryPG) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("alumni").
		Where(squirrel.Expr("lower(email) = lower(?)", email)).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build email lookup query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking alumni email: %w", err)
	}
	return true, nil
}

// List returns registrations matching the equality filters, newest first
func (r *AlumniRepositoryPG) List(ctx context.Context, filter models.AlumniFilter) ([]*models.Alumni, error) {
	builder := r.sb.Select(alumniColumns...).From("alumni")
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.YearOfLeaving != nil {
		builder = builder.Where(squirrel.Eq{"year_of_leaving": *filter.YearOfLeaving})
	}
	sql, args, err := builder.OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list alumni query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list alumni query")
		return nil, fmt.Errorf("error querying alumni: %w", err)
	}
	defer rows.Close()

	list := []*models.Alumni{}
	for rows.Next() {
		a, err := scanAlumni(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning alumni row: %w", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alumni rows: %w", err)
	}
	return list, nil
}

// Approve mints the membership ID under a transaction-scoped advisory lock on the
// batch year, so concurrent approvals in one batch never read the same count.
func (r *AlumniRepositoryPG) Approve(ctx context.Context, id string, issue IssueFunc, approvedAt time.Time) (*models.Alumni, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: alumni is %s", apperrors.ErrInvalidStateTransition, current.Status)
	}

	var approved *models.Alumni
	err = db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1, $2)", int32(batchLockClass), int32(current.YearOfLeaving)); err != nil {
			return fmt.Errorf("failed to lock batch %d: %w", current.YearOfLeaving, err)
		}

		locked, err := r.getByID(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if locked.Status != models.StatusPending {
			return fmt.Errorf("%w: alumni is %s", apperrors.ErrInvalidStateTransition, locked.Status)
		}

		countSQL, countArgs, err := r.sb.Select("COUNT(*)").
			From("alumni").
			Where(squirrel.Eq{"status": string(models.StatusApproved), "year_of_leaving": locked.YearOfLeaving}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build batch count query: %w", err)
		}
		var count int
		if err := tx.QueryRow(ctx, countSQL, countArgs...).Scan(&count); err != nil {
			return fmt.Errorf("error counting batch %d: %w", locked.YearOfLeaving, err)
		}

		ehsasID := issue(locked.YearOfLeaving, count)
		updateSQL, updateArgs, err := r.sb.Update("alumni").
			SetMap(map[string]interface{}{
				"status":      string(models.StatusApproved),
				"ehsas_id":    ehsasID,
				"approved_at": approvedAt,
			}).
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build approve query: %w", err)
		}
		if _, err := tx.Exec(ctx, updateSQL, updateArgs...); err != nil {
			if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintAlumniMembershipID) {
				return fmt.Errorf("%w: %s", apperrors.ErrMembershipIDConflict, ehsasID)
			}
			return fmt.Errorf("error approving alumni: %w", err)
		}

		locked.Status = models.StatusApproved
		locked.EhsasID = &ehsasID
		locked.ApprovedAt = &approvedAt
		approved = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// Reject moves a pending registration to rejected
func (r *AlumniRepositoryPG) Reject(ctx context.Context, id string) (*models.Alumni, error) {
	if !validID(id) {
		return nil, apperrors.ErrAlumniNotFound
	}
	sql, args, err := r.sb.Update("alumni").
		Set("status", string(models.StatusRejected)).
		Where(squirrel.Eq{"id": id, "status": string(models.StatusPending)}).
		Suffix("RETURNING " + strings.Join(alumniColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build reject query: %w", err)
	}

	a, err := scanAlumni(r.db.QueryRow(ctx, sql, args...))
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("error rejecting alumni: %w", err)
	}

	// Nothing updated: either missing or not pending
	current, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	return nil, fmt.Errorf("%w: alumni is %s", apperrors.ErrInvalidStateTransition, current.Status)
}

// CountByStatus counts registrations in status
func (r *AlumniRepositoryPG) CountByStatus(ctx context.Context, status models.AlumniStatus) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("alumni").Where(squirrel.Eq{"status": string(status)}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting alumni: %w", err)
	}
	return count, nil
}

// BatchDistribution counts approved alumni per batch, newest batch first
func (r *AlumniRepositoryPG) BatchDistribution(ctx context.Context, limit int) ([]models.BatchCount, error) {
	sql, args, err := r.sb.Select("year_of_leaving", "COUNT(*)").
		From("alumni").
		Where(squirrel.Eq{"status": string(models.StatusApproved)}).
		GroupBy("year_of_leaving").
		OrderBy("year_of_leaving DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build batch distribution query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying batch distribution: %w", err)
	}
	defer rows.Close()

	result := []models.BatchCount{}
	for rows.Next() {
		var bc models.BatchCount
		if err := rows.Scan(&bc.Batch, &bc.Count); err != nil {
			return nil, fmt.Errorf("error scanning batch count: %w", err)
		}
		result = append(result, bc)
	}
	return result, rows.Err()
}
