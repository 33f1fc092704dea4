package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eldenheights/ehsas/internal/app/models"
)

// IssueFunc mints a membership ID for a batch that already has approvedCount approved members
type IssueFunc func(year, approvedCount int) string

// AlumniRepository stores alumni registrations.
// Emails are stored lower-cased and are unique.
type AlumniRepository interface {
	// Create fails with apperrors.ErrEmailAlreadyExists when the email is taken
	Create(ctx context.Context, alumni *models.Alumni) error
	GetByID(ctx context.Context, id string) (*models.Alumni, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// List returns matching records newest first
	List(ctx context.Context, filter models.AlumniFilter) ([]*models.Alumni, error)
	// Approve atomically moves a pending record to approved, minting its ID with
	// issue while holding the per-batch lock. Non-pending records fail with
	// apperrors.ErrInvalidStateTransition.
	Approve(ctx context.Context, id string, issue IssueFunc, approvedAt time.Time) (*models.Alumni, error)
	// Reject moves a pending record to rejected
	Reject(ctx context.Context, id string) (*models.Alumni, error)
	CountByStatus(ctx context.Context, status models.AlumniStatus) (int, error)
	// BatchDistribution counts approved records per year_of_leaving, newest year first
	BatchDistribution(ctx context.Context, limit int) ([]models.BatchCount, error)
}

// AdminRepository stores admin accounts
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// EventRepository stores events
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
	CountActive(ctx context.Context) (int, error)
}

// SpotlightRepository stores spotlight entries
type SpotlightRepository interface {
	Create(ctx context.Context, spotlight *models.Spotlight) error
	GetByID(ctx context.Context, id string) (*models.Spotlight, error)
	List(ctx context.Context, featuredOnly bool) ([]*models.Spotlight, error)
	Update(ctx context.Context, spotlight *models.Spotlight) error
	Delete(ctx context.Context, id string) error
}

// NotificationRepository stores in-app notifications
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	// List returns the newest notifications first
	List(ctx context.Context, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// Repositories holds all the repository instances
type Repositories struct {
	Alumni        AlumniRepository
	Admins        AdminRepository
	Events        EventRepository
	Spotlight     SpotlightRepository
	Notifications NotificationRepository
	// Ping reports store health
	Ping func(ctx context.Context) error
}

// NewRepositories initializes the Postgres backed repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Alumni:        NewAlumniRepository(db),
		Admins:        NewAdminRepository(db),
		Events:        NewEventRepository(db),
		Spotlight:     NewSpotlightRepository(db),
		Notifications: NewNotificationRepository(db),
		Ping:          db.Ping,
	}
}

// validID reports whether id can be used against a UUID primary key.
// Lookups with malformed IDs are answered as not found instead of reaching the database.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
