package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/eldenheights/ehsas/internal/app/repositories"
	"github.com/eldenheights/ehsas/internal/pkg/auth"
	"github.com/eldenheights/ehsas/internal/pkg/email"
)

// Services defined in this package:
// - MembershipService: registration, approval and rejection of alumni
// - DirectoryService: public directory of approved alumni
// - EventService, SpotlightService: admin managed public content
// - NotificationService: in-app admin notifications
// - StatsService: admin dashboard figures
// - AuthService: admin login and bearer credential authorization

// Notifier sends the membership workflow emails. Implementations report
// delivery as a bool and never fail the caller.
type Notifier interface {
	SendRegistrationNotice(ctx context.Context, a email.Applicant) bool
	SendApprovalNotice(ctx context.Context, a email.Applicant, membershipID string) bool
	SendRejectionNotice(ctx context.Context, a email.Applicant) bool
}

var _ Notifier = (*email.Dispatcher)(nil)

// Services groups every service the HTTP layer depends on
type Services struct {
	Membership    MembershipService
	Directory     DirectoryService
	Events        EventService
	Spotlight     SpotlightService
	Notifications NotificationService
	Stats         StatsService
	Auth          *AuthService
}

// Deps are the collaborators needed to build Services
type Deps struct {
	Repos    *repositories.Repositories
	Notifier Notifier
	Verifier auth.CredentialVerifier
	// JWT is nil when admins authenticate with a federated identity provider
	JWT    *auth.JWTService
	Logger zerolog.Logger
}

// NewServices wires all services against the given store
func NewServices(deps Deps) *Services {
	repos := deps.Repos
	return &Services{
		Membership:    NewMembershipService(repos.Alumni, repos.Notifications, deps.Notifier, deps.Logger),
		Directory:     NewDirectoryService(repos.Alumni),
		Events:        NewEventService(repos.Events, deps.Logger),
		Spotlight:     NewSpotlightService(repos.Spotlight, deps.Logger),
		Notifications: NewNotificationService(repos.Notifications),
		Stats:         NewStatsService(repos.Alumni, repos.Events),
		Auth:          NewAuthService(repos.Admins, deps.Verifier, deps.JWT, deps.Logger),
	}
}
