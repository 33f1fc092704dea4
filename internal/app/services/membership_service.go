package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eldenheights/ehsas/internal/app/models"
	"github.com/eldenheights/ehsas/internal/app/models/dto"
	"github.com/eldenheights/ehsas/internal/app/repositories"
	"github.com/eldenheights/ehsas/internal/pkg/apperrors"
	"github.com/eldenheights/ehsas/internal/pkg/email"
	"github.com/eldenheights/ehsas/internal/pkg/membership"
	"github.com/eldenheights/ehsas/internal/pkg/metrics"
	"github.com/eldenheights/ehsas/internal/pkg/validation"
)

// RegistrationResult is the outcome of a successful registration
type RegistrationResult struct {
	Alumni    *models.Alumni
	EmailSent bool
}

// ReviewResult is the outcome of an approval or rejection
type ReviewResult struct {
	Alumni    *models.Alumni
	EmailSent bool
}

// MembershipService runs the registration and approval workflow
type MembershipService interface {
	Register(ctx context.Context, req *dto.RegisterAlumniRequest) (*RegistrationResult, error)
	Approve(ctx context.Context, id string) (*ReviewResult, error)
	Reject(ctx context.Context, id string) (*ReviewResult, error)
	ListPending(ctx context.Context) ([]*models.Alumni, error)
	ListAll(ctx context.Context, status string) ([]*models.Alumni, error)
}

type membershipServiceImpl struct {
	alumniRepo       repositories.AlumniRepository
	notificationRepo repositories.NotificationRepository
	notifier         Notifier
	logger           zerolog.Logger
	now              func() time.Time
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(
	alumniRepo repositories.AlumniRepository,
	notificationRepo repositories.NotificationRepository,
	notifier Notifier,
	logger zerolog.Logger,
) MembershipService {
	return &membershipServiceImpl{
		alumniRepo:       alumniRepo,
		notificationRepo: notificationRepo,
		notifier:         notifier,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// validateRegistration normalizes the request in place and checks it
func validateRegistration(req *dto.RegisterAlumniRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is empty", apperrors.ErrValidationFailed)
	}

	req.Email = validation.NormalizeEmail(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Mobile = strings.TrimSpace(req.Mobile)

	if req.Email == "" {
		return apperrors.NewValidationError("Email is required")
	}
	if !validation.IsValidEmail(req.Email) {
		return apperrors.NewValidationError("Invalid email format")
	}
	if !validation.IsValidYear(req.YearOfLeaving) {
		return apperrors.NewValidationError("year_of_leaving must be a four digit year")
	}
	if req.YearOfJoining != 0 {
		if !validation.IsValidYear(req.YearOfJoining) {
			return apperrors.NewValidationError("year_of_joining must be a four digit year")
		}
		if req.YearOfLeaving < req.YearOfJoining {
			return apperrors.NewValidationError("year_of_leaving cannot be earlier than year_of_joining")
		}
	}
	if req.Mobile != "" && !validation.IsValidMobile(req.Mobile) {
		return apperrors.NewValidationError("Invalid mobile number")
	}

	// these end up in email subjects and bodies; full_address may span lines
	singleLine := []struct {
		field, value string
	}{
		{"first_name", req.FirstName},
		{"last_name", req.LastName},
		{"class_of_joining", req.ClassOfJoining},
		{"last_class_studied", req.LastClassStudied},
		{"last_house", req.LastHouse},
		{"city", req.City},
		{"pincode", req.Pincode},
		{"state", req.State},
		{"country", req.Country},
		{"profession", req.Profession},
		{"organization", req.Organization},
	}
	for _, f := range singleLine {
		if !validation.IsSingleLine(f.value) {
			return apperrors.NewValidationError(f.field + " must not contain control characters")
		}
	}
	return nil
}

// Register stores a pending registration, records an admin notification
// and notifies the operator inbox.
func (s *membershipServiceImpl) Register(ctx context.Context, req *dto.RegisterAlumniRequest) (*RegistrationResult, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	exists, err := s.alumniRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	alumni := &models.Alumni{
		ID:               uuid.NewString(),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Mobile:           req.Mobile,
		YearOfJoining:    req.YearOfJoining,
		YearOfLeaving:    req.YearOfLeaving,
		ClassOfJoining:   strings.TrimSpace(req.ClassOfJoining),
		LastClassStudied: strings.TrimSpace(req.LastClassStudied),
		LastHouse:        strings.TrimSpace(req.LastHouse),
		FullAddress:      strings.TrimSpace(req.FullAddress),
		City:             strings.TrimSpace(req.City),
		Pincode:          strings.TrimSpace(req.Pincode),
		State:            strings.TrimSpace(req.State),
		Country:          strings.TrimSpace(req.Country),
		Profession:       strings.TrimSpace(req.Profession),
		Organization:     strings.TrimSpace(req.Organization),
		Status:           models.StatusPending,
		CreatedAt:        s.now(),
	}

	if err := s.alumniRepo.Create(ctx, alumni); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("error creating alumni: %w", err)
	}
	metrics.Registrations.Inc()

	notification := &models.Notification{
		ID:        uuid.NewString(),
		Type:      models.NotificationRegistration,
		Title:     "New Alumni Registration",
		Message:   fmt.Sprintf("%s %s (%s) has registered from batch %d", alumni.FirstName, alumni.LastName, alumni.Email, alumni.YearOfLeaving),
		AlumniID:  alumni.ID,
		CreatedAt: alumni.CreatedAt,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		// The registration is already stored; losing the in-app notice is not fatal.
		s.logger.Error().Err(err).Str("alumniID", alumni.ID).Msg("Failed to create registration notification")
	}

	sent := s.notifier.SendRegistrationNotice(context.WithoutCancel(ctx), applicantOf(alumni))

	s.logger.Info().
		Str("alumniID", alumni.ID).
		Int("batch", alumni.YearOfLeaving).
		Bool("emailSent", sent).
		Msg("Alumni registered")

	return &RegistrationResult{Alumni: alumni, EmailSent: sent}, nil
}

// Approve issues a membership ID and emails it to the applicant
func (s *membershipServiceImpl) Approve(ctx context.Context, id string) (*ReviewResult, error) {
	alumni, err := s.alumniRepo.Approve(ctx, id, membership.NextID, s.now())
	if err != nil {
		return nil, reviewError(err, "approving")
	}
	metrics.Approvals.Inc()

	if alumni.EhsasID == nil || !membership.Valid(*alumni.EhsasID) {
		return nil, fmt.Errorf("approved alumni %s has malformed membership ID", alumni.ID)
	}
	ehsasID := *alumni.EhsasID
	sent := s.notifier.SendApprovalNotice(context.WithoutCancel(ctx), applicantOf(alumni), ehsasID)

	s.logger.Info().
		Str("alumniID", alumni.ID).
		Str("ehsasID", ehsasID).
		Bool("emailSent", sent).
		Msg("Alumni approved")

	return &ReviewResult{Alumni: alumni, EmailSent: sent}, nil
}

// Reject closes a pending registration and tells the applicant
func (s *membershipServiceImpl) Reject(ctx context.Context, id string) (*ReviewResult, error) {
	alumni, err := s.alumniRepo.Reject(ctx, id)
	if err != nil {
		return nil, reviewError(err, "rejecting")
	}
	metrics.Rejections.Inc()

	sent := s.notifier.SendRejectionNotice(context.WithoutCancel(ctx), applicantOf(alumni))

	s.logger.Info().Str("alumniID", alumni.ID).Bool("emailSent", sent).Msg("Alumni rejected")
	return &ReviewResult{Alumni: alumni, EmailSent: sent}, nil
}

// ListPending returns registrations awaiting review, newest first
func (s *membershipServiceImpl) ListPending(ctx context.Context) ([]*models.Alumni, error) {
	status := models.StatusPending
	list, err := s.alumniRepo.List(ctx, models.AlumniFilter{Status: &status})
	if err != nil {
		return nil, fmt.Errorf("error listing pending alumni: %w", err)
	}
	return list, nil
}

// ListAll returns every registration, optionally restricted to one status
func (s *membershipServiceImpl) ListAll(ctx context.Context, status string) ([]*models.Alumni, error) {
	var filter models.AlumniFilter
	if status = strings.ToLower(strings.TrimSpace(status)); status != "" {
		st := models.AlumniStatus(status)
		if !st.Valid() {
			return nil, apperrors.NewValidationError("status must be one of pending, approved, rejected")
		}
		filter.Status = &st
	}

	list, err := s.alumniRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing alumni: %w", err)
	}
	return list, nil
}

func reviewError(err error, action string) error {
	switch {
	case errors.Is(err, apperrors.ErrAlumniNotFound):
		return apperrors.ErrAlumniNotFound
	case errors.Is(err, apperrors.ErrInvalidStateTransition):
		return err
	default:
		return fmt.Errorf("error %s alumni: %w", action, err)
	}
}

func applicantOf(a *models.Alumni) email.Applicant {
	return email.Applicant{
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		Email:         strings.TrimSpace(a.Email),
		Mobile:        a.Mobile,
		YearOfJoining: a.YearOfJoining,
		YearOfLeaving: a.YearOfLeaving,
		City:          a.City,
		Country:       a.Country,
	}
}
