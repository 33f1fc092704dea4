package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/eldenheights/ehsas/internal/app/models"
	"github.com/eldenheights/ehsas/internal/app/models/dto"
	"github.com/eldenheights/ehsas/internal/app/repositories"
	"github.com/eldenheights/ehsas/internal/pkg/apperrors"
	"github.com/eldenheights/ehsas/internal/pkg/auth"
	"github.com/eldenheights/ehsas/internal/pkg/validation"
)

// Principal is an authorized admin
type Principal struct {
	AdminID  string
	Email    string
	Role     models.RoleType
	Provider string
}

// AuthService handles admin login and authorization of bearer tokens
type AuthService struct {
	adminRepo  repositories.AdminRepository
	verifier   auth.CredentialVerifier
	jwtService *auth.JWTService
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAuthService creates a new AuthService. A nil jwtService selects
// federated login, where the identity provider issues the token.
func NewAuthService(
	adminRepo repositories.AdminRepository,
	verifier auth.CredentialVerifier,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		adminRepo:  adminRepo,
		verifier:   verifier,
		jwtService: jwtService,
		logger:     logger,
		now:        time.Now,
	}
}

// Login exchanges credentials for a bearer token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if s.jwtService == nil {
		return s.loginFederated(ctx, req)
	}
	return s.loginLocal(ctx, req)
}

func (s *AuthService) loginLocal(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	email := validation.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("email and password are required")
	}

	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrAdminNotFound) {
			s.logger.Warn().Str("email", email).Msg("Login attempt for unknown admin")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading admin: %w", err)
	}

	if !auth.CheckPassword(admin.PasswordHash, req.Password) {
		s.logger.Warn().Str("email", email).Msg("Login attempt with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !admin.IsAdmin() {
		return nil, apperrors.ErrPermissionDenied
	}

	token, expiresIn, err := s.jwtService.GenerateToken(admin.ID, admin.Email, string(admin.Role))
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	s.logger.Info().Str("adminID", admin.ID).Msg("Admin logged in")
	return &dto.LoginResponse{
		Token:     token,
		Email:     admin.Email,
		Role:      string(admin.Role),
		ExpiresIn: expiresIn,
	}, nil
}

// loginFederated checks an identity-provider ID token against the admin
// allow-list and hands the same token back as the bearer credential.
func (s *AuthService) loginFederated(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.IDToken == "" {
		return nil, apperrors.NewValidationError("id_token is required")
	}

	principal, identity, err := s.authorize(ctx, req.IDToken)
	if err != nil {
		return nil, err
	}

	expiresIn := 0
	if !identity.ExpiresAt.IsZero() {
		expiresIn = int(math.Max(0, identity.ExpiresAt.Sub(s.now()).Seconds()))
	}

	s.logger.Info().Str("adminID", principal.AdminID).Msg("Admin logged in with identity provider")
	return &dto.LoginResponse{
		Token:     req.IDToken,
		Email:     principal.Email,
		Role:      string(principal.Role),
		ExpiresIn: expiresIn,
	}, nil
}

// Authorize verifies a bearer token and resolves the admin behind it.
// The role always comes from the admins collection, never from token claims.
func (s *AuthService) Authorize(ctx context.Context, token string) (*Principal, error) {
	principal, _, err := s.authorize(ctx, token)
	return principal, err
}

func (s *AuthService) authorize(ctx context.Context, token string) (*Principal, *auth.Identity, error) {
	identity, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	admin, err := s.adminRepo.GetByEmail(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrAdminNotFound) {
			return nil, nil, apperrors.ErrPermissionDenied
		}
		return nil, nil, fmt.Errorf("error loading admin: %w", err)
	}
	if !admin.IsAdmin() {
		return nil, nil, apperrors.ErrPermissionDenied
	}

	return &Principal{
		AdminID:  admin.ID,
		Email:    admin.Email,
		Role:     admin.Role,
		Provider: identity.Provider,
	}, identity, nil
}
