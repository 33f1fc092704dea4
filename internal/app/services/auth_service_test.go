package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldenheights/ehsas/internal/app/models"
	"github.com/eldenheights/ehsas/internal/app/models/dto"
	"github.com/eldenheights/ehsas/internal/app/repositories"
	"github.com/eldenheights/ehsas/internal/app/repositories/memory"
	"github.com/eldenheights/ehsas/internal/pkg/apperrors"
	"github.com/eldenheights/ehsas/internal/pkg/auth"
)

func newLocalAuth(t *testing.T) (*AuthService, repositories.AdminRepository) {
	t.Helper()
	admins := memory.NewAdminStore()
	hash, err := auth.HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, admins.Create(context.Background(), &models.Admin{
		ID: "admin-1", Email: "admin@ehsas.org", PasswordHash: hash, Role: models.RoleAdmin, CreatedAt: time.Now(),
	}))
	require.NoError(t, admins.Create(context.Background(), &models.Admin{
		ID: "viewer-1", Email: "viewer@ehsas.org", PasswordHash: hash, Role: "viewer", CreatedAt: time.Now(),
	}))

	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret-key-with-enough-length", TokenExpiry: time.Hour})
	return NewAuthService(admins, auth.NewLocalVerifier(jwtService), jwtService, zerolog.Nop()), admins
}

func TestAuthService_LocalLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLocalAuth(t)

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: " Admin@EHSAS.org", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "admin@ehsas.org", resp.Email)
	assert.Equal(t, "admin", resp.Role)
	assert.Equal(t, 3600, resp.ExpiresIn)

	principal, err := svc.Authorize(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", principal.AdminID)
	assert.Equal(t, auth.ProviderLocal, principal.Provider)
}

func TestAuthService_LocalLoginFailures(t *testing.T) {
	svc, _ := newLocalAuth(t)

	tests := []struct {
		name string
		req  dto.LoginRequest
		want error
	}{
		{"missing password", dto.LoginRequest{Email: "admin@ehsas.org"}, apperrors.ErrValidationFailed},
		{"wrong password", dto.LoginRequest{Email: "admin@ehsas.org", Password: "nope"}, apperrors.ErrInvalidCredentials},
		{"unknown admin", dto.LoginRequest{Email: "ghost@ehsas.org", Password: "s3cret-pass"}, apperrors.ErrInvalidCredentials},
		{"not an admin role", dto.LoginRequest{Email: "viewer@ehsas.org", Password: "s3cret-pass"}, apperrors.ErrPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

type stubVerifier struct {
	identity *auth.Identity
	err      error
}

func (v stubVerifier) Verify(context.Context, string) (*auth.Identity, error) {
	return v.identity, v.err
}

func TestAuthService_Authorize(t *testing.T) {
	_, admins := newLocalAuth(t)

	tests := []struct {
		name     string
		verifier stubVerifier
		want     error
	}{
		{"verifier rejects", stubVerifier{err: apperrors.ErrTokenExpired}, apperrors.ErrTokenExpired},
		{"identity not an admin", stubVerifier{identity: &auth.Identity{Email: "stranger@x.com"}}, apperrors.ErrPermissionDenied},
		{"admin with other role", stubVerifier{identity: &auth.Identity{Email: "viewer@ehsas.org"}}, apperrors.ErrPermissionDenied},
		{"admin", stubVerifier{identity: &auth.Identity{Email: "admin@ehsas.org", Provider: auth.ProviderFederated}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAuthService(admins, tt.verifier, nil, zerolog.Nop())
			principal, err := svc.Authorize(context.Background(), "token")
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				assert.Nil(t, principal)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.RoleAdmin, principal.Role)
		})
	}
}

func TestAuthService_FederatedLogin(t *testing.T) {
	_, admins := newLocalAuth(t)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	verifier := stubVerifier{identity: &auth.Identity{
		Email: "admin@ehsas.org", Provider: auth.ProviderFederated, ExpiresAt: now.Add(30 * time.Minute),
	}}
	svc := NewAuthService(admins, verifier, nil, zerolog.Nop())
	svc.now = func() time.Time { return now }

	_, err := svc.Login(context.Background(), &dto.LoginRequest{})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{IDToken: "provider-token"})
	require.NoError(t, err)
	assert.Equal(t, "provider-token", resp.Token)
	assert.Equal(t, 1800, resp.ExpiresIn)
	assert.Equal(t, "admin", resp.Role)
}
