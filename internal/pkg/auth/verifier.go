package auth

import (
	"context"
	"strings"
	"time"
)

// Identity providers
const (
	ProviderLocal     = "local"
	ProviderFederated = "federated"
)

// Identity is the verified principal behind a bearer token
type Identity struct {
	Subject  string
	Email    string
	Provider string
	// ExpiresAt is when the presented token stops being accepted
	ExpiresAt time.Time
}

// CredentialVerifier verifies a bearer token and returns the identity it
// carries. Failures wrap apperrors.ErrUnauthorized, ErrTokenInvalid or ErrTokenExpired.
type CredentialVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// LocalVerifier verifies tokens issued by JWTService
type LocalVerifier struct {
	jwt *JWTService
}

// NewLocalVerifier creates a verifier for locally issued tokens
func NewLocalVerifier(jwtService *JWTService) *LocalVerifier {
	return &LocalVerifier{jwt: jwtService}
}

// Verify implements CredentialVerifier
func (v *LocalVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	claims, err := v.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	identity := &Identity{
		Subject:  claims.Subject,
		Email:    strings.ToLower(claims.Email),
		Provider: ProviderLocal,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}
