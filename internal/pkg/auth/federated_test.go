package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldenheights/ehsas/internal/pkg/apperrors"
)

const testProject = "ehsas-test"

type keyServer struct {
	server *httptest.Server
	key    *rsa.PrivateKey
	hits   atomic.Int32
}

func newKeyServer(t *testing.T) *keyServer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemKey := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

	ks := &keyServer{key: key}
	ks.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ks.hits.Add(1)
		w.Header().Set("Cache-Control", "public, max-age=600, must-revalidate")
		_ = json.NewEncoder(w).Encode(map[string]string{"kid-1": pemKey})
	}))
	t.Cleanup(ks.server.Close)
	return ks
}

func (ks *keyServer) sign(t *testing.T, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(ks.key)
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":   "https://securetoken.google.com/" + testProject,
		"aud":   testProject,
		"sub":   "uid-123",
		"email": "Admin@Example.com",
		"iat":   now.Add(-time.Minute).Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
}

func TestFederatedVerifier_Verify(t *testing.T) {
	ks := newKeyServer(t)
	verifier := NewFederatedVerifier(FederatedConfig{KeysURL: ks.server.URL, ProjectID: testProject}, nil, zerolog.Nop())

	identity, err := verifier.Verify(context.Background(), ks.sign(t, "kid-1", validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", identity.Email)
	assert.Equal(t, "uid-123", identity.Subject)
	assert.Equal(t, ProviderFederated, identity.Provider)

	// cached keys are reused
	_, err = verifier.Verify(context.Background(), ks.sign(t, "kid-1", validClaims()))
	require.NoError(t, err)
	assert.Equal(t, int32(1), ks.hits.Load())
}

func TestFederatedVerifier_UnknownKeyRefreshesAtMostOncePerInterval(t *testing.T) {
	ks := newKeyServer(t)
	verifier := NewFederatedVerifier(FederatedConfig{KeysURL: ks.server.URL, ProjectID: testProject}, nil, zerolog.Nop())
	clock := time.Now()
	verifier.now = func() time.Time { return clock }
	ctx := context.Background()

	_, err := verifier.Verify(ctx, ks.sign(t, "kid-1", validClaims()))
	require.NoError(t, err)
	require.Equal(t, int32(1), ks.hits.Load())

	for i := 0; i < 20; i++ {
		_, err := verifier.Verify(ctx, ks.sign(t, fmt.Sprintf("rogue-%d", i), validClaims()))
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	}
	assert.Equal(t, int32(1), ks.hits.Load(), "fresh cache must not refetch for unknown key ids")

	clock = clock.Add(2 * time.Minute)
	for i := 0; i < 5; i++ {
		_, err := verifier.Verify(ctx, ks.sign(t, "rogue-late", validClaims()))
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	}
	assert.Equal(t, int32(2), ks.hits.Load(), "one refetch once the interval has passed")

	_, err = verifier.Verify(ctx, ks.sign(t, "kid-1", validClaims()))
	require.NoError(t, err)
	assert.Equal(t, int32(2), ks.hits.Load())
}

func TestFederatedVerifier_ExpiredCacheRefetches(t *testing.T) {
	ks := newKeyServer(t)
	verifier := NewFederatedVerifier(FederatedConfig{KeysURL: ks.server.URL, ProjectID: testProject}, nil, zerolog.Nop())
	clock := time.Now()
	verifier.now = func() time.Time { return clock }
	ctx := context.Background()

	_, err := verifier.Verify(ctx, ks.sign(t, "kid-1", validClaims()))
	require.NoError(t, err)

	// past max-age=600
	clock = clock.Add(11 * time.Minute)
	claims := validClaims()
	claims["iat"] = clock.Add(-time.Minute).Unix()
	claims["exp"] = clock.Add(time.Hour).Unix()
	_, err = verifier.Verify(ctx, ks.sign(t, "kid-1", claims))
	require.NoError(t, err)
	assert.Equal(t, int32(2), ks.hits.Load())
}

func TestFederatedVerifier_Rejects(t *testing.T) {
	ks := newKeyServer(t)
	verifier := NewFederatedVerifier(FederatedConfig{KeysURL: ks.server.URL, ProjectID: testProject}, nil, zerolog.Nop())

	wrongAudience := validClaims()
	wrongAudience["aud"] = "another-project"

	wrongIssuer := validClaims()
	wrongIssuer["iss"] = "https://evil.example.com"

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"wrong audience", ks.sign(t, "kid-1", wrongAudience), apperrors.ErrTokenInvalid},
		{"wrong issuer", ks.sign(t, "kid-1", wrongIssuer), apperrors.ErrTokenInvalid},
		{"unknown key", ks.sign(t, "kid-9", validClaims()), apperrors.ErrTokenInvalid},
		{"garbage", "abc.def.ghi", apperrors.ErrTokenInvalid},
		{"empty", "", apperrors.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(context.Background(), tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("expired", func(t *testing.T) {
		expired := validClaims()
		expired["iat"] = time.Now().Add(-3 * time.Hour).Unix()
		expired["exp"] = time.Now().Add(-2 * time.Hour).Unix()
		_, err := verifier.Verify(context.Background(), ks.sign(t, "kid-1", expired))
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})
}

func TestCacheMaxAge(t *testing.T) {
	assert.Equal(t, 600*time.Second, cacheMaxAge("public, max-age=600, must-revalidate"))
	assert.Equal(t, defaultKeyCacheTTL, cacheMaxAge("no-cache"))
	assert.Equal(t, defaultKeyCacheTTL, cacheMaxAge("max-age=abc"))
	assert.Equal(t, defaultKeyCacheTTL, cacheMaxAge(""))
}
