package auth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/eldenheights/ehsas/internal/pkg/apperrors"
)

const (
	defaultKeyCacheTTL = time.Hour
	// minKeyRefreshInterval spaces out fetches triggered by unknown key ids while the cache is fresh
	minKeyRefreshInterval = time.Minute
)

// FederatedConfig configures verification of identity-provider ID tokens
type FederatedConfig struct {
	// KeysURL serves a JSON object mapping key IDs to PEM encoded certificates or public keys
	KeysURL   string
	ProjectID string
	Issuer    string
}

// FederatedVerifier verifies RS256 ID tokens issued by an external identity provider
type FederatedVerifier struct {
	config FederatedConfig
	client *http.Client
	logger zerolog.Logger
	now    func() time.Time

	refreshMu   sync.Mutex
	mu          sync.RWMutex
	keys        map[string]*rsa.PublicKey
	expiresAt   time.Time
	attemptedAt time.Time
}

// NewFederatedVerifier creates a verifier. A nil client uses a client with a 10s timeout.
func NewFederatedVerifier(config FederatedConfig, client *http.Client, logger zerolog.Logger) *FederatedVerifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if config.Issuer == "" {
		config.Issuer = "https://securetoken.google.com/" + config.ProjectID
	}
	return &FederatedVerifier{
		config: config,
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

type federatedClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

// Verify implements CredentialVerifier
func (v *FederatedVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, apperrors.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(token, &federatedClaims{}, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token has no key id")
		}
		return v.publicKey(ctx, kid)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.config.ProjectID),
		jwt.WithIssuer(v.config.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(*federatedClaims)
	if !ok || !parsed.Valid || claims.Subject == "" || claims.Email == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	identity := &Identity{
		Subject:  claims.Subject,
		Email:    strings.ToLower(claims.Email),
		Provider: ProviderFederated,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}

// publicKey returns the key for kid, refreshing the key set when the cache
// has expired or does not know the key.
func (v *FederatedVerifier) publicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.RLock()
	key, ok := v.keys[kid]
	fresh := v.now().Before(v.expiresAt)
	v.mu.RUnlock()
	if ok && fresh {
		return key, nil
	}

	if err := v.refreshIfDue(ctx); err != nil {
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	if key, ok = v.keys[kid]; !ok {
		return nil, fmt.Errorf("unknown key id %q", kid)
	}
	return key, nil
}

// refreshIfDue fetches the key set unless it is fresh and was fetched within
// minKeyRefreshInterval. Concurrent callers wait for a single fetch.
func (v *FederatedVerifier) refreshIfDue(ctx context.Context) error {
	v.refreshMu.Lock()
	defer v.refreshMu.Unlock()

	now := v.now()
	v.mu.RLock()
	fresh := now.Before(v.expiresAt)
	recent := now.Sub(v.attemptedAt) < minKeyRefreshInterval
	v.mu.RUnlock()
	if fresh && recent {
		return nil
	}

	v.mu.Lock()
	v.attemptedAt = now
	v.mu.Unlock()
	return v.refreshKeys(ctx)
}

func (v *FederatedVerifier) refreshKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.config.KeysURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build key request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Error().Err(err).Str("url", v.config.KeysURL).Msg("Failed to fetch identity provider keys")
		return fmt.Errorf("failed to fetch keys: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("key endpoint returned status %d", resp.StatusCode)
	}

	var pems map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&pems); err != nil {
		return fmt.Errorf("failed to decode keys: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(pems))
	for kid, pem := range pems {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
		if err != nil {
			v.logger.Warn().Err(err).Str("kid", kid).Msg("Skipping unparseable identity provider key")
			continue
		}
		keys[kid] = key
	}

	v.mu.Lock()
	v.keys = keys
	v.expiresAt = v.now().Add(cacheMaxAge(resp.Header.Get("Cache-Control")))
	v.mu.Unlock()

	v.logger.Debug().Int("keys", len(keys)).Msg("Refreshed identity provider keys")
	return nil
}

// cacheMaxAge extracts max-age from a Cache-Control header
func cacheMaxAge(header string) time.Duration {
	for _, directive := range strings.Split(header, ",") {
		name, value, found := strings.Cut(strings.TrimSpace(directive), "=")
		if !found || !strings.EqualFold(name, "max-age") {
			continue
		}
		seconds, err := strconv.Atoi(strings.Trim(value, `"`))
		if err != nil || seconds <= 0 {
			break
		}
		return time.Duration(seconds) * time.Second
	}
	return defaultKeyCacheTTL
}
