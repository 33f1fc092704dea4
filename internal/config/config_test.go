package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, AuthModeLocal, cfg.Auth.Mode)
	assert.Equal(t, EmailProviderLog, cfg.Email.Provider)
	assert.Equal(t, cfg.Email.FromEmail, cfg.Email.OperatorAddress)
	assert.Equal(t, 30, cfg.RateLimit.PerMinute)
	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9000"
database:
  driver: memory
jwt:
  secret: from-file
ratelimit:
  per_minute: 5
`)
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SERVER_CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SERVER_TRUSTED_PROXIES", "10.0.0.0/8")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("RATE_LIMIT_BACKEND", "Redis")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.Server.TrustedProxies)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, RateLimitRedis, cfg.RateLimit.Backend)
	assert.Equal(t, 5, cfg.RateLimit.PerMinute)
}

func TestLoadConfigFederatedIssuer(t *testing.T) {
	t.Setenv("AUTH_MODE", "federated")
	t.Setenv("AUTH_FEDERATED_PROJECT_ID", "ehsas-prod")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "https://securetoken.google.com/ehsas-prod", cfg.Auth.Issuer)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{}},
		{"unknown driver", map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "mongo"}},
		{"sendgrid without key", map[string]string{"JWT_SECRET": "s", "EMAIL_PROVIDER": "sendgrid"}},
		{"redis limiter without redis", map[string]string{"JWT_SECRET": "s", "RATE_LIMIT_BACKEND": "redis"}},
		{"bad integer", map[string]string{"JWT_SECRET": "s", "DB_MAX_OPEN_CONNS": "lots"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
			assert.Error(t, err)
		})
	}
}
