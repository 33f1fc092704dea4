package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Admin credential modes
const (
	AuthModeLocal     = "local"
	AuthModeFederated = "federated"
)

// Email providers
const (
	EmailProviderSMTP     = "smtp"
	EmailProviderSendGrid = "sendgrid"
	EmailProviderLog      = "log"
)

// Rate limiter backends
const (
	RateLimitMemory = "memory"
	RateLimitRedis  = "redis"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string   `yaml:"port" env:"SERVER_PORT"`
		Mode        string   `yaml:"mode" env:"SERVER_MODE"`
		CORSOrigins []string `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS"`
		// TrustedProxies lists the proxy addresses or CIDRs whose X-Forwarded-For is honoured.
		// Empty means the client IP is always the socket peer.
		TrustedProxies []string `yaml:"trusted_proxies" env:"SERVER_TRUSTED_PROXIES"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	Redis struct {
		Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED"`
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	JWT struct {
		Secret     string `yaml:"secret" env:"JWT_SECRET"`
		Expiration string `yaml:"expiration" env:"JWT_EXPIRATION"`
		Issuer     string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Auth struct {
		Mode      string `yaml:"mode" env:"AUTH_MODE"`
		KeysURL   string `yaml:"keys_url" env:"AUTH_FEDERATED_KEYS_URL"`
		ProjectID string `yaml:"project_id" env:"AUTH_FEDERATED_PROJECT_ID"`
		Issuer    string `yaml:"issuer" env:"AUTH_FEDERATED_ISSUER"`
	} `yaml:"auth"`

	Admin struct {
		Email    string `yaml:"email" env:"ADMIN_EMAIL"`
		Password string `yaml:"password" env:"ADMIN_PASSWORD"`
	} `yaml:"admin"`

	Email struct {
		Provider        string `yaml:"provider" env:"EMAIL_PROVIDER"`
		SMTPHost        string `yaml:"smtp_host" env:"SMTP_HOST"`
		SMTPPort        int    `yaml:"smtp_port" env:"SMTP_PORT"`
		SMTPUser        string `yaml:"smtp_user" env:"SMTP_USER"`
		SMTPPassword    string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
		SendGridAPIKey  string `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
		FromName        string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail       string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		OperatorAddress string `yaml:"operator_address" env:"EMAIL_OPERATOR_ADDRESS"`
		Timeout         string `yaml:"timeout" env:"EMAIL_TIMEOUT"`
	} `yaml:"email"`

	RateLimit struct {
		Backend   string `yaml:"backend" env:"RATE_LIMIT_BACKEND"`
		PerMinute int    `yaml:"per_minute" env:"RATE_LIMIT_PER_MIN"`
	} `yaml:"ratelimit"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a .env file, a YAML file and environment variables,
// in increasing order of precedence.
func LoadConfig(configPath string) (*Config, error) {
	// A missing .env is the normal case outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	normalize(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.CORSOrigins = []string{"http://localhost:3000"}

	config.Database.Driver = DriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "ehsas"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.Redis.Addr = "localhost:6379"

	config.JWT.Expiration = "24h"
	config.JWT.Issuer = "ehsas"

	config.Auth.Mode = AuthModeLocal
	config.Auth.KeysURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

	config.Email.Provider = EmailProviderLog
	config.Email.SMTPHost = "smtp.gmail.com"
	config.Email.SMTPPort = 587
	config.Email.FromName = "EHSAS - Elden Heights School Alumni Society"
	config.Email.FromEmail = "ehsas@eldenheights.org"
	config.Email.Timeout = "10s"

	config.RateLimit.Backend = RateLimitMemory
	config.RateLimit.PerMinute = 30

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return applyEnv(reflect.ValueOf(config).Elem())
}

func normalize(config *Config) {
	config.Database.Driver = strings.ToLower(strings.TrimSpace(config.Database.Driver))
	config.Auth.Mode = strings.ToLower(strings.TrimSpace(config.Auth.Mode))
	config.Email.Provider = strings.ToLower(strings.TrimSpace(config.Email.Provider))
	config.RateLimit.Backend = strings.ToLower(strings.TrimSpace(config.RateLimit.Backend))
	if config.Email.OperatorAddress == "" {
		config.Email.OperatorAddress = config.Email.FromEmail
	}
	if config.Auth.Issuer == "" && config.Auth.ProjectID != "" {
		config.Auth.Issuer = "https://securetoken.google.com/" + config.Auth.ProjectID
	}
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown database driver %q", config.Database.Driver)
	}

	switch config.Auth.Mode {
	case AuthModeLocal:
		if config.JWT.Secret == "" {
			return fmt.Errorf("JWT secret is required in local auth mode")
		}
		if _, err := time.ParseDuration(config.JWT.Expiration); err != nil {
			return fmt.Errorf("invalid JWT expiration format: %w", err)
		}
	case AuthModeFederated:
		if config.Auth.ProjectID == "" || config.Auth.KeysURL == "" {
			return fmt.Errorf("federated auth requires project_id and keys_url")
		}
	default:
		return fmt.Errorf("unknown auth mode %q", config.Auth.Mode)
	}

	switch config.Email.Provider {
	case EmailProviderLog:
	case EmailProviderSMTP:
		if config.Email.SMTPHost == "" || config.Email.SMTPPort <= 0 {
			return fmt.Errorf("smtp provider requires smtp_host and smtp_port")
		}
	case EmailProviderSendGrid:
		if config.Email.SendGridAPIKey == "" {
			return fmt.Errorf("sendgrid provider requires sendgrid_api_key")
		}
	default:
		return fmt.Errorf("unknown email provider %q", config.Email.Provider)
	}
	if _, err := time.ParseDuration(config.Email.Timeout); err != nil {
		return fmt.Errorf("invalid email timeout format: %w", err)
	}

	switch config.RateLimit.Backend {
	case RateLimitMemory:
	case RateLimitRedis:
		if !config.Redis.Enabled {
			return fmt.Errorf("redis rate limiter requires redis.enabled")
		}
	default:
		return fmt.Errorf("unknown rate limit backend %q", config.RateLimit.Backend)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Server.Mode) == "production"
}
