package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting used by the api, scheduler and migrate binaries.
type Config struct {
	AppEnv   string `env:"APP_ENV,default=development"`
	LogLevel string `env:"LOG_LEVEL,default=info"`
	Port     string `env:"PORT,default=8000"`

	DatabaseURL      string `env:"DATABASE_URL"`
	PostgresHost     string `env:"POSTGRES_HOST,default=localhost"`
	PostgresPort     string `env:"POSTGRES_PORT,default=5432"`
	PostgresUser     string `env:"POSTGRES_USER,default=postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDB       string `env:"POSTGRES_DB,default=smokefree"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE,default=disable"`

	RedisURL      string `env:"REDIS_URL"`
	RedisHost     string `env:"REDIS_HOST,default=localhost"`
	RedisPort     string `env:"REDIS_PORT,default=6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB,default=0"`

	CORSOrigins string `env:"BACKENDS_CORS_ORIGINS"`

	Auth0Domain           string `env:"AUTH0_DOMAIN"`
	Auth0Audience         string `env:"AUTH0_API_AUDIENCE"`
	Auth0ClientID         string `env:"AUTH0_CLIENT_ID"`
	Auth0MgmtClientID     string `env:"AUTH0_MGMT_CLIENT_ID"`
	Auth0MgmtClientSecret string `env:"AUTH0_MGMT_CLIENT_SECRET"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIModel   string `env:"OPENAI_MODEL,default=gpt-4o-mini"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL,default=https://api.openai.com/v1"`

	Timezone            string        `env:"TIMEZONE,default=UTC"`
	SchedulerEnabled    bool          `env:"SCHEDULER_ENABLED,default=false"`
	SchedulerRunOnStart bool          `env:"SCHEDULER_RUN_ON_START,default=false"`
	MotivationInterval  time.Duration `env:"MOTIVATION_INTERVAL,default=8h"`
	BadgeInterval       time.Duration `env:"BADGE_INTERVAL,default=24h"`

	RateLimitRPS   int `env:"RATE_LIMIT_RPS,default=5"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST,default=10"`

	FirebaseProjectID          string `env:"FIREBASE_PROJECT_ID"`
	FirebaseServiceAccountPath string `env:"FIREBASE_SERVICE_ACCOUNT_PATH"`

	BadgeCatalogPath string `env:"BADGE_CATALOG_PATH,default=config/badges.yaml"`

	location *time.Location
}

const defaultCORSOrigins = "http://localhost:3000,http://localhost:8000"

// Load reads an optional .env file, decodes the environment and validates the result.
func Load() (*Config, error) {
	cfg, err := LoadUnvalidated()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadUnvalidated is Load without Validate, for tools such as the migrate
// binary that only need the database settings.
func LoadUnvalidated() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) finalize() error {
	if c.DatabaseURL == "" {
		c.DatabaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			url.QueryEscape(c.PostgresUser), url.QueryEscape(c.PostgresPassword),
			c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSLMode)
	}
	if c.RedisURL == "" {
		auth := ""
		if c.RedisPassword != "" {
			auth = ":" + url.QueryEscape(c.RedisPassword) + "@"
		}
		c.RedisURL = fmt.Sprintf("redis://%s%s:%s/%d", auth, c.RedisHost, c.RedisPort, c.RedisDB)
	}

	if c.CORSOrigins == "" {
		c.CORSOrigins = defaultCORSOrigins
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc
	return nil
}

// Validate checks the settings every process needs.
func (c *Config) Validate() error {
	if c.Auth0Domain == "" {
		return errors.New("AUTH0_DOMAIN is required")
	}
	if c.Auth0Audience == "" {
		return errors.New("AUTH0_API_AUDIENCE is required")
	}
	if c.MotivationInterval <= 0 {
		return fmt.Errorf("MOTIVATION_INTERVAL must be positive, got %s", c.MotivationInterval)
	}
	if c.BadgeInterval <= 0 {
		return fmt.Errorf("BADGE_INTERVAL must be positive, got %s", c.BadgeInterval)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// AllowedOrigins splits BACKENDS_CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	origins := []string{}
	for _, origin := range strings.Split(c.CORSOrigins, ",") {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// Auth0URL is the tenant base URL without a trailing slash.
func (c *Config) Auth0URL() string {
	return "https://" + c.Auth0Domain
}

// Auth0Issuer is the issuer claim Auth0 puts in access tokens.
func (c *Config) Auth0Issuer() string {
	return "https://" + c.Auth0Domain + "/"
}

// JWKSURL is where Auth0 publishes the tenant signing keys.
func (c *Config) JWKSURL() string {
	return "https://" + c.Auth0Domain + "/.well-known/jwks.json"
}

// Location is the zone used for "today" and for the job scheduler.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}
