package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/moodtrack/moodtrack-api/shared/mailer"
)

// Config holds the process-wide configuration, loaded once at startup and
// passed explicitly to the components that need it.
type Config struct {
	AppEnv   string `env:"APP_ENV"   envDefault:"development"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:"0.0.0.0:5000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	MongoURI      string `env:"MONGODB_URI"      envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"moodtrack"`

	Token  TokenConfig
	Cookie CookieConfig

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	SMTP mailer.Config
}

// TokenConfig configures the session token issuer. Rotating the secret
// invalidates every outstanding session.
type TokenConfig struct {
	Secret    string        `env:"JWT_SECRET"`
	ExpiresIn time.Duration `env:"JWT_EXPIRES_IN" envDefault:"720h"`
	Issuer    string        `env:"JWT_ISSUER"     envDefault:"moodtrack-api"`
}

// CookieConfig controls environment-dependent session cookie attributes.
type CookieConfig struct {
	Domain string `env:"COOKIE_DOMAIN" envDefault:"localhost"`
}

// Load reads configuration from the environment, after loading a local .env
// file when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// IsProduction reports whether the process runs with production hardening
// (secure cookies, JSON logs).
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) validate() error {
	if c.Token.Secret == "" {
		return fmt.Errorf("missing JWT_SECRET environment variable")
	}
	if c.Token.ExpiresIn <= 0 {
		return fmt.Errorf("JWT_EXPIRES_IN must be a positive duration")
	}
	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGODB_URI environment variable")
	}

	return nil
}
