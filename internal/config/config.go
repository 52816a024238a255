package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// MinSessionSecretLength is the minimum accepted length of SESSION_SECRET in bytes
	MinSessionSecretLength = 32
)

// Config contains server configuration parameters.
type Config struct {
	Env      string   `env:"APP_ENV" envDefault:"development"`
	HTTP     HTTP     `envPrefix:"HTTP_"`
	Database Database `envPrefix:"DATABASE_"`
	Session  Session  `envPrefix:"SESSION_"`
	OTP      OTP      `envPrefix:"OTP_"`
	SMS      SMS      `envPrefix:"SMS_"`
	Email    Email    `envPrefix:"EMAIL_"`
	Media    Media    `envPrefix:"MEDIA_"`
	Log      Log      `envPrefix:"LOG_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Database contains database connection parameters.
type Database struct {
	// Driver is either "sqlite" or "postgres"
	Driver          string        `env:"DRIVER" envDefault:"sqlite"`
	Path            string        `env:"PATH" envDefault:"./data/blog.db"`
	DSN             string        `env:"DSN"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"100"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"1h"`
}

// Session contains session token parameters. The token lifetime is fixed
// at crypto.DefaultSessionTTL and is not configurable.
type Session struct {
	Secret     string `env:"SECRET"`
	CookieName string `env:"COOKIE_NAME" envDefault:"session_token"`
}

// OTP contains one-time password parameters.
type OTP struct {
	Length         int           `env:"LENGTH" envDefault:"6"`
	TTL            time.Duration `env:"TTL" envDefault:"5m"`
	ResendCooldown time.Duration `env:"RESEND_COOLDOWN" envDefault:"30s"`
}

// SMS contains SMS delivery parameters. The "log" driver writes codes to the
// application log and is refused in production.
type SMS struct {
	Driver   string `env:"DRIVER" envDefault:"sns"`
	Region   string `env:"REGION" envDefault:"us-east-1"`
	SenderID string `env:"SENDER_ID"`
}

// Email contains email delivery parameters (AWS SES). Empty From disables notifications.
type Email struct {
	From   string `env:"FROM"`
	Region string `env:"REGION" envDefault:"us-east-1"`
}

// Media contains object storage parameters for uploaded images.
type Media struct {
	Endpoint       string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey      string `env:"ACCESS_KEY"`
	SecretKey      string `env:"SECRET_KEY"`
	Bucket         string `env:"BUCKET" envDefault:"blog-media"`
	UseSSL         bool   `env:"USE_SSL" envDefault:"false"`
	PublicBaseURL  string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:9000"`
	Folder         string `env:"FOLDER" envDefault:"blog-images"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`
}

// Log contains logger parameters.
type Log struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"console"`
}

// NewConfig loads configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks required values and ranges.
func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if len(c.Session.Secret) < MinSessionSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes", MinSessionSecretLength)
	}
	if c.OTP.Length < 4 || c.OTP.Length > 10 {
		return fmt.Errorf("OTP_LENGTH must be between 4 and 10 (got: %d)", c.OTP.Length)
	}
	if c.OTP.TTL <= 0 {
		return fmt.Errorf("OTP_TTL must be positive")
	}

	switch c.SMS.Driver {
	case "sns":
	case "log":
		if c.IsProduction() {
			return fmt.Errorf("SMS_DRIVER=log is not allowed in production")
		}
	default:
		return fmt.Errorf("unsupported SMS_DRIVER %q (allowed: sns, log)", c.SMS.Driver)
	}

	switch c.Database.Driver {
	case "sqlite":
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q (allowed: sqlite, postgres)", c.Database.Driver)
	}

	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}
