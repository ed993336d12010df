// Package config manages environment configuration.
//
// It reads variables (optionally from a `.env` file), maps them into
// structured Go types, validates that required values are present so the app
// fails fast, and injects defaults for optional blocks.
package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a `.env` file into the process environment
	// before any env var is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// Config is the root configuration object.
//
// Env vars use the AMEX_ prefix and "." nesting, e.g.
// AMEX_SERVER.PORT -> server.port -> Config.Server.Port.
// Observability is a pointer because it is optional; defaults are injected
// when absent.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Storage       StorageConfig        `koanf:"storage"`
	Deal          DealConfig           `koanf:"deal"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups HTTP server runtime settings. Timeouts are seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details ("host:port").
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig stores the Clerk secret key and the dev-only admin secret that
// guards category creation.
type AuthConfig struct {
	SecretKey   string `koanf:"secret_key" validate:"required"`
	AdminSecret string `koanf:"admin_secret"`
}

// IntegrationConfig holds third-party provider credentials.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	EmailFrom    string `koanf:"email_from"`
}

// StorageConfig controls image upload handling.
type StorageConfig struct {
	UploadDir     string `koanf:"upload_dir"`
	MaxUploadMB   int64  `koanf:"max_upload_mb"`
	PublicBaseURL string `koanf:"public_base_url"`
}

// DealConfig tunes the handoff verification workflow.
type DealConfig struct {
	// OTPTTLMinutes is how long a generated handoff code stays valid.
	OTPTTLMinutes int `koanf:"otp_ttl_minutes"`

	// OTPMaxAttempts bounds verification attempts per window.
	OTPMaxAttempts int `koanf:"otp_max_attempts"`

	// OTPAttemptWindowMinutes is the attempt-counting window.
	OTPAttemptWindowMinutes int `koanf:"otp_attempt_window_minutes"`

	// SweepSchedule is a cron expression for the stale-deal sweep.
	SweepSchedule string `koanf:"sweep_schedule"`

	// SweepAfterDays is how long an unverified pending deal may linger
	// before the sweep declines it.
	SweepAfterDays int `koanf:"sweep_after_days"`
}

// LoadConfig loads configuration from the environment, unmarshals it,
// validates it, and applies defaults. Missing required values are fatal:
// there is no sane way to run without them.
func LoadConfig() (*Config, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	k := koanf.New(".")

	err := k.Load(env.Provider("AMEX_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "AMEX_"))
	}), nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("Could not load initial env variables.")
	}

	mainConfig := &Config{}
	if err = k.Unmarshal("", mainConfig); err != nil {
		logger.Fatal().Err(err).Msg("Could not unmarshal main config.")
	}

	validate := validator.New()
	if err = validate.Struct(mainConfig); err != nil {
		logger.Fatal().Err(err).Msg("Config validation failed.")
	}

	mainConfig.applyDefaults()

	// Service name and environment are forced so telemetry stays consistent
	// regardless of what the env provides.
	mainConfig.Observability.ServiceName = "amex"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid observability config")
	}

	return mainConfig, nil
}

func (c *Config) applyDefaults() {
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}

	if c.Storage.UploadDir == "" {
		c.Storage.UploadDir = "uploads"
	}
	if c.Storage.MaxUploadMB <= 0 {
		c.Storage.MaxUploadMB = 5
	}

	if c.Integration.EmailFrom == "" {
		c.Integration.EmailFrom = "amEx <onboarding@resend.dev>"
	}

	if c.Deal.OTPTTLMinutes <= 0 {
		c.Deal.OTPTTLMinutes = 15
	}
	if c.Deal.OTPMaxAttempts <= 0 {
		c.Deal.OTPMaxAttempts = 5
	}
	if c.Deal.OTPAttemptWindowMinutes <= 0 {
		c.Deal.OTPAttemptWindowMinutes = 15
	}
	if c.Deal.SweepSchedule == "" {
		c.Deal.SweepSchedule = "@hourly"
	}
	if c.Deal.SweepAfterDays <= 0 {
		c.Deal.SweepAfterDays = 7
	}
}
