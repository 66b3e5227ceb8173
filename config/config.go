package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Partial odontogram policies, applied when a history holds between 1 and 31 teeth.
const (
	PartialPolicyTopUp  = "topup"
	PartialPolicyReject = "reject"
	PartialPolicyWarn   = "warn"
)

// AppConfig holds the application configuration
type AppConfig struct {
	Port       string        `mapstructure:"PORT"`
	Env        string        `mapstructure:"ENV"`
	DBURL      string        `mapstructure:"DB_URL"`
	DBMaxOpen  int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdle  int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME"`

	RedisAddress      string        `mapstructure:"REDIS_URL"`
	RedisPoolSize     int           `mapstructure:"REDIS_POOL_SIZE"`
	RedisMinIdleConns int           `mapstructure:"REDIS_MIN_IDLE_CONNS"`
	RedisDialTimeout  time.Duration `mapstructure:"REDIS_DIAL_TIMEOUT"`
	RedisReadTimeout  time.Duration `mapstructure:"REDIS_READ_TIMEOUT"`
	RedisMaxRetries   int           `mapstructure:"REDIS_MAX_RETRIES"`

	SymmetricKey string `mapstructure:"SYMMETRIC_KEY"`

	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`

	SMTPHost string `mapstructure:"SMTP_HOST"`
	SMTPPort int    `mapstructure:"SMTP_PORT"`
	SMTPUser string `mapstructure:"SMTP_USER"`
	SMTPPass string `mapstructure:"SMTP_PASS"`

	DefaultPhoneRegion string `mapstructure:"DEFAULT_PHONE_REGION"`
	PartialTeethPolicy string `mapstructure:"PROVISIONING_PARTIAL_POLICY"`

	LogLevel      string `mapstructure:"LOG_LEVEL"`
	LogFormat     string `mapstructure:"LOG_FORMAT"`
	LogFile       string `mapstructure:"LOG_FILE"`
	LogMaxSizeMB  int    `mapstructure:"LOG_MAX_SIZE_MB"`
	LogMaxBackups int    `mapstructure:"LOG_MAX_BACKUPS"`
	LogMaxAgeDays int    `mapstructure:"LOG_MAX_AGE_DAYS"`
}

var envKeys = []string{
	"PORT", "ENV", "DB_URL", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME",
	"REDIS_URL", "REDIS_POOL_SIZE", "REDIS_MIN_IDLE_CONNS", "REDIS_DIAL_TIMEOUT",
	"REDIS_READ_TIMEOUT", "REDIS_MAX_RETRIES",
	"SYMMETRIC_KEY", "CORS_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS",
	"DEFAULT_PHONE_REGION", "PROVISIONING_PARTIAL_POLICY",
	"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "LOG_MAX_SIZE_MB", "LOG_MAX_BACKUPS", "LOG_MAX_AGE_DAYS",
}

// Load reads configuration from the environment, falling back to an optional .env file.
func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8930")
	v.SetDefault("ENV", "production")
	v.SetDefault("DB_MAX_OPEN_CONNS", 40)
	v.SetDefault("DB_MAX_IDLE_CONNS", 20)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "10m")
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 5)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "30s")
	v.SetDefault("REDIS_READ_TIMEOUT", "10s")
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 15)
	v.SetDefault("RATE_LIMIT_BURST", 30)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("DEFAULT_PHONE_REGION", "MX")
	v.SetDefault("PROVISIONING_PARTIAL_POLICY", PartialPolicyTopUp)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_MAX_SIZE_MB", 50)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("LOG_MAX_AGE_DAYS", 28)

	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	// A missing .env file is fine; the environment alone may be enough.
	_ = v.ReadInConfig()

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.CORSOrigins) == 1 && strings.Contains(cfg.CORSOrigins[0], ",") {
		cfg.CORSOrigins = strings.Split(cfg.CORSOrigins[0], ",")
	}
	for i, origin := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(origin)
	}
	cfg.PartialTeethPolicy = strings.ToLower(strings.TrimSpace(cfg.PartialTeethPolicy))

	return cfg, nil
}

// Validate checks the settings required to run the HTTP server.
func (c *AppConfig) Validate() error {
	if c.DBURL == "" {
		return fmt.Errorf("missing DB_URL environment variable")
	}
	if c.RedisAddress == "" {
		return fmt.Errorf("missing REDIS_URL environment variable")
	}
	if len(c.SymmetricKey) != 32 {
		return fmt.Errorf("SYMMETRIC_KEY must be 32 bytes long, got %d", len(c.SymmetricKey))
	}
	switch c.PartialTeethPolicy {
	case PartialPolicyTopUp, PartialPolicyReject, PartialPolicyWarn:
	default:
		return fmt.Errorf("PROVISIONING_PARTIAL_POLICY must be %q, %q or %q, got %q",
			PartialPolicyTopUp, PartialPolicyReject, PartialPolicyWarn, c.PartialTeethPolicy)
	}
	return nil
}

// IsDev reports whether the service runs in development mode.
func (c *AppConfig) IsDev() bool {
	return c.Env == "development"
}
