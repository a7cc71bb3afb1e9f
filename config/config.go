// Package config loads application configuration from environment
// variables, with a .env file picked up in development. Every setting has
// a default so a bare `eduguard-server` run works against the bundled
// sample roster.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/eduguard-hub/eduguard-core/internal/domain/risk"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Roster source kinds.
const (
	RosterSourceJSON     = "json"
	RosterSourcePostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	// Application
	App AppConfig

	// Risk model cut-points
	Thresholds risk.Thresholds

	// Roster data source
	Roster RosterConfig

	// Redis (stats cache)
	Redis RedisConfig

	// SMTP (alert delivery)
	SMTP SMTPConfig

	// HTTP interface
	HTTP HTTPConfig

	// Observability
	Observability ObservabilityConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string
	Environment Environment
	Debug       bool
	Version     string

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration
}

// RosterConfig selects and configures the roster data source.
type RosterConfig struct {
	// Source is "json" or "postgres".
	Source string

	// StudentsPath / TeachersPath are the JSON file locations when
	// Source is "json", and optional seed files when Source is "postgres".
	StudentsPath string
	TeachersPath string

	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string

	// SeedFromJSON imports the JSON files into PostgreSQL on startup.
	SeedFromJSON bool
}

// RedisConfig holds Redis connection settings for the stats cache.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int

	PoolSize int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// StatsTTL is how long a cached cohort snapshot stays fresh.
	StatsTTL time.Duration

	// Disabled runs without Redis; every stats query recomputes.
	Disabled bool
}

// SMTPConfig holds alert delivery settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration

	// Disabled swaps the SMTP channel for a log-only channel.
	Disabled bool
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Host string
	Port int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	EnableCORS         bool
	AllowedOrigins     []string
	RateLimitPerMinute int
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel string // debug, info, warn, error
}

// Load loads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App:           loadAppConfig(),
		Thresholds:    loadThresholds(),
		Roster:        loadRosterConfig(),
		Redis:         loadRedisConfig(),
		SMTP:          loadSMTPConfig(),
		HTTP:          loadHTTPConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func loadAppConfig() AppConfig {
	env := Environment(getEnv("APP_ENV", "development"))
	return AppConfig{
		Name:            getEnv("APP_NAME", "eduguard-core"),
		Environment:     env,
		Debug:           env == EnvDevelopment || getEnvBool("APP_DEBUG", false),
		Version:         getEnv("APP_VERSION", "0.1.0"),
		ShutdownTimeout: getEnvDuration("APP_SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func loadThresholds() risk.Thresholds {
	defaults := risk.DefaultThresholds()
	return risk.Thresholds{
		AttendanceRed:    getEnvFloat("THRESHOLD_ATTENDANCE_RED", defaults.AttendanceRed),
		AttendanceYellow: getEnvFloat("THRESHOLD_ATTENDANCE_YELLOW", defaults.AttendanceYellow),
		MarksRed:         getEnvFloat("THRESHOLD_MARKS_RED", defaults.MarksRed),
		MarksYellow:      getEnvFloat("THRESHOLD_MARKS_YELLOW", defaults.MarksYellow),
		FeeOverdueRed:    getEnvInt("THRESHOLD_FEE_OVERDUE_RED", defaults.FeeOverdueRed),
		FeeOverdueYellow: getEnvInt("THRESHOLD_FEE_OVERDUE_YELLOW", defaults.FeeOverdueYellow),
	}
}

func loadRosterConfig() RosterConfig {
	url := getEnv("DATABASE_URL", "")
	if url == "" {
		host := getEnv("DB_HOST", "")
		port := getEnv("DB_PORT", "5432")
		user := getEnv("DB_USER", "")
		pass := getEnv("DB_PASSWORD", "")
		name := getEnv("DB_NAME", "eduguard")
		sslmode := getEnv("DB_SSLMODE", "disable")

		if host != "" && user != "" {
			url = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
				user, pass, host, port, name, sslmode)
		}
	}

	return RosterConfig{
		Source:       strings.ToLower(getEnv("ROSTER_SOURCE", RosterSourceJSON)),
		StudentsPath: getEnv("ROSTER_STUDENTS_PATH", "data/students.json"),
		TeachersPath: getEnv("ROSTER_TEACHERS_PATH", ""),
		DatabaseURL:  url,
		SeedFromJSON: getEnvBool("ROSTER_SEED_FROM_JSON", false),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Host:         getEnv("REDIS_HOST", "localhost"),
		Port:         getEnvInt("REDIS_PORT", 6379),
		Password:     getEnv("REDIS_PASSWORD", ""),
		DB:           getEnvInt("REDIS_DB", 0),
		PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
		DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		StatsTTL:     getEnvDuration("REDIS_STATS_TTL", 5*time.Minute),
		Disabled:     getEnvBool("REDIS_DISABLED", true),
	}
}

func loadSMTPConfig() SMTPConfig {
	return SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     getEnvInt("SMTP_PORT", 587),
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", ""),
		Timeout:  getEnvDuration("SMTP_TIMEOUT", 15*time.Second),
		Disabled: getEnvBool("SMTP_DISABLED", true),
	}
}

func loadHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Host:               getEnv("HTTP_HOST", "0.0.0.0"),
		Port:               getEnvInt("HTTP_PORT", 8080),
		ReadTimeout:        getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:       getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:        getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		EnableCORS:         getEnvBool("HTTP_ENABLE_CORS", true),
		AllowedOrigins:     getEnvSlice("HTTP_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitPerMinute: getEnvInt("HTTP_RATE_LIMIT_PER_MINUTE", 100),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	if err := c.Thresholds.Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	switch c.Roster.Source {
	case RosterSourceJSON:
		if c.Roster.StudentsPath == "" {
			errs = append(errs, "ROSTER_STUDENTS_PATH is required for the json roster source")
		}
	case RosterSourcePostgres:
		if c.Roster.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required for the postgres roster source")
		}
	default:
		errs = append(errs, fmt.Sprintf("ROSTER_SOURCE must be %q or %q", RosterSourceJSON, RosterSourcePostgres))
	}

	if !c.SMTP.Disabled {
		if c.SMTP.Host == "" {
			errs = append(errs, "SMTP_HOST is required unless SMTP_DISABLED=true")
		}
		if c.SMTP.From == "" {
			errs = append(errs, "SMTP_FROM is required unless SMTP_DISABLED=true")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvFloat(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvSlice(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
