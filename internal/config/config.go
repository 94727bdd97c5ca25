// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:3000"] (Next.js dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// JWTSecret signs session tokens. Required.
	JWTSecret string

	// TokenTTL is the lifetime of an issued session token. Defaults to 24h.
	TokenTTL time.Duration

	// SMTP settings for the notification sender. When SMTPHost is empty the
	// server runs with a no-op sender and logs reminders instead of mailing.
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	// SweepInterval is how often the in-process reminder sweep runs.
	// Defaults to 1m. The sweep can also be triggered over HTTP.
	SweepInterval time.Duration

	// SweepSendTimeout bounds a single notification send so one slow SMTP
	// conversation cannot stall the remaining due reminders. Defaults to 10s.
	SweepSendTimeout time.Duration

	// SweepBatchSize is the maximum number of reminders claimed per sweep.
	// Defaults to 50.
	SweepBatchSize int

	// RearmSentReminders controls whether moving a reservation's cancellation
	// date after its reminder was already sent resets the reminder to unsent.
	// Defaults to false: a sent reminder stays sent.
	RearmSentReminders bool
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		TokenTTL:         getEnvDuration("TOKEN_TTL", 24*time.Hour),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		SMTPUser:         os.Getenv("SMTP_USER"),
		SMTPPass:         os.Getenv("SMTP_PASS"),
		MailFrom:         getEnv("MAIL_FROM", "noreply@wanderwise.app"),
		SweepInterval:    getEnvDuration("SWEEP_INTERVAL", time.Minute),
		SweepSendTimeout: getEnvDuration("SWEEP_SEND_TIMEOUT", 10*time.Second),
		SweepBatchSize:   getEnvInt("SWEEP_BATCH_SIZE", 50),
	}

	cfg.RearmSentReminders = getEnvBool("REMINDER_REARM_SENT", false)

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt parses the named variable as an integer, falling back on
// absence or a parse failure.
func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// getEnvBool parses the named variable with strconv.ParseBool semantics.
func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// getEnvDuration parses the named variable as a time.Duration (e.g. "30s").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
