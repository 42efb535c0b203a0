// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
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

	// ResendAPIKey authenticates against the transactional email provider. Required.
	ResendAPIKey string

	// EmailFrom is the From address on all outbound notification email. Required.
	EmailFrom string

	// PublicBaseURL is used to build links and asset URLs inside emails.
	// Defaults to "http://localhost:3000".
	PublicBaseURL string

	// EmailTestMode, when true, redirects all client-facing email to
	// EmailTestInbox while logging the real intended recipient.
	EmailTestMode bool

	// EmailTestInbox receives redirected email in test mode.
	// Defaults to "delivered@resend.dev".
	EmailTestInbox string

	// StorageURL is the base URL of the object storage API. Required.
	StorageURL string

	// StorageKey authenticates storage upload and signing requests. Required.
	StorageKey string

	// StorageBucket is the bucket holding listing photos. Defaults to "car-photos".
	StorageBucket string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
		EmailTestMode:  os.Getenv("EMAIL_TEST_MODE") == "true",
		EmailTestInbox: getEnv("EMAIL_TEST_INBOX", "delivered@resend.dev"),
		StorageBucket:  getEnv("STORAGE_BUCKET", "car-photos"),
	}

	var missing []string

	for _, req := range []struct {
		name string
		dst  *string
	}{
		{"DATABASE_URL", &cfg.DatabaseURL},
		{"RESEND_API_KEY", &cfg.ResendAPIKey},
		{"EMAIL_FROM", &cfg.EmailFrom},
		{"STORAGE_URL", &cfg.StorageURL},
		{"STORAGE_KEY", &cfg.StorageKey},
	} {
		*req.dst = os.Getenv(req.name)
		if *req.dst == "" {
			missing = append(missing, req.name)
		}
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
