// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// BackendConfig provides the LeadService connection settings.
type BackendConfig interface {
	GetBackendURL() string
	GetBackendTimeout() time.Duration
}

// ListingConfig provides settings for the lead dashboard.
type ListingConfig interface {
	GetPageLimit() int
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// SessionConfig provides settings for the flash session cookie.
type SessionConfig interface {
	GetSessionSecret() []byte
	GetSessionSecure() bool
	GetSessionSameSite() http.SameSite
}

// SubmitConfig provides settings for lead form submission.
type SubmitConfig interface {
	GetSubmitRatePerMinute() float64
	GetSubmitBurst() int
}

// DisplayConfig provides settings for rendering lead fields.
type DisplayConfig interface {
	GetPhoneRegion() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                 string
	HTTPAddr            string
	BackendURL          string
	BackendTimeout      time.Duration
	PageLimit           int
	SessionSecret       string
	SessionSecure       bool
	SessionSameSite     http.SameSite
	CORSAllowAll        bool
	CORSOrigins         []string
	SubmitRatePerMinute float64
	SubmitBurst         int
	PhoneRegion         string
	LogFile             string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// BackendConfig implementation
func (c *Config) GetBackendURL() string            { return c.BackendURL }
func (c *Config) GetBackendTimeout() time.Duration { return c.BackendTimeout }

// ListingConfig implementation
func (c *Config) GetPageLimit() int { return c.PageLimit }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// SessionConfig implementation
func (c *Config) GetSessionSecret() []byte          { return []byte(c.SessionSecret) }
func (c *Config) GetSessionSecure() bool            { return c.SessionSecure }
func (c *Config) GetSessionSameSite() http.SameSite { return c.SessionSameSite }

// SubmitConfig implementation
func (c *Config) GetSubmitRatePerMinute() float64 { return c.SubmitRatePerMinute }
func (c *Config) GetSubmitBurst() int             { return c.SubmitBurst }

// DisplayConfig implementation
func (c *Config) GetPhoneRegion() string { return c.PhoneRegion }

// IsDevelopment reports whether the app runs with development defaults.
func (c *Config) IsDevelopment() bool { return strings.EqualFold(c.Env, "development") }

// devSessionSecret is only ever used when APP_ENV=development.
const devSessionSecret = "leadportal-development-session-secret-32b"

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "development")
	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	sessionSecure := strings.EqualFold(getEnv("SESSION_SECURE", ""), "true")
	if getEnv("SESSION_SECURE", "") == "" {
		sessionSecure = strings.EqualFold(env, "production")
	}

	cfg := &Config{
		Env:                 env,
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		BackendURL:          strings.TrimRight(getEnv("BACKEND_URL", ""), "/"),
		BackendTimeout:      mustDuration(getEnv("BACKEND_TIMEOUT", "10s")),
		PageLimit:           mustInt(getEnv("PAGE_LIMIT", "5")),
		SessionSecret:       getEnv("SESSION_SECRET", ""),
		SessionSecure:       sessionSecure,
		SessionSameSite:     parseSameSite(getEnv("SESSION_SAMESITE", "Lax")),
		CORSAllowAll:        corsAllowAll,
		CORSOrigins:         corsOrigins,
		SubmitRatePerMinute: mustFloat(getEnv("SUBMIT_RATE_PER_MINUTE", "10")),
		SubmitBurst:         mustInt(getEnv("SUBMIT_BURST", "5")),
		PhoneRegion:         strings.ToUpper(getEnv("PHONE_REGION", "IN")),
		LogFile:             getEnv("LOG_FILE", ""),
	}

	if cfg.SessionSecret == "" && cfg.IsDevelopment() {
		cfg.SessionSecret = devSessionSecret
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	if !strings.HasPrefix(c.BackendURL, "http://") && !strings.HasPrefix(c.BackendURL, "https://") {
		return fmt.Errorf("BACKEND_URL must be an http(s) URL")
	}
	if c.BackendTimeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be a positive duration")
	}
	if c.PageLimit < 1 {
		return fmt.Errorf("PAGE_LIMIT must be at least 1")
	}
	if len(c.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 bytes")
	}
	if c.SubmitRatePerMinute <= 0 || c.SubmitBurst < 1 {
		return fmt.Errorf("SUBMIT_RATE_PER_MINUTE and SUBMIT_BURST must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}

func parseSameSite(value string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "none":
		return http.SameSiteNoneMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteLaxMode
	}
}
