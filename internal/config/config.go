package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	RedisURL           string
	CORSAllowedOrigins []string
	KeyPrefix          string
	QuoteExpiryDays    int
	SessionTTL         time.Duration
	RateLimit          string
	CompanyName        string
	CompanyAddress     []string
	CompanyPhone       string
	SignatoryName      string
	SignatoryTitle     string
}

// Load reads configuration from environment variables and optional .env files.
// REDIS_URL is optional: without it the service keeps all state in memory and
// nothing survives a restart.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		RedisURL:           strings.TrimSpace(k.String("REDIS_URL")),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		KeyPrefix:          valueOrDefault(k.String("STORE_KEY_PREFIX"), "orderform"),
		QuoteExpiryDays:    intOrDefault(k.Int("QUOTE_EXPIRY_DAYS"), 14),
		SessionTTL:         parseDuration(k.String("SESSION_TTL"), "720h"),
		RateLimit:          valueOrDefault(k.String("RATE_LIMIT"), "300-M"),
		CompanyName:        valueOrDefault(k.String("COMPANY_NAME"), "Folio Services, Inc."),
		CompanyAddress:     addressOrDefault(splitAndTrim(k.String("COMPANY_ADDRESS"))),
		CompanyPhone:       valueOrDefault(k.String("COMPANY_PHONE"), "1-855-943-2285"),
		SignatoryName:      valueOrDefault(k.String("SIGNATORY_NAME"), "Kate Adamson"),
		SignatoryTitle:     valueOrDefault(k.String("SIGNATORY_TITLE"), "Co-founder & CEO"),
	}

	if cfg.QuoteExpiryDays < 0 {
		return nil, fmt.Errorf("QUOTE_EXPIRY_DAYS must not be negative")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func addressOrDefault(lines []string) []string {
	if len(lines) > 0 {
		return lines
	}
	return []string{"3600 North Duke St", "Suite 1 #1197", "Durham, NC 27704"}
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func intOrDefault(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
