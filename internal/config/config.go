// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Streaming provider registry — TMDb watch-provider ids
// --------------------------------------------------------------------------

type Provider struct {
	ID   int
	Name string
}

var ProviderRegistry = map[int]Provider{
	8:   {ID: 8, Name: "Netflix"},
	9:   {ID: 9, Name: "Amazon Prime Video"},
	337: {ID: 337, Name: "Disney+"},
	384: {ID: 384, Name: "HBO Max"},
	350: {ID: 350, Name: "Apple TV+"},
	531: {ID: 531, Name: "Paramount+"},
}

// DefaultProviderIDs is the provider set synced when --providers is omitted.
var DefaultProviderIDs = []int{8, 9, 337, 350, 384, 531}

// LegacyProviderID is the provider whose offers still populate the
// on_netflix/netflix_url columns kept for older clients.
const LegacyProviderID = 8

// ProviderName resolves a provider id to its registry name, falling back to
// the name the upstream reported.
func ProviderName(id int, upstream string) string {
	if p, ok := ProviderRegistry[id]; ok {
		return p.Name
	}
	if upstream != "" {
		return upstream
	}
	return fmt.Sprintf("Provider %d", id)
}

// --------------------------------------------------------------------------
// Country registry
// --------------------------------------------------------------------------

type Country struct {
	Code string
	Name string
}

var Countries = []Country{
	{Code: "SE", Name: "Sweden"},
	{Code: "US", Name: "United States"},
	{Code: "GB", Name: "United Kingdom"},
	{Code: "DE", Name: "Germany"},
	{Code: "CA", Name: "Canada"},
	{Code: "FR", Name: "France"},
	{Code: "IT", Name: "Italy"},
	{Code: "ES", Name: "Spain"},
	{Code: "NL", Name: "Netherlands"},
	{Code: "ZA", Name: "South Africa"},
}

// IsSupportedCountry reports whether code is in the country registry.
func IsSupportedCountry(code string) bool {
	for _, c := range Countries {
		if c.Code == code {
			return true
		}
	}
	return false
}

// --------------------------------------------------------------------------
// Table names — single source of truth, matches schema.sql
// --------------------------------------------------------------------------

const MoviesTable = "movies"

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production

	// CORS
	CORSAllowOrigins []string

	// API rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// External API keys
	TMDBAPIKey string
	OMDBAPIKey string

	// Upstream throttling
	TMDBMaxInFlight int
	OMDBMaxInFlight int
	OMDBMinInterval time.Duration

	// Bounded retry on transport errors / 5xx. 1 = single attempt.
	HTTPRetryAttempts int

	// Cache
	CacheEnabled bool
}

// MissingEnvError reports every required environment variable that is unset,
// so callers can print one diagnostic line per variable.
type MissingEnvError struct {
	Vars []string
}

func (e *MissingEnvError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Vars, ", ")
}

// Load reads configuration from environment variables with sensible defaults.
// Every required variable is checked before returning so a single run
// reports all missing ones at once.
func Load() (*Config, error) {
	var missing []string
	for _, key := range []string{"TMDB_API_KEY", "OMDB_API_KEY"} {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	dbURL := envOr("DATABASE_URL", envOr("SUPABASE_DB_URL", ""))
	if dbURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return nil, &MissingEnvError{Vars: missing}
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		TMDBAPIKey: os.Getenv("TMDB_API_KEY"),
		OMDBAPIKey: os.Getenv("OMDB_API_KEY"),

		TMDBMaxInFlight: envInt("TMDB_MAX_IN_FLIGHT", 50),
		OMDBMaxInFlight: envInt("OMDB_MAX_IN_FLIGHT", 10),
		OMDBMinInterval: time.Duration(envInt("OMDB_MIN_INTERVAL_MS", 100)) * time.Millisecond,

		HTTPRetryAttempts: envInt("HTTP_RETRY_ATTEMPTS", 1),

		CacheEnabled: envBool("CACHE_ENABLED", true),
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
