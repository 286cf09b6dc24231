package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":3000"
	ShutdownTimeout time.Duration // ex: 5s
	Environment     string        // "development" | "production"

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Database
	DBHost        string
	DBPort        int
	DBUser        string
	DBPassword    string
	DBName        string
	DBPoolSize    int           // max concurrent connections (default: 10)
	DBConnTimeout time.Duration // timeout for the initial connect/ping

	// Admin gate
	AdminID       string        // the single administrator identity
	AdminPassword string        // its password, compared verbatim
	JWTSecret     string        // HS256 signing secret
	TokenTTL      time.Duration // signed token lifetime (default: 24h)

	// Metadata fetcher
	FetchTimeout time.Duration // outbound page fetch timeout (default: 10s)

	// Update semantics
	StrictRating bool // true => reject out-of-range ratings instead of falling back

	// HTTP access
	CORSOrigin   string   // allowed cross-origin source
	AllowedHosts []string // optional, restrict access to specific Host headers
	TrustProxy   bool     // true => trust X-Forwarded-For headers

	// Rate limiting (per client IP, token bucket)
	RateLimitBurst  int
	RateLimitPerMin int
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      normalizePort(getenv("PORT", "3000")),
		ShutdownTimeout: mustDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
		Environment:     getenv("APP_ENV", "development"),

		// Logging
		LogLevel:  getenv("LOG_LEVEL", "info"),
		PrettyLog: mustBool("PRETTY_LOG", true),

		// Database settings
		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenvInt("DB_PORT", 5432),
		DBUser:        getenv("DB_USER", "postgres"),
		DBPassword:    getenv("DB_PASSWORD", ""),
		DBName:        getenv("DB_NAME", "recipejar"),
		DBPoolSize:    getenvInt("DB_POOL_SIZE", 10),
		DBConnTimeout: mustDuration("DB_CONN_TIMEOUT", 5*time.Second),

		// Admin gate
		AdminID:       requireEnv("ADMIN_ID"),
		AdminPassword: requireEnv("ADMIN_PASSWORD"),
		JWTSecret:     requireEnv("JWT_SECRET"),
		TokenTTL:      mustDuration("TOKEN_TTL", 24*time.Hour),

		// Metadata fetcher
		FetchTimeout: mustDuration("FETCH_TIMEOUT", 10*time.Second),

		// Update semantics
		StrictRating: mustBool("STRICT_RATING", false),

		// HTTP access
		CORSOrigin:   getenv("CORS_ORIGIN", "http://localhost:3000"),
		AllowedHosts: splitAndTrim(getenv("ALLOWED_HOSTS", "")),
		TrustProxy:   mustBool("TRUST_PROXY", false),

		// Rate limiting
		RateLimitBurst:  getenvInt("RATE_LIMIT_BURST", 100),
		RateLimitPerMin: getenvInt("RATE_LIMIT_PER_MIN", 7),
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// normalizePort accepts "3000" or ":3000" and always returns the ":port" form.
func normalizePort(p string) string {
	if strings.HasPrefix(p, ":") {
		return p
	}
	return ":" + p
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
