// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration; ports, TLS and log level
// live in CoreConfig.
//
// The struct is passed to every lifecycle hook, so any configuration
// needed during startup, request handling, or shutdown should live here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer tokens
	JWTSecret   string        // HS256 signing secret; empty falls back to a public default (refused in prod)
	JWTExpiry   time.Duration // lifetime of issued tokens
	JWTIssuer   string
	TokenCookie bool // also accept and set the "token" cookie

	// HTTP surface
	FrontendURL  string // the only CORS origin
	MaxBodyBytes int64
	TrustProxy   bool   // take the client IP from X-Forwarded-For / X-Real-IP
	MetricsToken string // bearer token required on /metrics; blank leaves it open

	// Per-IP rate limit on /api/*
	RateLimit  int
	RateWindow time.Duration
	RedisURL   string // blank keeps counters in process memory

	// Audit logging: "all", "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// Admin account created at startup when SeedAdminEmail is set
	SeedAdminEmail    string
	SeedAdminPassword string
	SeedAdminName     string

	// Database operation deadlines; zero keeps the built-in default
	DBTimeoutPing   time.Duration
	DBTimeoutShort  time.Duration
	DBTimeoutMedium time.Duration
	DBTimeoutLong   time.Duration

	// Domain expiry watch; a zero interval disables the worker
	ExpiryWatchInterval time.Duration
	ExpiryWatchDays     int
}
