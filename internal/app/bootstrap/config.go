// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/hostpro/internal/app/system/auditlog"
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/app/system/limits"
	"github.com/dalemusser/hostpro/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for HostPro.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: HOSTPRO_MONGO_URI, HOSTPRO_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "hostpro", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// Bearer tokens
	{Name: "jwt_secret", Default: "", Desc: "HS256 token signing secret (required in production)"},
	{Name: "jwt_expiry", Default: "24h", Desc: "Lifetime of issued tokens (e.g., 24h, 90m)"},
	{Name: "jwt_issuer", Default: "hostpro", Desc: "Token issuer claim"},
	{Name: "token_cookie", Default: true, Desc: "Accept and set the 'token' cookie alongside the Authorization header"},

	// HTTP surface
	{Name: "frontend_url", Default: "http://localhost:3000", Desc: "Allowed CORS origin"},
	{Name: "max_body_bytes", Default: int(limits.DefaultMaxJSONBody), Desc: "Maximum request body size in bytes"},
	{Name: "trust_proxy", Default: false, Desc: "Trust X-Forwarded-For/X-Real-IP for the client IP (only behind a proxy that sets them)"},
	{Name: "metrics_token", Default: "", Desc: "Bearer token required to scrape /metrics (blank = open; keep /metrics internal)"},

	// Rate limiting
	{Name: "rate_limit", Default: 100, Desc: "Requests allowed per IP per window on /api"},
	{Name: "rate_window", Default: "15m", Desc: "Rate limit window"},
	{Name: "redis_url", Default: "", Desc: "Redis URL for shared rate limit counters (blank = in-memory)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Admin bootstrap
	{Name: "seed_admin_email", Default: "", Desc: "Email of an admin to create on startup if missing"},
	{Name: "seed_admin_password", Default: "", Desc: "Password for the seeded admin"},
	{Name: "seed_admin_name", Default: "Admin User", Desc: "Display name for the seeded admin"},

	// Database deadlines
	{Name: "db_timeout_ping", Default: timeouts.DefaultPing.String(), Desc: "Deadline for health-check pings"},
	{Name: "db_timeout_short", Default: timeouts.DefaultShort.String(), Desc: "Deadline for single-document operations"},
	{Name: "db_timeout_medium", Default: timeouts.DefaultMedium.String(), Desc: "Deadline for list queries"},
	{Name: "db_timeout_long", Default: timeouts.DefaultLong.String(), Desc: "Deadline for aggregations and connect"},

	// Background workers
	{Name: "expiry_watch_interval", Default: "1h", Desc: "How often to scan for expiring domains (0 disables)"},
	{Name: "expiry_watch_days", Default: 30, Desc: "Days ahead a domain counts as expiring"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, HOSTPRO_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "HOSTPRO", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:   appValues.String("jwt_secret"),
		JWTExpiry:   appValues.Duration("jwt_expiry", auth.DefaultTokenExpiry),
		JWTIssuer:   appValues.String("jwt_issuer"),
		TokenCookie: appValues.Bool("token_cookie"),

		FrontendURL:  appValues.String("frontend_url"),
		MaxBodyBytes: limits.BodyLimit(int64(appValues.Int("max_body_bytes"))),
		TrustProxy:   appValues.Bool("trust_proxy"),
		MetricsToken: appValues.String("metrics_token"),

		RateLimit:  appValues.Int("rate_limit"),
		RateWindow: appValues.Duration("rate_window", 15*time.Minute),
		RedisURL:   appValues.String("redis_url"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		SeedAdminEmail:    appValues.String("seed_admin_email"),
		SeedAdminPassword: appValues.String("seed_admin_password"),
		SeedAdminName:     appValues.String("seed_admin_name"),

		DBTimeoutPing:   appValues.Duration("db_timeout_ping", timeouts.DefaultPing),
		DBTimeoutShort:  appValues.Duration("db_timeout_short", timeouts.DefaultShort),
		DBTimeoutMedium: appValues.Duration("db_timeout_medium", timeouts.DefaultMedium),
		DBTimeoutLong:   appValues.Duration("db_timeout_long", timeouts.DefaultLong),

		ExpiryWatchInterval: appValues.Duration("expiry_watch_interval", time.Hour),
		ExpiryWatchDays:     appValues.Int("expiry_watch_days"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// A missing or default token secret is tolerated outside production, with
// a warning, and refused in it.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.JWTSecret == "" || appCfg.JWTSecret == auth.FallbackSecret {
		if coreCfg.Env == "prod" {
			return errors.New("jwt_secret must be set to a private value in production")
		}
		logger.Warn("jwt_secret not set; signing tokens with the public fallback secret")
	}

	for key, mode := range map[string]string{
		"audit_log_auth":  appCfg.AuditLogAuth,
		"audit_log_admin": appCfg.AuditLogAdmin,
	} {
		switch mode {
		case "", auditlog.ModeAll, auditlog.ModeDB, auditlog.ModeLog, auditlog.ModeOff:
		default:
			return fmt.Errorf("%s must be one of all, db, log, off (got %q)", key, mode)
		}
	}

	if appCfg.RateLimit < 1 || appCfg.RateWindow <= 0 {
		return fmt.Errorf("rate_limit must be at least 1 and rate_window positive (got %d per %s)",
			appCfg.RateLimit, appCfg.RateWindow)
	}
	if appCfg.RedisURL != "" {
		if _, err := redis.ParseURL(appCfg.RedisURL); err != nil {
			return fmt.Errorf("invalid redis_url: %w", err)
		}
	}

	if appCfg.ExpiryWatchInterval < 0 || appCfg.ExpiryWatchDays < 1 {
		return fmt.Errorf("expiry_watch_interval must not be negative and expiry_watch_days must be at least 1 (got %s, %d)",
			appCfg.ExpiryWatchInterval, appCfg.ExpiryWatchDays)
	}

	if appCfg.SeedAdminEmail != "" && len(appCfg.SeedAdminPassword) < auth.MinPasswordLength {
		return fmt.Errorf("seed_admin_password must be at least %d characters when seed_admin_email is set",
			auth.MinPasswordLength)
	}

	return nil
}

// timeoutConfig maps the db_timeout_* keys onto the timeouts package.
func (c AppConfig) timeoutConfig() timeouts.Config {
	return timeouts.Config{
		Ping:   c.DBTimeoutPing,
		Short:  c.DBTimeoutShort,
		Medium: c.DBTimeoutMedium,
		Long:   c.DBTimeoutLong,
	}
}
