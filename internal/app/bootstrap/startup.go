// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	domainstore "github.com/dalemusser/hostpro/internal/app/store/domains"
	userstore "github.com/dalemusser/hostpro/internal/app/store/users"
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/app/system/timeouts"
	"github.com/dalemusser/hostpro/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// expiryWorker is the running domain expiry watch, stopped in Shutdown.
var expiryWorker *workers.DomainExpiry

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// HostPro re-applies the configured deadlines, makes sure the seed admin
// exists when seed_admin_email is set, and starts the domain expiry watch.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(appCfg.timeoutConfig())
	d := timeouts.Current()
	logger.Info("database deadlines",
		zap.Duration("ping", d.Ping),
		zap.Duration("short", d.Short),
		zap.Duration("medium", d.Medium),
		zap.Duration("long", d.Long))

	if appCfg.SeedAdminEmail != "" {
		seedCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
		_, err := SeedAdmin(seedCtx, deps.MongoDatabase, appCfg.SeedAdminEmail, appCfg.SeedAdminPassword, appCfg.SeedAdminName, logger)
		cancel()
		if err != nil {
			return err
		}
	}

	if appCfg.ExpiryWatchInterval > 0 && deps.MongoDatabase != nil {
		expiryWorker = workers.NewDomainExpiry(domainstore.New(deps.MongoDatabase), logger,
			appCfg.ExpiryWatchInterval, appCfg.ExpiryWatchDays)
		expiryWorker.Start()
	}
	return nil
}

// SeedAdmin creates an admin with access to every workline unless an
// account with email already exists, in which case it is left untouched.
// It reports whether an account was created.
func SeedAdmin(ctx context.Context, db *mongo.Database, email, password, name string, logger *zap.Logger) (bool, error) {
	if len(password) < auth.MinPasswordLength {
		return false, fmt.Errorf("admin password must be at least %d characters", auth.MinPasswordLength)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}

	u, created, err := userstore.New(db).EnsureAdmin(ctx, email, hash, name)
	if err != nil {
		return false, fmt.Errorf("seed admin %s: %w", email, err)
	}
	if created {
		logger.Info("admin account created", zap.String("email", u.Email), zap.String("user_id", u.ID.Hex()))
	} else {
		logger.Info("admin account already present", zap.String("email", u.Email))
	}
	return created, nil
}
