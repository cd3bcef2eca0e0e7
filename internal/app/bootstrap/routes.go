// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	analyticsfeature "github.com/dalemusser/hostpro/internal/app/features/analytics"
	auditlogfeature "github.com/dalemusser/hostpro/internal/app/features/auditlog"
	authapifeature "github.com/dalemusser/hostpro/internal/app/features/authapi"
	clientsfeature "github.com/dalemusser/hostpro/internal/app/features/clients"
	domainsfeature "github.com/dalemusser/hostpro/internal/app/features/domains"
	errorsfeature "github.com/dalemusser/hostpro/internal/app/features/errors"
	healthfeature "github.com/dalemusser/hostpro/internal/app/features/health"
	incidentsfeature "github.com/dalemusser/hostpro/internal/app/features/incidents"
	pagesfeature "github.com/dalemusser/hostpro/internal/app/features/pages"
	serversfeature "github.com/dalemusser/hostpro/internal/app/features/servers"
	tasksfeature "github.com/dalemusser/hostpro/internal/app/features/tasks"
	threatsfeature "github.com/dalemusser/hostpro/internal/app/features/threats"
	usersfeature "github.com/dalemusser/hostpro/internal/app/features/users"
	"github.com/dalemusser/hostpro/internal/app/store/audit"
	"github.com/dalemusser/hostpro/internal/app/system/auditlog"
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/app/system/jsonutil"
	"github.com/dalemusser/hostpro/internal/app/system/metrics"
	"github.com/dalemusser/hostpro/internal/app/system/ratelimit"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// memLimiter is the in-process rate limiter, closed in Shutdown.
var memLimiter *ratelimit.Limiter

func closeMemLimiter() {
	if memLimiter != nil {
		memLimiter.Close()
		memLimiter = nil
	}
}

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// Middleware, outermost first: request id, real IP (only with trust_proxy),
// panic recovery, an OpenTelemetry server span, Prometheus request metrics,
// CORS and the body size cap. Everything under /api is also rate limited
// per client IP.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	tokens := auth.NewTokenService(appCfg.JWTSecret, appCfg.JWTExpiry, appCfg.JWTIssuer)
	if tokens.UsesFallbackSecret() {
		logger.Warn("signing tokens with the fallback secret; set jwt_secret")
	}
	cookie := ""
	if appCfg.TokenCookie {
		cookie = auth.DefaultTokenCookie
	}
	gate := auth.NewGate(tokens, cookie, logger)

	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	var limiter ratelimit.Allower
	backend := "memory"
	if deps.Redis != nil {
		limiter = ratelimit.NewRedisLimiter(deps.Redis, appCfg.RateLimit, appCfg.RateWindow, "hostpro:ratelimit:")
		backend = "redis"
	} else {
		mem := ratelimit.New(appCfg.RateLimit, appCfg.RateWindow)
		closeMemLimiter()
		memLimiter = mem
		limiter = mem
	}
	logger.Info("rate limiter ready",
		zap.String("backend", backend),
		zap.Int("limit", appCfg.RateLimit),
		zap.Duration("window", appCfg.RateWindow))

	errorsHandler := errorsfeature.NewHandler(logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if appCfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{appCfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(jsonutil.LimitBody(appCfg.MaxBodyBytes))

	// JSON fallbacks; set before mounting so subrouters inherit them.
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	if appCfg.MetricsToken == "" {
		logger.Warn("/metrics is unauthenticated; keep it off the public network or set metrics_token")
	}
	r.Handle("/metrics", metrics.Handler(appCfg.MetricsToken))

	r.Route("/api", func(api chi.Router) {
		api.Use(ratelimit.Middleware(limiter, backend, logger))

		authHandler := authapifeature.NewHandler(db, tokens, auditLog, cookie, coreCfg.Env == "prod", logger)
		api.Mount("/auth", authapifeature.Routes(authHandler, gate))

		usersHandler := usersfeature.NewHandler(db, auditLog, logger)
		api.Mount("/users", usersfeature.Routes(usersHandler, gate))

		auditHandler := auditlogfeature.NewHandler(db, logger)
		api.Mount("/audit", auditlogfeature.Routes(auditHandler, gate))

		analyticsHandler := analyticsfeature.NewHandler(db, logger)
		api.Mount("/analytics", analyticsfeature.Routes(analyticsHandler, gate))

		// Shared pages and tasks; each workline also gets a pinned copy below.
		pagesHandler := pagesfeature.NewHandler(db, logger)
		api.Mount("/pages", pagesfeature.Routes(pagesHandler, gate))

		tasksHandler := tasksfeature.NewHandler(db, logger)
		api.Mount("/tasks", tasksfeature.Routes(tasksHandler, gate))

		api.Route("/cybersecurity", func(cr chi.Router) {
			w := models.WorklineCybersecurity
			cr.Mount("/tasks", tasksfeature.Routes(tasksHandler.ForWorkline(w), gate))
			cr.Mount("/pages", pagesfeature.Routes(pagesHandler.ForWorkline(w), gate))
			cr.Mount("/clients", clientsfeature.Routes(clientsfeature.NewHandler(db, w, logger), gate))
			cr.Mount("/incidents", incidentsfeature.Routes(incidentsfeature.NewHandler(db, logger), gate))
			cr.Mount("/threats", threatsfeature.Routes(threatsfeature.NewHandler(db, logger), gate))
		})

		api.Route("/hosting", func(hr chi.Router) {
			w := models.WorklineHosting
			hr.Mount("/tasks", tasksfeature.Routes(tasksHandler.ForWorkline(w), gate))
			hr.Mount("/pages", pagesfeature.Routes(pagesHandler.ForWorkline(w), gate))
			hr.Mount("/clients", clientsfeature.Routes(clientsfeature.NewHandler(db, w, logger), gate))
			hr.Mount("/servers", serversfeature.Routes(serversfeature.NewHandler(db, logger), gate))
			hr.Mount("/domains", domainsfeature.Routes(domainsfeature.NewHandler(db, logger), gate))
		})
	})

	return otelhttp.NewHandler(r, "hostpro"), nil
}
