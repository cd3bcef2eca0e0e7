// internal/app/features/analytics/handler.go
package analytics

import (
	"net/http"

	uierrors "github.com/dalemusser/hostpro/internal/app/features/errors"
	analyticsstore "github.com/dalemusser/hostpro/internal/app/store/analytics"
	"github.com/dalemusser/hostpro/internal/app/system/apierr"
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/app/system/authz"
	"github.com/dalemusser/hostpro/internal/app/system/jsonutil"
	"github.com/dalemusser/hostpro/internal/app/system/timeouts"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Stats *analyticsstore.Store
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Stats: analyticsstore.New(db, logger), Log: logger}
}

// Routes mounts the analytics API at "/api/analytics".
func Routes(h *Handler, gate *auth.Gate) chi.Router {
	r := chi.NewRouter()
	r.Use(gate.Require(auth.Perm(authz.ViewAnalytics)))
	r.Get("/dashboard", h.ServeDashboard)
	r.Get("/workline/{workline}", h.ServeWorkline)
	return r
}

// ServeDashboard handles GET /dashboard.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "analytics dashboard")
	defer cancel()

	d, err := h.Stats.Dashboard(ctx)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	jsonutil.Write(w, http.StatusOK, d)
}

// ServeWorkline handles GET /workline/{workline}.
func (h *Handler) ServeWorkline(w http.ResponseWriter, r *http.Request) {
	wl, ok := models.ParseWorkline(chi.URLParam(r, "workline"))
	if !ok {
		uierrors.Write(w, r, h.Log, apierr.Invalid("Invalid workline"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "analytics workline")
	defer cancel()

	var (
		report any
		err    error
	)
	switch wl {
	case models.WorklineCybersecurity:
		report, err = h.Stats.CyberBreakdown(ctx)
	case models.WorklineHosting:
		report, err = h.Stats.HostingBreakdown(ctx)
	}
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	jsonutil.Write(w, http.StatusOK, report)
}
