// internal/app/features/health/handler.go
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/hostpro/internal/app/system/jsonutil"
	"github.com/dalemusser/hostpro/internal/app/system/timeouts"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is the part of *mongo.Client the health check needs.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	DB      Pinger
	Log     *zap.Logger
	started time.Time
	now     func() time.Time
}

// NewHandler constructs a health Handler. Uptime is measured from now.
func NewHandler(db Pinger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, started: time.Now(), now: time.Now}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status    string                     `json:"status"`
	Timestamp time.Time                  `json:"timestamp"`
	Uptime    float64                    `json:"uptime"` // seconds
	Services  map[models.Workline]string `json:"services"`
	Database  string                     `json:"database"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"OK", "timestamp":"…", "uptime":12.5,
//	  "services":{"cybersecurity":"active","hosting":"active"}, "database":"connected" }
//
// When Mongo does not answer a ping: 503 with status "DEGRADED" and
// database "disconnected".
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	now := h.now()
	resp := healthResponse{
		Status:    "OK",
		Timestamp: now.UTC(),
		Uptime:    now.Sub(h.started).Seconds(),
		Services:  make(map[models.Workline]string, len(models.AllWorklines)),
		Database:  "connected",
	}
	for _, wl := range models.AllWorklines {
		resp.Services[wl] = "active"
	}

	status := http.StatusOK
	if err := h.DB.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		status = http.StatusServiceUnavailable
		resp.Status = "DEGRADED"
		resp.Database = "disconnected"
	}
	jsonutil.Write(w, status, resp)
}
