// internal/app/features/threats/handler.go
package threats

import (
	threatstore "github.com/dalemusser/hostpro/internal/app/store/threats"
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/app/system/authz"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the threat register of the cybersecurity workline.
type Handler struct {
	Threats *threatstore.Store
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Threats: threatstore.New(db), Log: logger}
}

// Routes mounts the threats API at "/api/cybersecurity/threats".
func Routes(h *Handler, gate *auth.Gate) chi.Router {
	r := chi.NewRouter()
	member := auth.InWorkline(models.WorklineCybersecurity)

	r.Group(func(pr chi.Router) {
		pr.Use(gate.Require(auth.Perm(authz.Read).And(member)))
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeThreat)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(gate.Require(auth.Perm(authz.ManageThreats).And(member)))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Post("/{id}/indicators", h.HandleAddIndicators)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
