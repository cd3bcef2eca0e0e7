// internal/app/features/incidents/routes.go
package incidents

import (
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/app/system/authz"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the incidents API at "/api/cybersecurity/incidents".
func Routes(h *Handler, gate *auth.Gate) chi.Router {
	r := chi.NewRouter()
	member := auth.InWorkline(models.WorklineCybersecurity)

	r.Group(func(pr chi.Router) {
		pr.Use(gate.Require(auth.Perm(authz.Read).And(member)))
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeIncident)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(gate.Require(auth.Perm(authz.ManageIncidents).And(member)))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
