// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the tasks API at "/api/tasks", or at "/api/<workline>/tasks"
// for a handler from ForWorkline.
func Routes(h *Handler, gate *auth.Gate) chi.Router {
	r := chi.NewRouter()

	scope := auth.Requirement{}
	if h.workline != "" {
		scope = auth.InWorkline(h.workline)
	}

	r.Group(func(pr chi.Router) {
		pr.Use(gate.Require(auth.Perm(authz.Read).And(scope)))
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeTask)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(gate.Require(auth.Perm(authz.ManageTasks).And(scope)))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
