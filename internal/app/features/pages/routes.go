// internal/app/features/pages/routes.go
package pages

import (
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the pages API (typically at "/api/pages", or at
// "/api/<workline>/pages" for a handler from ForWorkline). Reading needs
// read and writing needs manage_pages; a pinned handler also needs
// membership of its workline. The public lookup and view counter are only
// served by the unpinned router.
func Routes(h *Handler, gate *auth.Gate) chi.Router {
	r := chi.NewRouter()

	scope := auth.Requirement{}
	if h.workline != "" {
		scope = auth.InWorkline(h.workline)
	}

	if h.workline == "" {
		r.Get("/public/{site}/{slug}", h.ServePublic)
		r.Post("/{id}/view", h.HandleView)
	}

	r.Group(func(pr chi.Router) {
		pr.Use(gate.Require(auth.Perm(authz.Read).And(scope)))
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServePage)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(gate.Require(auth.Perm(authz.ManagePages).And(scope)))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Patch("/{id}/status", h.HandleStatus)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
