// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit log under the path where this router is mounted
// (typically "/api/audit" from bootstrap). It is readable by anyone who
// can manage users.
func Routes(h *Handler, gate *auth.Gate) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(gate.Require(auth.Perm(authz.ManageUsers)))

		pr.Get("/", h.ServeList)
	})

	return r
}
