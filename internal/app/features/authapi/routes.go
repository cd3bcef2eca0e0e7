// internal/app/features/authapi/routes.go
package authapi

import (
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the auth API (typically at "/api/auth"). Register and login
// are public; the rest need a valid token.
func Routes(h *Handler, gate *auth.Gate) chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)

	r.Group(func(pr chi.Router) {
		pr.Use(gate.Authenticate)
		pr.Post("/switch-workline", h.HandleSwitchWorkline)
		pr.Get("/verify", h.ServeVerify)
	})
	return r
}
