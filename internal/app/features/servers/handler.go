// internal/app/features/servers/handler.go
package servers

import (
	clientstore "github.com/dalemusser/hostpro/internal/app/store/clients"
	serverstore "github.com/dalemusser/hostpro/internal/app/store/servers"
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/app/system/authz"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the hosting server inventory.
type Handler struct {
	Servers *serverstore.Store
	Clients *clientstore.Store
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Servers: serverstore.New(db),
		Clients: clientstore.New(db, models.WorklineHosting),
		Log:     logger,
	}
}

// Routes mounts the servers API at "/api/hosting/servers".
func Routes(h *Handler, gate *auth.Gate) chi.Router {
	r := chi.NewRouter()
	member := auth.InWorkline(models.WorklineHosting)

	r.Group(func(pr chi.Router) {
		pr.Use(gate.Require(auth.Perm(authz.Read).And(member)))
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeServer)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(gate.Require(auth.Perm(authz.ManageServers).And(member)))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
