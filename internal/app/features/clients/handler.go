// internal/app/features/clients/handler.go
package clients

import (
	clientstore "github.com/dalemusser/hostpro/internal/app/store/clients"
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/app/system/authz"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the clients of one workline. Cybersecurity clients carry
// industry and risk fields; hosting clients carry a plan and a domain.
type Handler struct {
	Clients  *clientstore.Store
	Log      *zap.Logger
	workline models.Workline
}

func NewHandler(db *mongo.Database, w models.Workline, logger *zap.Logger) *Handler {
	return &Handler{Clients: clientstore.New(db, w), Log: logger, workline: w}
}

func (h *Handler) hosting() bool { return h.workline == models.WorklineHosting }

// Routes mounts the clients API at "/api/<workline>/clients".
func Routes(h *Handler, gate *auth.Gate) chi.Router {
	r := chi.NewRouter()
	member := auth.InWorkline(h.workline)

	r.Group(func(pr chi.Router) {
		pr.Use(gate.Require(auth.Perm(authz.Read).And(member)))
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeClient)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(gate.Require(auth.Perm(authz.ManageClients).And(member)))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
