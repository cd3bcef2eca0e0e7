// internal/app/features/domains/handler.go
package domains

import (
	"context"
	"time"

	clientstore "github.com/dalemusser/hostpro/internal/app/store/clients"
	domainstore "github.com/dalemusser/hostpro/internal/app/store/domains"
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/app/system/authz"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the registered domains of hosting clients.
type Handler struct {
	Domains *domainstore.Store
	Clients *clientstore.Store
	Log     *zap.Logger

	now func() time.Time
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Domains: domainstore.New(db),
		Clients: clientstore.New(db, models.WorklineHosting),
		Log:     logger,
		now:     time.Now,
	}
}

// Routes mounts the domains API at "/api/hosting/domains".
func Routes(h *Handler, gate *auth.Gate) chi.Router {
	r := chi.NewRouter()
	member := auth.InWorkline(models.WorklineHosting)

	r.Group(func(pr chi.Router) {
		pr.Use(gate.Require(auth.Perm(authz.Read).And(member)))
		pr.Get("/", h.ServeList)
		pr.Get("/expiring", h.ServeExpiring)
		pr.Get("/{id}", h.ServeDomain)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(gate.Require(auth.Perm(authz.ManageDomains).And(member)))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}

// domainView is a domain with its owning client resolved.
type domainView struct {
	models.Domain
	Client *models.ClientRef `json:"client"`
}

func (h *Handler) views(ctx context.Context, domains []models.Domain) ([]domainView, error) {
	ids := make([]primitive.ObjectID, 0, len(domains))
	seen := make(map[primitive.ObjectID]bool, len(domains))
	for _, d := range domains {
		if !seen[d.ClientID] {
			seen[d.ClientID] = true
			ids = append(ids, d.ClientID)
		}
	}
	refs, err := h.Clients.Refs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domainView, len(domains))
	for i, d := range domains {
		out[i] = domainView{Domain: d}
		if ref, ok := refs[d.ClientID]; ok {
			out[i].Client = &ref
		}
	}
	return out, nil
}

func (h *Handler) view(ctx context.Context, d models.Domain) (domainView, error) {
	vs, err := h.views(ctx, []models.Domain{d})
	if err != nil {
		return domainView{}, err
	}
	return vs[0], nil
}
