// internal/app/features/pages/handler.go
package pages

import (
	"context"

	"github.com/dalemusser/hostpro/internal/app/store/crud"
	pagestore "github.com/dalemusser/hostpro/internal/app/store/pages"
	userstore "github.com/dalemusser/hostpro/internal/app/store/users"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the CMS pages API. A handler built by ForWorkline only
// sees and writes pages of that workline's site.
type Handler struct {
	Pages    *pagestore.Store
	Users    *userstore.Store
	Log      *zap.Logger
	workline models.Workline
}

// NewHandler constructs a pages handler bound to the given Mongo database
// and logger.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Pages: pagestore.New(db),
		Users: userstore.New(db),
		Log:   logger,
	}
}

// ForWorkline returns a copy of h pinned to w's site.
func (h *Handler) ForWorkline(w models.Workline) *Handler {
	return &Handler{
		Pages:    h.Pages.InSite(string(w)),
		Users:    h.Users,
		Log:      h.Log,
		workline: w,
	}
}

// pageView is a page with its author resolved.
type pageView struct {
	models.Page
	Author *models.UserRef `json:"author"`
}

func (h *Handler) views(ctx context.Context, pages []models.Page) ([]pageView, error) {
	ids := make([]*primitive.ObjectID, 0, len(pages))
	for i := range pages {
		ids = append(ids, pages[i].AuthorID)
	}
	refs, err := h.Users.Refs(ctx, crud.UniqueIDs(ids...))
	if err != nil {
		return nil, err
	}
	out := make([]pageView, len(pages))
	for i, p := range pages {
		out[i] = pageView{Page: p}
		if p.AuthorID != nil {
			if ref, ok := refs[*p.AuthorID]; ok {
				out[i].Author = &ref
			}
		}
	}
	return out, nil
}

func (h *Handler) view(ctx context.Context, p models.Page) (pageView, error) {
	vs, err := h.views(ctx, []models.Page{p})
	if err != nil {
		return pageView{}, err
	}
	return vs[0], nil
}
