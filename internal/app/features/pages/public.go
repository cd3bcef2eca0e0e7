// internal/app/features/pages/public.go
package pages

import (
	"net/http"

	uierrors "github.com/dalemusser/hostpro/internal/app/features/errors"
	"github.com/dalemusser/hostpro/internal/app/system/apiutil"
	"github.com/dalemusser/hostpro/internal/app/system/jsonutil"
	"github.com/dalemusser/hostpro/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// ServePublic handles GET /public/{site}/{slug}. Only published pages are
// visible and no token is needed.
func (h *Handler) ServePublic(w http.ResponseWriter, r *http.Request) {
	site := chi.URLParam(r, "site")
	slug := chi.URLParam(r, "slug")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "public page")
	defer cancel()

	p, err := h.Pages.GetPublished(ctx, site, slug)
	if err != nil {
		uierrors.Write(w, r, h.Log, apiutil.NotFound(err, "Page not found"))
		return
	}
	apiutil.WriteItem(w, http.StatusOK, "", "page", publicPage{
		Title:           p.Title,
		Content:         p.Content,
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		Tags:            p.Tags,
		PublishedAt:     p.PublishedAt,
	})
}

// HandleView handles POST /{id}/view.
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "page")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "page view")
	defer cancel()

	views, err := h.Pages.IncrementViews(ctx, id)
	if err != nil {
		uierrors.Write(w, r, h.Log, apiutil.NotFound(err, "Page not found"))
		return
	}
	jsonutil.Write(w, http.StatusOK, map[string]int64{"views": views})
}
