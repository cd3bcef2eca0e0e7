// internal/app/features/pages/list.go
package pages

import (
	"net/http"

	uierrors "github.com/dalemusser/hostpro/internal/app/features/errors"
	pagestore "github.com/dalemusser/hostpro/internal/app/store/pages"
	"github.com/dalemusser/hostpro/internal/app/system/apiutil"
	"github.com/dalemusser/hostpro/internal/app/system/paging"
	"github.com/dalemusser/hostpro/internal/app/system/timeouts"
)

// ServeList handles GET / with status, site and search filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "pages list")
	defer cancel()

	f := pagestore.ListFilter{
		Status: apiutil.Filter(r, "status"),
		Site:   apiutil.Filter(r, "site"),
		Search: apiutil.Search(r),
	}
	p := paging.Parse(r)
	pages, total, err := h.Pages.List(ctx, f, p)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	views, err := h.views(ctx, pages)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	apiutil.WriteList(w, "pages", views, p, total)
}

// ServePage handles GET /{id}.
func (h *Handler) ServePage(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "page")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "page get")
	defer cancel()

	page, err := h.Pages.GetByID(ctx, id)
	if err != nil {
		uierrors.Write(w, r, h.Log, apiutil.NotFound(err, "Page not found"))
		return
	}
	v, err := h.view(ctx, page)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	apiutil.WriteItem(w, http.StatusOK, "", "page", v)
}
