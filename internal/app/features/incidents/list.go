// internal/app/features/incidents/list.go
package incidents

import (
	"net/http"

	uierrors "github.com/dalemusser/hostpro/internal/app/features/errors"
	incidentstore "github.com/dalemusser/hostpro/internal/app/store/incidents"
	"github.com/dalemusser/hostpro/internal/app/system/apiutil"
	"github.com/dalemusser/hostpro/internal/app/system/paging"
	"github.com/dalemusser/hostpro/internal/app/system/timeouts"
)

// ServeList handles GET / with severity, status and type filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "incidents list")
	defer cancel()

	f := incidentstore.ListFilter{
		Severity: apiutil.Filter(r, "severity"),
		Status:   apiutil.Filter(r, "status"),
		Type:     apiutil.Filter(r, "type"),
	}
	p := paging.Parse(r)
	items, total, err := h.Incidents.List(ctx, f, p)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	apiutil.WriteList(w, "incidents", items, p, total)
}

// ServeIncident handles GET /{id}.
func (h *Handler) ServeIncident(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "incident")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "incident get")
	defer cancel()

	inc, err := h.Incidents.GetByID(ctx, id)
	if err != nil {
		uierrors.Write(w, r, h.Log, apiutil.NotFound(err, "Incident not found"))
		return
	}
	apiutil.WriteItem(w, http.StatusOK, "", "incident", inc)
}
