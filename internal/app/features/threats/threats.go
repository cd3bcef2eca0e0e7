// internal/app/features/threats/threats.go
package threats

import (
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/hostpro/internal/app/features/errors"
	threatstore "github.com/dalemusser/hostpro/internal/app/store/threats"
	"github.com/dalemusser/hostpro/internal/app/system/apierr"
	"github.com/dalemusser/hostpro/internal/app/system/apiutil"
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/app/system/jsonutil"
	"github.com/dalemusser/hostpro/internal/app/system/normalize"
	"github.com/dalemusser/hostpro/internal/app/system/paging"
	"github.com/dalemusser/hostpro/internal/app/system/timeouts"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"go.uber.org/zap"
)

const msgNotFound = "Threat not found"

// ServeList handles GET / with type, severity, status and search filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "threats list")
	defer cancel()

	f := threatstore.ListFilter{
		Type:     apiutil.Filter(r, "type"),
		Severity: apiutil.Filter(r, "severity"),
		Status:   apiutil.Filter(r, "status"),
		Search:   apiutil.Search(r),
	}
	p := paging.Parse(r)
	items, total, err := h.Threats.List(ctx, f, p)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	apiutil.WriteList(w, "threats", items, p, total)
}

// ServeThreat handles GET /{id}.
func (h *Handler) ServeThreat(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "threat")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "threat get")
	defer cancel()

	th, err := h.Threats.GetByID(ctx, id)
	if err != nil {
		uierrors.Write(w, r, h.Log, apiutil.NotFound(err, msgNotFound))
		return
	}
	apiutil.WriteItem(w, http.StatusOK, "", "threat", th)
}

// HandleCreate handles POST /.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentPrincipal(r)

	var req createRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	if err := apiutil.Validate(req); err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	status := models.ThreatActive
	if req.Status != "" {
		status = models.ThreatStatus(req.Status)
	}
	by := actor.UserID

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "threat create")
	defer cancel()

	th, err := h.Threats.Create(ctx, models.Threat{
		Name:            strings.TrimSpace(req.Name),
		Type:            models.ThreatType(req.Type),
		Severity:        models.Severity(req.Severity),
		Description:     strings.TrimSpace(req.Description),
		Source:          strings.TrimSpace(req.Source),
		Status:          status,
		Indicators:      normalize.List(req.Indicators),
		MitigationSteps: normalize.List(req.MitigationSteps),
		CreatedBy:       &by,
	})
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	h.Log.Info("threat registered", zap.String("threat_id", th.ID.Hex()), zap.String("type", string(th.Type)))
	apiutil.WriteItem(w, http.StatusCreated, "Threat created successfully", "threat", th)
}

// HandleUpdate handles PUT /{id}. Lists given in full replace the stored
// ones.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "threat")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	var req updateRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	if err := apiutil.Validate(req); err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	upd := threatstore.Update{
		Name:        apiutil.Trim(req.Name),
		Description: apiutil.Trim(req.Description),
		Source:      apiutil.Trim(req.Source),
	}
	if req.Type != nil {
		v := models.ThreatType(*req.Type)
		upd.Type = &v
	}
	if req.Severity != nil {
		v := models.Severity(*req.Severity)
		upd.Severity = &v
	}
	if req.Status != nil {
		v := models.ThreatStatus(*req.Status)
		upd.Status = &v
	}
	if req.Indicators != nil {
		upd.Indicators = normalize.List(req.Indicators)
	}
	if req.MitigationSteps != nil {
		upd.MitigationSteps = normalize.List(req.MitigationSteps)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "threat update")
	defer cancel()

	th, err := h.Threats.Update(ctx, id, upd)
	if err != nil {
		uierrors.Write(w, r, h.Log, apiutil.NotFound(err, msgNotFound))
		return
	}
	apiutil.WriteItem(w, http.StatusOK, "Threat updated successfully", "threat", th)
}

// HandleAddIndicators handles POST /{id}/indicators. Indicators already on
// the threat are not added twice.
func (h *Handler) HandleAddIndicators(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "threat")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	var req indicatorsRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	add := normalize.List(req.Indicators)
	if len(add) == 0 {
		uierrors.Write(w, r, h.Log, apierr.Invalid("Indicators is required."))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "threat indicators")
	defer cancel()

	th, err := h.Threats.AddIndicators(ctx, id, add)
	if err != nil {
		uierrors.Write(w, r, h.Log, apiutil.NotFound(err, msgNotFound))
		return
	}
	apiutil.WriteItem(w, http.StatusOK, "Indicators added successfully", "threat", th)
}

// HandleDelete handles DELETE /{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "threat")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "threat delete")
	defer cancel()

	if err := h.Threats.Delete(ctx, id); err != nil {
		uierrors.Write(w, r, h.Log, apiutil.NotFound(err, msgNotFound))
		return
	}
	jsonutil.Write(w, http.StatusOK, jsonutil.Message{Message: "Threat deleted successfully"})
}
