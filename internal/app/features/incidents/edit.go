// internal/app/features/incidents/edit.go
package incidents

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/hostpro/internal/app/features/errors"
	incidentstore "github.com/dalemusser/hostpro/internal/app/store/incidents"
	userstore "github.com/dalemusser/hostpro/internal/app/store/users"
	"github.com/dalemusser/hostpro/internal/app/system/apierr"
	"github.com/dalemusser/hostpro/internal/app/system/apiutil"
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/app/system/jsonutil"
	"github.com/dalemusser/hostpro/internal/app/system/normalize"
	"github.com/dalemusser/hostpro/internal/app/system/timeouts"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func detectedAt(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, ok := apiutil.ParseTime(raw)
	if !ok {
		return nil, apierr.Invalid("Detected at must be an RFC 3339 timestamp or YYYY-MM-DD")
	}
	return &t, nil
}

func (h *Handler) assignee(ctx context.Context, raw string) (*primitive.ObjectID, error) {
	id, err := apiutil.OptionalID(raw, "user")
	if err != nil || id == nil {
		return id, err
	}
	if _, err := h.Users.GetByID(ctx, *id); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			return nil, apierr.Invalid("Assigned user not found")
		}
		return nil, err
	}
	return id, nil
}

// HandleCreate handles POST /. reportedBy defaults to the caller's email.
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
	detected, err := detectedAt(req.DetectedAt)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	inc := models.Incident{
		Title:           strings.TrimSpace(req.Title),
		Type:            strings.TrimSpace(req.Type),
		Description:     strings.TrimSpace(req.Description),
		Severity:        models.SeverityMedium,
		Status:          models.IncidentOpen,
		AffectedSystems: normalize.List(req.AffectedSystems),
		ReportedBy:      strings.TrimSpace(req.ReportedBy),
	}
	if req.Severity != "" {
		inc.Severity = models.Severity(req.Severity)
	}
	if req.Status != "" {
		inc.Status = models.IncidentStatus(req.Status)
	}
	if detected != nil {
		inc.DetectedAt = *detected
	}
	if inc.ReportedBy == "" {
		inc.ReportedBy = actor.Email
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "incident create")
	defer cancel()

	if inc.AssignedTo, err = h.assignee(ctx, req.AssignedTo); err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	inc, err = h.Incidents.Create(ctx, inc)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	h.Log.Info("incident opened",
		zap.String("incident_id", inc.ID.Hex()),
		zap.String("severity", string(inc.Severity)),
		zap.String("reported_by", inc.ReportedBy))
	apiutil.WriteItem(w, http.StatusCreated, "Incident created successfully", "incident", inc)
}

// HandleUpdate handles PUT /{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "incident")
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

	upd := incidentstore.Update{
		Title:       apiutil.Trim(req.Title),
		Type:        apiutil.Trim(req.Type),
		Description: apiutil.Trim(req.Description),
		ReportedBy:  apiutil.Trim(req.ReportedBy),
	}
	if req.Severity != nil {
		sev := models.Severity(*req.Severity)
		upd.Severity = &sev
	}
	if req.Status != nil {
		st := models.IncidentStatus(*req.Status)
		upd.Status = &st
	}
	if req.AffectedSystems != nil {
		upd.AffectedSystems = normalize.List(req.AffectedSystems)
	}
	if req.DetectedAt != nil {
		if upd.DetectedAt, err = detectedAt(*req.DetectedAt); err != nil {
			uierrors.Write(w, r, h.Log, err)
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "incident update")
	defer cancel()

	if req.AssignedTo != nil {
		if upd.AssignedTo, err = h.assignee(ctx, *req.AssignedTo); err != nil {
			uierrors.Write(w, r, h.Log, err)
			return
		}
	}

	inc, err := h.Incidents.Update(ctx, id, upd)
	if err != nil {
		uierrors.Write(w, r, h.Log, apiutil.NotFound(err, "Incident not found"))
		return
	}
	apiutil.WriteItem(w, http.StatusOK, "Incident updated successfully", "incident", inc)
}

// HandleDelete handles DELETE /{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "incident")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "incident delete")
	defer cancel()

	if err := h.Incidents.Delete(ctx, id); err != nil {
		uierrors.Write(w, r, h.Log, apiutil.NotFound(err, "Incident not found"))
		return
	}
	jsonutil.Write(w, http.StatusOK, jsonutil.Message{Message: "Incident deleted successfully"})
}
