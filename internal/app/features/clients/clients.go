// internal/app/features/clients/clients.go
package clients

import (
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/hostpro/internal/app/features/errors"
	clientstore "github.com/dalemusser/hostpro/internal/app/store/clients"
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

const (
	msgNotFound    = "Client not found"
	msgDomainTaken = "A client with this domain already exists"
)

func storeErr(err error) error {
	if errors.Is(err, clientstore.ErrDuplicateDomain) {
		return apierr.Conflict(msgDomainTaken)
	}
	return apiutil.NotFound(err, msgNotFound)
}

// ServeList handles GET /. Cybersecurity filters by riskLevel and
// industry; hosting by plan and status. Both accept search.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	f := clientstore.ListFilter{Search: apiutil.Search(r)}
	if h.hosting() {
		f.Plan = apiutil.Filter(r, "plan")
		f.Status = apiutil.Filter(r, "status")
	} else {
		f.RiskLevel = apiutil.Filter(r, "riskLevel")
		f.Industry = apiutil.Filter(r, "industry")
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "clients list")
	defer cancel()

	p := paging.Parse(r)
	items, total, err := h.Clients.List(ctx, f, p)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	apiutil.WriteList(w, "clients", items, p, total)
}

// ServeClient handles GET /{id}.
func (h *Handler) ServeClient(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "client")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "client get")
	defer cancel()

	c, err := h.Clients.GetByID(ctx, id)
	if err != nil {
		uierrors.Write(w, r, h.Log, storeErr(err))
		return
	}
	apiutil.WriteItem(w, http.StatusOK, "", "client", c)
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

	by := actor.UserID
	c := models.Client{
		Name:      normalize.Name(req.Name),
		Email:     req.Email,
		Company:   strings.TrimSpace(req.Company),
		Status:    strings.TrimSpace(req.Status),
		CreatedBy: &by,
	}
	if h.hosting() {
		c.Plan = models.HostingPlan(req.Plan)
		c.Domain = req.Domain
	} else {
		c.Industry = strings.TrimSpace(req.Industry)
		c.RiskLevel = models.Severity(req.RiskLevel)
		c.Services = normalize.List(req.Services)
		c.SecurityScore = req.SecurityScore
		c.IncidentCount = req.IncidentCount
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "client create")
	defer cancel()

	if h.hosting() {
		taken, err := h.Clients.DomainTaken(ctx, c.Domain, nil)
		if err != nil {
			uierrors.Write(w, r, h.Log, err)
			return
		}
		if taken {
			uierrors.Write(w, r, h.Log, apierr.Conflict(msgDomainTaken))
			return
		}
	}

	c, err := h.Clients.Create(ctx, c)
	if err != nil {
		uierrors.Write(w, r, h.Log, storeErr(err))
		return
	}

	h.Log.Info("client created", zap.String("client_id", c.ID.Hex()), zap.String("workline", string(h.workline)))
	apiutil.WriteItem(w, http.StatusCreated, "Client created successfully", "client", c)
}

// HandleUpdate handles PUT /{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "client")
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

	upd := clientstore.Update{
		Name:    apiutil.Trim(req.Name),
		Email:   req.Email,
		Company: apiutil.Trim(req.Company),
		Status:  apiutil.Trim(req.Status),
	}
	if h.hosting() {
		if req.Plan != nil {
			plan := models.HostingPlan(*req.Plan)
			upd.Plan = &plan
		}
		upd.Domain = req.Domain
	} else {
		upd.Industry = apiutil.Trim(req.Industry)
		if req.RiskLevel != nil {
			risk := models.Severity(*req.RiskLevel)
			upd.RiskLevel = &risk
		}
		if req.Services != nil {
			upd.Services = normalize.List(req.Services)
		}
		upd.SecurityScore = req.SecurityScore
		upd.IncidentCount = req.IncidentCount
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "client update")
	defer cancel()

	if upd.Domain != nil {
		taken, err := h.Clients.DomainTaken(ctx, *upd.Domain, &id)
		if err != nil {
			uierrors.Write(w, r, h.Log, err)
			return
		}
		if taken {
			uierrors.Write(w, r, h.Log, apierr.Conflict(msgDomainTaken))
			return
		}
	}

	c, err := h.Clients.Update(ctx, id, upd)
	if err != nil {
		uierrors.Write(w, r, h.Log, storeErr(err))
		return
	}
	apiutil.WriteItem(w, http.StatusOK, "Client updated successfully", "client", c)
}

// HandleDelete handles DELETE /{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "client")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "client delete")
	defer cancel()

	if err := h.Clients.Delete(ctx, id); err != nil {
		uierrors.Write(w, r, h.Log, storeErr(err))
		return
	}
	jsonutil.Write(w, http.StatusOK, jsonutil.Message{Message: "Client deleted successfully"})
}
