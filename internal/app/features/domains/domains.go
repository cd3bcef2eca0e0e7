// internal/app/features/domains/domains.go
package domains

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	uierrors "github.com/dalemusser/hostpro/internal/app/features/errors"
	domainstore "github.com/dalemusser/hostpro/internal/app/store/domains"
	"github.com/dalemusser/hostpro/internal/app/system/apierr"
	"github.com/dalemusser/hostpro/internal/app/system/apiutil"
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/app/system/jsonutil"
	"github.com/dalemusser/hostpro/internal/app/system/paging"
	"github.com/dalemusser/hostpro/internal/app/system/timeouts"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	msgNotFound       = "Domain not found"
	msgExists         = "Domain already exists"
	msgClientNotFound = "Client not found"
	msgBadExpiry      = "Expiry date must be an RFC 3339 timestamp or YYYY-MM-DD"

	// DefaultExpiringDays is the window of GET /expiring without ?days.
	DefaultExpiringDays = 30
	maxExpiringDays     = 3650
)

func storeErr(err error) error {
	if errors.Is(err, domainstore.ErrDuplicateName) {
		return apierr.Conflict(msgExists)
	}
	return apiutil.NotFound(err, msgNotFound)
}

func expiry(raw string) (time.Time, error) {
	t, ok := apiutil.ParseTime(raw)
	if !ok {
		return time.Time{}, apierr.Invalid(msgBadExpiry)
	}
	return t, nil
}

func (h *Handler) hostingClient(ctx context.Context, raw string) (primitive.ObjectID, error) {
	id, err := apiutil.ParseID(raw, "client")
	if err != nil {
		return id, err
	}
	ok, err := h.Clients.Exists(ctx, id)
	if err != nil {
		return id, err
	}
	if !ok {
		return id, apierr.Invalid(msgClientNotFound)
	}
	return id, nil
}

// ServeList handles GET / with status, registrar, clientId and search
// filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	client, err := apiutil.OptionalID(apiutil.Filter(r, "clientId"), "client")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "domains list")
	defer cancel()

	f := domainstore.ListFilter{
		Status:    apiutil.Filter(r, "status"),
		Registrar: apiutil.Filter(r, "registrar"),
		ClientID:  client,
		Search:    apiutil.Search(r),
	}
	p := paging.Parse(r)
	items, total, err := h.Domains.List(ctx, f, p)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	views, err := h.views(ctx, items)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	apiutil.WriteList(w, "domains", views, p, total)
}

// ServeExpiring handles GET /expiring?days=N. The result is not paged.
func (h *Handler) ServeExpiring(w http.ResponseWriter, r *http.Request) {
	days := DefaultExpiringDays
	if raw := strings.TrimSpace(query.Get(r, "days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxExpiringDays {
			uierrors.Write(w, r, h.Log, apierr.Invalid("Days must be a whole number between 0 and 3650"))
			return
		}
		days = n
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "domains expiring")
	defer cancel()

	items, err := h.Domains.Expiring(ctx, h.now(), days)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	views, err := h.views(ctx, items)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	jsonutil.Write(w, http.StatusOK, map[string]any{"domains": views, "days": days})
}

// ServeDomain handles GET /{id}.
func (h *Handler) ServeDomain(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "domain")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "domain get")
	defer cancel()

	d, err := h.Domains.GetByID(ctx, id)
	if err != nil {
		uierrors.Write(w, r, h.Log, storeErr(err))
		return
	}
	v, err := h.view(ctx, d)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	apiutil.WriteItem(w, http.StatusOK, "", "domain", v)
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
	exp, err := expiry(req.ExpiryDate)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "domain create")
	defer cancel()

	client, err := h.hostingClient(ctx, req.ClientID)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	exists, err := h.Domains.NameExists(ctx, req.Name)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	if exists {
		uierrors.Write(w, r, h.Log, apierr.Conflict(msgExists))
		return
	}

	by := actor.UserID
	d, err := h.Domains.Create(ctx, models.Domain{
		Name:       req.Name,
		ClientID:   client,
		Registrar:  strings.TrimSpace(req.Registrar),
		ExpiryDate: exp,
		Status:     strings.TrimSpace(req.Status),
		AutoRenew:  req.AutoRenew,
		DNSRecords: req.DNSRecords,
		SSLStatus:  strings.TrimSpace(req.SSLStatus),
		CreatedBy:  &by,
	})
	if err != nil {
		uierrors.Write(w, r, h.Log, storeErr(err))
		return
	}
	v, err := h.view(ctx, d)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	h.Log.Info("domain registered", zap.String("domain", d.Name), zap.Time("expires", d.ExpiryDate))
	apiutil.WriteItem(w, http.StatusCreated, "Domain created successfully", "domain", v)
}

// HandleUpdate handles PUT /{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "domain")
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

	upd := domainstore.Update{
		Name:       req.Name,
		Registrar:  apiutil.Trim(req.Registrar),
		Status:     apiutil.Trim(req.Status),
		AutoRenew:  req.AutoRenew,
		DNSRecords: req.DNSRecords,
		SSLStatus:  apiutil.Trim(req.SSLStatus),
	}
	if req.ExpiryDate != nil {
		exp, err := expiry(*req.ExpiryDate)
		if err != nil {
			uierrors.Write(w, r, h.Log, err)
			return
		}
		upd.ExpiryDate = &exp
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "domain update")
	defer cancel()

	if req.ClientID != nil {
		client, err := h.hostingClient(ctx, *req.ClientID)
		if err != nil {
			uierrors.Write(w, r, h.Log, err)
			return
		}
		upd.ClientID = &client
	}

	d, err := h.Domains.Update(ctx, id, upd)
	if err != nil {
		uierrors.Write(w, r, h.Log, storeErr(err))
		return
	}
	v, err := h.view(ctx, d)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	apiutil.WriteItem(w, http.StatusOK, "Domain updated successfully", "domain", v)
}

// HandleDelete handles DELETE /{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "domain")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "domain delete")
	defer cancel()

	if err := h.Domains.Delete(ctx, id); err != nil {
		uierrors.Write(w, r, h.Log, storeErr(err))
		return
	}
	jsonutil.Write(w, http.StatusOK, jsonutil.Message{Message: "Domain deleted successfully"})
}
