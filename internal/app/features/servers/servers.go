// internal/app/features/servers/servers.go
package servers

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/hostpro/internal/app/features/errors"
	serverstore "github.com/dalemusser/hostpro/internal/app/store/servers"
	"github.com/dalemusser/hostpro/internal/app/system/apierr"
	"github.com/dalemusser/hostpro/internal/app/system/apiutil"
	"github.com/dalemusser/hostpro/internal/app/system/jsonutil"
	"github.com/dalemusser/hostpro/internal/app/system/paging"
	"github.com/dalemusser/hostpro/internal/app/system/timeouts"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const msgNotFound = "Server not found"

// hostingClient parses raw and checks it names a hosting client.
func (h *Handler) hostingClient(ctx context.Context, raw string) (*primitive.ObjectID, error) {
	id, err := apiutil.OptionalID(raw, "client")
	if err != nil || id == nil {
		return id, err
	}
	ok, err := h.Clients.Exists(ctx, *id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apierr.Invalid("Client not found")
	}
	return id, nil
}

// ServeList handles GET / with status, type and location filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "servers list")
	defer cancel()

	f := serverstore.ListFilter{
		Status:   apiutil.Filter(r, "status"),
		Type:     apiutil.Filter(r, "type"),
		Location: apiutil.Filter(r, "location"),
	}
	p := paging.Parse(r)
	items, total, err := h.Servers.List(ctx, f, p)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	apiutil.WriteList(w, "servers", items, p, total)
}

// ServeServer handles GET /{id}.
func (h *Handler) ServeServer(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "server")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "server get")
	defer cancel()

	srv, err := h.Servers.GetByID(ctx, id)
	if err != nil {
		uierrors.Write(w, r, h.Log, apiutil.NotFound(err, msgNotFound))
		return
	}
	apiutil.WriteItem(w, http.StatusOK, "", "server", srv)
}

// HandleCreate handles POST /.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	if err := apiutil.Validate(req); err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "server create")
	defer cancel()

	client, err := h.hostingClient(ctx, req.ClientID)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	srv, err := h.Servers.Create(ctx, models.Server{
		Name:            strings.TrimSpace(req.Name),
		Type:            strings.TrimSpace(req.Type),
		Location:        strings.TrimSpace(req.Location),
		IPAddress:       strings.TrimSpace(req.IPAddress),
		Specifications:  req.Specifications,
		OperatingSystem: strings.TrimSpace(req.OperatingSystem),
		Status:          models.ServerStatus(req.Status),
		ClientID:        client,
		MonthlyPrice:    req.MonthlyPrice,
	})
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	h.Log.Info("server added", zap.String("server_id", srv.ID.Hex()), zap.String("ip", srv.IPAddress))
	apiutil.WriteItem(w, http.StatusCreated, "Server created successfully", "server", srv)
}

// HandleUpdate handles PUT /{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "server")
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

	upd := serverstore.Update{
		Name:            apiutil.Trim(req.Name),
		Type:            apiutil.Trim(req.Type),
		Location:        apiutil.Trim(req.Location),
		IPAddress:       apiutil.Trim(req.IPAddress),
		Specifications:  req.Specifications,
		OperatingSystem: apiutil.Trim(req.OperatingSystem),
		MonthlyPrice:    req.MonthlyPrice,
	}
	if req.Status != nil {
		st := models.ServerStatus(*req.Status)
		upd.Status = &st
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "server update")
	defer cancel()

	if req.ClientID != nil {
		if upd.ClientID, err = h.hostingClient(ctx, *req.ClientID); err != nil {
			uierrors.Write(w, r, h.Log, err)
			return
		}
	}

	srv, err := h.Servers.Update(ctx, id, upd)
	if err != nil {
		uierrors.Write(w, r, h.Log, apiutil.NotFound(err, msgNotFound))
		return
	}
	apiutil.WriteItem(w, http.StatusOK, "Server updated successfully", "server", srv)
}

// HandleDelete handles DELETE /{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "server")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "server delete")
	defer cancel()

	if err := h.Servers.Delete(ctx, id); err != nil {
		uierrors.Write(w, r, h.Log, apiutil.NotFound(err, msgNotFound))
		return
	}
	jsonutil.Write(w, http.StatusOK, jsonutil.Message{Message: "Server deleted successfully"})
}
