// internal/app/features/authapi/workline.go
package authapi

import (
	"errors"
	"fmt"
	"net/http"

	uierrors "github.com/dalemusser/hostpro/internal/app/features/errors"
	userstore "github.com/dalemusser/hostpro/internal/app/store/users"
	"github.com/dalemusser/hostpro/internal/app/system/apierr"
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/app/system/authz"
	"github.com/dalemusser/hostpro/internal/app/system/jsonutil"
	"github.com/dalemusser/hostpro/internal/app/system/metrics"
	"github.com/dalemusser/hostpro/internal/app/system/timeouts"
	"github.com/dalemusser/hostpro/internal/domain/models"
)

const (
	msgInvalidWorkline = "Invalid workline"
	msgUserGone        = "User not found or inactive"
	msgWorklineDenied  = "Access denied to this workline"
)

// currentUser reloads the caller's account. A token outlives the account it
// names, so a missing or deactivated user is an authentication failure.
func (h *Handler) currentUser(r *http.Request) (models.User, error) {
	p, _ := auth.CurrentPrincipal(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "current user")
	defer cancel()

	u, err := h.Users.GetByID(ctx, p.UserID)
	if errors.Is(err, userstore.ErrNotFound) || (err == nil && !u.IsActive) {
		return models.User{}, apierr.Unauthenticated(msgUserGone)
	}
	return u, err
}

// HandleSwitchWorkline handles POST /api/auth/switch-workline. It persists
// the new primary workline and issues a fresh token; the caller's old token
// is not touched.
func (h *Handler) HandleSwitchWorkline(w http.ResponseWriter, r *http.Request) {
	var req switchRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	target, ok := models.ParseWorkline(req.Workline)
	if !ok {
		uierrors.Write(w, r, h.Log, apierr.Invalid(msgInvalidWorkline))
		return
	}

	u, err := h.currentUser(r)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "switch workline")
	defer cancel()

	from := auth.NewPrincipal(u)
	next, err := from.SwitchWorkline(target)
	if errors.Is(err, auth.ErrWorklineDenied) {
		metrics.ObserveAuth("switch_workline", "denied")
		h.AuditLog.WorklineSwitchDenied(ctx, r, u.ID, target)
		uierrors.Write(w, r, h.Log, apierr.Forbidden(msgWorklineDenied))
		return
	}

	if err := h.Users.SetPrimaryWorkline(ctx, u.ID, target); err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	token, err := h.Tokens.Issue(next)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	h.setTokenCookie(w, token)

	metrics.ObserveAuth("switch_workline", "success")
	h.AuditLog.WorklineSwitched(ctx, r, u.ID, from.PrimaryWorkline, target)
	jsonutil.Write(w, http.StatusOK, switchResponse{
		Token:    token,
		Workline: target,
		Message:  fmt.Sprintf("Switched to %s workline", target),
	})
}

// ServeVerify handles GET /api/auth/verify. It answers from the stored
// account, not the token, so role and workline edits show up here first.
func (h *Handler) ServeVerify(w http.ResponseWriter, r *http.Request) {
	u, err := h.currentUser(r)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	worklines := u.EffectiveWorklines()
	jsonutil.Write(w, http.StatusOK, verifyResponse{
		User:                u,
		Worklines:           worklines,
		PrimaryWorkline:     u.EffectivePrimaryWorkline(),
		WorklinePermissions: authz.ForWorklines(worklines),
	})
}
