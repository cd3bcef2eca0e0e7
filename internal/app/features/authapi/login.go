// internal/app/features/authapi/login.go
package authapi

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/hostpro/internal/app/features/errors"
	userstore "github.com/dalemusser/hostpro/internal/app/store/users"
	"github.com/dalemusser/hostpro/internal/app/system/apierr"
	"github.com/dalemusser/hostpro/internal/app/system/apiutil"
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/app/system/jsonutil"
	"github.com/dalemusser/hostpro/internal/app/system/metrics"
	"github.com/dalemusser/hostpro/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Login failure messages. Unknown email and wrong password share one
// message so the response does not reveal which accounts exist.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgDeactivated        = "Account is deactivated"
)

// HandleLogin handles POST /api/auth/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	if err := apiutil.Validate(req); err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if errors.Is(err, userstore.ErrNotFound) {
		metrics.ObserveAuth("login", "unknown_user")
		h.AuditLog.LoginFailedUserNotFound(ctx, r, req.Email)
		uierrors.Write(w, r, h.Log, apierr.Unauthenticated(MsgInvalidCredentials))
		return
	}
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	if !u.IsActive {
		metrics.ObserveAuth("login", "inactive")
		h.AuditLog.LoginFailedUserInactive(ctx, r, u.ID, u.Email)
		uierrors.Write(w, r, h.Log, apierr.Unauthenticated(MsgDeactivated))
		return
	}
	if !auth.CheckPassword(req.Password, u.PasswordHash) {
		metrics.ObserveAuth("login", "wrong_password")
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, u.Email)
		uierrors.Write(w, r, h.Log, apierr.Unauthenticated(MsgInvalidCredentials))
		return
	}

	now := h.now().UTC()
	if err := h.Users.TouchLastLogin(ctx, u.ID, now); err != nil {
		h.Log.Warn("could not record last login", zap.Error(err), zap.String("user_id", u.ID.Hex()))
	} else {
		u.LastLogin = &now
	}

	p := auth.NewPrincipal(u)
	token, err := h.Tokens.Issue(p)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	h.setTokenCookie(w, token)

	metrics.ObserveAuth("login", "success")
	h.AuditLog.LoginSuccess(ctx, r, u.ID, u.Email)
	jsonutil.Write(w, http.StatusOK, loginResponse{
		Token:              token,
		User:               u,
		AvailableWorklines: p.Worklines,
		PrimaryWorkline:    p.PrimaryWorkline,
	})
}
