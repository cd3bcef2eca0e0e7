// internal/app/features/authapi/register.go
package authapi

import (
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/hostpro/internal/app/features/errors"
	userstore "github.com/dalemusser/hostpro/internal/app/store/users"
	"github.com/dalemusser/hostpro/internal/app/system/apierr"
	"github.com/dalemusser/hostpro/internal/app/system/apiutil"
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/app/system/jsonutil"
	"github.com/dalemusser/hostpro/internal/app/system/metrics"
	"github.com/dalemusser/hostpro/internal/app/system/timeouts"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"go.uber.org/zap"
)

// MsgUserExists answers a registration for an email already on file.
const MsgUserExists = "User already exists"

// HandleRegister handles POST /api/auth/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	if err := apiutil.Validate(req); err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	role := models.RoleUser
	if req.Role != "" {
		role, _ = models.ParseRole(req.Role)
	}
	worklines, primary, err := apiutil.Worklines(req.Worklines, req.PrimaryWorkline)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "register")
	defer cancel()

	exists, err := h.Users.EmailExists(ctx, req.Email)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	if exists {
		metrics.ObserveAuth("register", "conflict")
		uierrors.Write(w, r, h.Log, apierr.Conflict(MsgUserExists))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	u, err := h.Users.Create(ctx, models.User{
		Email:           req.Email,
		PasswordHash:    hash,
		Name:            req.Name,
		Role:            role,
		Department:      strings.TrimSpace(req.Department),
		Worklines:       worklines,
		PrimaryWorkline: primary,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		// Registered concurrently between the check and the insert.
		metrics.ObserveAuth("register", "conflict")
		uierrors.Write(w, r, h.Log, apierr.Conflict(MsgUserExists))
		return
	}
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	metrics.ObserveAuth("register", "success")
	h.AuditLog.UserRegistered(ctx, r, u)
	h.Log.Info("user registered", zap.String("user_id", u.ID.Hex()), zap.String("role", string(u.Role)))
	apiutil.WriteItem(w, http.StatusCreated, "User created successfully", "user", u)
}
