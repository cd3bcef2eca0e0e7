// internal/app/features/users/edit.go
package users

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
	"github.com/dalemusser/hostpro/internal/app/system/timeouts"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"go.uber.org/zap"
)

// ErrUserExists is the message for an email that is already registered.
const ErrUserExists = "User already exists"

// HandleCreate handles POST /api/users.
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

	role := models.RoleUser
	if req.Role != "" {
		role, _ = models.ParseRole(req.Role)
	}
	worklines, primary, err := apiutil.Worklines(req.Worklines, req.PrimaryWorkline)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "user create")
	defer cancel()

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
		uierrors.Write(w, r, h.Log, apierr.Conflict(ErrUserExists))
		return
	}
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	h.AuditLog.UserCreated(ctx, r, actor.UserID, u.ID, u.Role)
	h.Log.Info("user created", zap.String("user_id", u.ID.Hex()), zap.String("role", string(u.Role)))
	apiutil.WriteItem(w, http.StatusCreated, "User created successfully", "user", u)
}

// HandleUpdate handles PUT /api/users/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentPrincipal(r)

	id, err := apiutil.PathID(r, "user")
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "user update")
	defer cancel()

	current, err := h.Users.GetByID(ctx, id)
	if err != nil {
		uierrors.Write(w, r, h.Log, apiutil.NotFound(err, "User not found"))
		return
	}
	upd, changed, err := buildUpdate(req, current)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	u, err := h.Users.Update(ctx, id, upd)
	switch {
	case errors.Is(err, userstore.ErrDuplicateEmail):
		uierrors.Write(w, r, h.Log, apierr.Conflict(ErrUserExists))
		return
	case err != nil:
		uierrors.Write(w, r, h.Log, apiutil.NotFound(err, "User not found"))
		return
	}

	h.AuditLog.UserUpdated(ctx, r, actor.UserID, u.ID, strings.Join(changed, ","))
	apiutil.WriteItem(w, http.StatusOK, "User updated successfully", "user", u)
}

// HandleDelete handles DELETE /api/users/{id}. Users are deactivated, never
// removed.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentPrincipal(r)

	id, err := apiutil.PathID(r, "user")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	if id == actor.UserID {
		uierrors.Write(w, r, h.Log, apierr.Invalid("You cannot delete your own account"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "user delete")
	defer cancel()

	if err := h.Users.Deactivate(ctx, id); err != nil {
		uierrors.Write(w, r, h.Log, apiutil.NotFound(err, "User not found"))
		return
	}

	h.AuditLog.UserDeactivated(ctx, r, actor.UserID, id)
	jsonutil.Write(w, http.StatusOK, jsonutil.Message{Message: "User deleted successfully"})
}

// buildUpdate turns a validated request into a store update and the list
// of field names it touches. current is the stored user.
func buildUpdate(req updateRequest, current models.User) (userstore.Update, []string, error) {
	var upd userstore.Update
	var changed []string

	if req.Email != nil {
		upd.Email = req.Email
		changed = append(changed, "email")
	}
	if req.Name != nil {
		upd.Name = req.Name
		changed = append(changed, "name")
	}
	if req.Department != nil {
		upd.Department = req.Department
		changed = append(changed, "department")
	}
	if req.Role != nil {
		role, _ := models.ParseRole(*req.Role)
		upd.Role = &role
		changed = append(changed, "role")
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return upd, nil, err
		}
		upd.PasswordHash = &hash
		changed = append(changed, "password")
	}
	if req.Worklines != nil || req.PrimaryWorkline != nil {
		names := req.Worklines
		if names == nil {
			for _, w := range current.EffectiveWorklines() {
				names = append(names, string(w))
			}
		}
		primary := ""
		if req.PrimaryWorkline != nil {
			primary = *req.PrimaryWorkline
		}
		worklines, p, err := apiutil.Worklines(names, primary)
		if err != nil {
			return upd, nil, err
		}
		// Without an explicit primary, keep the stored one while it is
		// still a member.
		if req.PrimaryWorkline == nil && models.ContainsWorkline(worklines, current.EffectivePrimaryWorkline()) {
			p = current.EffectivePrimaryWorkline()
		}
		if req.Worklines != nil {
			upd.Worklines = worklines
			changed = append(changed, "worklines")
		}
		upd.PrimaryWorkline = &p
		changed = append(changed, "primaryWorkline")
	}
	if req.IsActive != nil {
		upd.IsActive = req.IsActive
		changed = append(changed, "isActive")
	}
	return upd, changed, nil
}
