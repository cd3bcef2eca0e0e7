// internal/app/features/users/list.go
package users

import (
	"net/http"
	"strconv"

	uierrors "github.com/dalemusser/hostpro/internal/app/features/errors"
	userstore "github.com/dalemusser/hostpro/internal/app/store/users"
	"github.com/dalemusser/hostpro/internal/app/system/apierr"
	"github.com/dalemusser/hostpro/internal/app/system/apiutil"
	"github.com/dalemusser/hostpro/internal/app/system/paging"
	"github.com/dalemusser/hostpro/internal/app/system/timeouts"
)

// ServeList handles GET /api/users.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "users list")
	defer cancel()

	f := userstore.ListFilter{
		Search:     apiutil.Search(r),
		Role:       apiutil.Filter(r, "role"),
		Department: apiutil.Filter(r, "department"),
	}
	if s := apiutil.Filter(r, "active"); s != "" {
		active, err := strconv.ParseBool(s)
		if err != nil {
			uierrors.Write(w, r, h.Log, apierr.Invalid("active must be true or false"))
			return
		}
		f.Active = &active
	}

	p := paging.Parse(r)
	users, total, err := h.Users.List(ctx, f, p)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	apiutil.WriteList(w, "users", users, p, total)
}

// ServeUser handles GET /api/users/{id}.
func (h *Handler) ServeUser(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "user")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "user get")
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		uierrors.Write(w, r, h.Log, apiutil.NotFound(err, "User not found"))
		return
	}
	apiutil.WriteItem(w, http.StatusOK, "", "user", u)
}
