// internal/app/features/tasks/list.go
package tasks

import (
	"net/http"

	uierrors "github.com/dalemusser/hostpro/internal/app/features/errors"
	taskstore "github.com/dalemusser/hostpro/internal/app/store/tasks"
	"github.com/dalemusser/hostpro/internal/app/system/apiutil"
	"github.com/dalemusser/hostpro/internal/app/system/paging"
	"github.com/dalemusser/hostpro/internal/app/system/timeouts"
)

// ServeList handles GET / with status, priority, site and assignedTo filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	assignee, err := apiutil.OptionalID(apiutil.Filter(r, "assignedTo"), "user")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "tasks list")
	defer cancel()

	f := taskstore.ListFilter{
		Status:     apiutil.Filter(r, "status"),
		Priority:   apiutil.Filter(r, "priority"),
		Site:       apiutil.Filter(r, "site"),
		AssignedTo: assignee,
	}
	p := paging.Parse(r)
	tasks, total, err := h.Tasks.List(ctx, f, p)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	views, err := h.views(ctx, tasks)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	apiutil.WriteList(w, "tasks", views, p, total)
}

// ServeTask handles GET /{id}.
func (h *Handler) ServeTask(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "task")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "task get")
	defer cancel()

	task, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		uierrors.Write(w, r, h.Log, apiutil.NotFound(err, "Task not found"))
		return
	}
	v, err := h.view(ctx, task)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	apiutil.WriteItem(w, http.StatusOK, "", "task", v)
}
