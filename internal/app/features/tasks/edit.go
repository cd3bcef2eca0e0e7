// internal/app/features/tasks/edit.go
package tasks

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/hostpro/internal/app/features/errors"
	taskstore "github.com/dalemusser/hostpro/internal/app/store/tasks"
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

const (
	msgBadDueDate      = "Due date must be an RFC 3339 timestamp or YYYY-MM-DD"
	msgAssigneeMissing = "Assigned user not found"
)

// assignee parses raw and checks the user exists.
func (h *Handler) assignee(ctx context.Context, raw string) (*primitive.ObjectID, error) {
	id, err := apiutil.OptionalID(raw, "user")
	if err != nil || id == nil {
		return id, err
	}
	if _, err := h.Users.GetByID(ctx, *id); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			return nil, apierr.Invalid(msgAssigneeMissing)
		}
		return nil, err
	}
	return id, nil
}

func dueDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, ok := apiutil.ParseTime(raw)
	if !ok {
		return nil, apierr.Invalid(msgBadDueDate)
	}
	return &t, nil
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
	due, err := dueDate(req.DueDate)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	status := models.TaskPending
	if req.Status != "" {
		status = models.TaskStatus(req.Status)
	}
	priority := models.PriorityMedium
	if req.Priority != "" {
		priority = models.TaskPriority(req.Priority)
	}
	site := strings.TrimSpace(req.Site)
	if site == "" {
		site = models.DefaultTaskSite
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "task create")
	defer cancel()

	assignedTo, err := h.assignee(ctx, req.AssignedTo)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	by := actor.UserID
	task, err := h.Tasks.Create(ctx, models.Task{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Status:      status,
		Priority:    priority,
		AssignedTo:  assignedTo,
		AssignedBy:  &by,
		DueDate:     due,
		Site:        site,
		Tags:        normalize.List(req.Tags),
	})
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	v, err := h.view(ctx, task)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	h.Log.Info("task created", zap.String("task_id", task.ID.Hex()), zap.String("site", task.Site))
	apiutil.WriteItem(w, http.StatusCreated, "Task created successfully", "task", v)
}

// HandleUpdate handles PUT /{id}. A null assignedTo or dueDate clears it.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "task")
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

	var upd taskstore.Update
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		upd.Title = &t
	}
	if req.Description != nil {
		d := strings.TrimSpace(*req.Description)
		upd.Description = &d
	}
	if req.Status != nil {
		st := models.TaskStatus(*req.Status)
		upd.Status = &st
	}
	if req.Priority != nil {
		p := models.TaskPriority(*req.Priority)
		upd.Priority = &p
	}
	if req.Site != nil {
		s := strings.TrimSpace(*req.Site)
		upd.Site = &s
	}
	if req.Tags != nil {
		upd.Tags = normalize.List(req.Tags)
	}
	if req.DueDate.Set {
		if req.DueDate.Null || strings.TrimSpace(req.DueDate.Value) == "" {
			upd.ClearDueDate = true
		} else if upd.DueDate, err = dueDate(req.DueDate.Value); err != nil {
			uierrors.Write(w, r, h.Log, err)
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "task update")
	defer cancel()

	if req.AssignedTo.Set {
		if req.AssignedTo.Null || strings.TrimSpace(req.AssignedTo.Value) == "" {
			upd.ClearAssignee = true
		} else if upd.AssignedTo, err = h.assignee(ctx, req.AssignedTo.Value); err != nil {
			uierrors.Write(w, r, h.Log, err)
			return
		}
	}

	task, err := h.Tasks.Update(ctx, id, upd)
	if err != nil {
		uierrors.Write(w, r, h.Log, apiutil.NotFound(err, "Task not found"))
		return
	}
	v, err := h.view(ctx, task)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	apiutil.WriteItem(w, http.StatusOK, "Task updated successfully", "task", v)
}

// HandleDelete handles DELETE /{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "task")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "task delete")
	defer cancel()

	if err := h.Tasks.Delete(ctx, id); err != nil {
		uierrors.Write(w, r, h.Log, apiutil.NotFound(err, "Task not found"))
		return
	}
	jsonutil.Write(w, http.StatusOK, jsonutil.Message{Message: "Task deleted successfully"})
}
