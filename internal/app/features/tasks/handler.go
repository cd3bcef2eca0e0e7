// internal/app/features/tasks/handler.go
package tasks

import (
	"context"
	"time"

	"github.com/dalemusser/hostpro/internal/app/store/crud"
	taskstore "github.com/dalemusser/hostpro/internal/app/store/tasks"
	userstore "github.com/dalemusser/hostpro/internal/app/store/users"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the tasks API. A handler from ForWorkline is pinned to
// that workline's site.
type Handler struct {
	Tasks    *taskstore.Store
	Users    *userstore.Store
	Log      *zap.Logger
	workline models.Workline

	now func() time.Time
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Tasks: taskstore.New(db),
		Users: userstore.New(db),
		Log:   logger,
		now:   time.Now,
	}
}

// ForWorkline returns a copy of h pinned to w's site.
func (h *Handler) ForWorkline(w models.Workline) *Handler {
	cp := *h
	cp.Tasks = h.Tasks.InSite(string(w))
	cp.workline = w
	return &cp
}

// taskView is the wire form of a task: people resolved and overdue
// computed as of the response.
type taskView struct {
	models.Task
	AssignedTo *models.UserRef `json:"assignedTo"`
	AssignedBy *models.UserRef `json:"assignedBy"`
	Overdue    bool            `json:"overdue"`
}

func (h *Handler) views(ctx context.Context, tasks []models.Task) ([]taskView, error) {
	ids := make([]*primitive.ObjectID, 0, 2*len(tasks))
	for i := range tasks {
		ids = append(ids, tasks[i].AssignedTo, tasks[i].AssignedBy)
	}
	refs, err := h.Users.Refs(ctx, crud.UniqueIDs(ids...))
	if err != nil {
		return nil, err
	}
	lookup := func(id *primitive.ObjectID) *models.UserRef {
		if id == nil {
			return nil
		}
		if ref, ok := refs[*id]; ok {
			return &ref
		}
		return nil
	}

	now := h.now()
	out := make([]taskView, len(tasks))
	for i, t := range tasks {
		out[i] = taskView{
			Task:       t,
			AssignedTo: lookup(t.AssignedTo),
			AssignedBy: lookup(t.AssignedBy),
			Overdue:    t.Overdue(now),
		}
	}
	return out, nil
}

func (h *Handler) view(ctx context.Context, t models.Task) (taskView, error) {
	vs, err := h.views(ctx, []models.Task{t})
	if err != nil {
		return taskView{}, err
	}
	return vs[0], nil
}
