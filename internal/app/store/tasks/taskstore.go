package taskstore

import (
	"context"
	"time"

	"github.com/dalemusser/hostpro/internal/app/store/crud"
	"github.com/dalemusser/hostpro/internal/app/system/paging"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = crud.ErrNotFound

// Store reads and writes tasks. A Store returned by InSite only sees
// tasks of that site.
type Store struct {
	tasks crud.Collection[models.Task]
	site  string
}

func New(db *mongo.Database) *Store {
	return &Store{tasks: crud.New[models.Task](db, "tasks")}
}

// InSite returns a view of s pinned to site.
func (s *Store) InSite(site string) *Store {
	return &Store{tasks: s.tasks, site: site}
}

func (s *Store) Site() string { return s.site }

func (s *Store) scoped(filter bson.M) bson.M {
	if s.site != "" {
		filter["site"] = s.site
	}
	return filter
}

func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	if s.site != "" {
		t.Site = s.site
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	t.ID = primitive.NewObjectID()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == models.TaskCompleted && t.CompletedAt == nil {
		t.CompletedAt = &now
	}
	if err := s.tasks.Insert(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Task, error) {
	return s.tasks.Get(ctx, s.scoped(bson.M{"_id": id}))
}

type ListFilter struct {
	Status     string
	Priority   string
	Site       string
	AssignedTo *primitive.ObjectID
}

// List returns one page of tasks, newest first. A pinned store ignores f.Site.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Params) ([]models.Task, int64, error) {
	filter := bson.M{}
	crud.Eq(filter, "status", f.Status)
	crud.Eq(filter, "priority", f.Priority)
	crud.Eq(filter, "site", f.Site)
	if f.AssignedTo != nil {
		filter["assignedTo"] = *f.AssignedTo
	}
	return s.tasks.Page(ctx, s.scoped(filter), p)
}

// Update holds the fields to change; nil means unchanged. ClearAssignee
// and ClearDueDate unset the field.
type Update struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	AssignedTo    *primitive.ObjectID
	ClearAssignee bool
	DueDate       *time.Time
	ClearDueDate  bool
	Site          *string
	Tags          []string
}

// Update applies upd. Moving into completed stamps completedAt; moving
// out of it clears the stamp.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.Task, error) {
	now := time.Now().UTC()
	set := bson.M{"updatedAt": now}
	unset := bson.M{}

	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
		if *upd.Status != models.TaskCompleted {
			unset["completedAt"] = ""
		}
	}
	if upd.Priority != nil {
		set["priority"] = *upd.Priority
	}
	switch {
	case upd.ClearAssignee:
		unset["assignedTo"] = ""
	case upd.AssignedTo != nil:
		set["assignedTo"] = *upd.AssignedTo
	}
	switch {
	case upd.ClearDueDate:
		unset["dueDate"] = ""
	case upd.DueDate != nil:
		set["dueDate"] = upd.DueDate.UTC()
	}
	if upd.Site != nil && s.site == "" {
		set["site"] = *upd.Site
	}
	if upd.Tags != nil {
		set["tags"] = upd.Tags
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	t, err := s.tasks.Update(ctx, s.scoped(bson.M{"_id": id}), update)
	if err != nil || t.Status != models.TaskCompleted || t.CompletedAt != nil {
		return t, err
	}
	return s.tasks.SetOnce(ctx, s.scoped(bson.M{"_id": id}), "completedAt", now)
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.tasks.Delete(ctx, s.scoped(bson.M{"_id": id}))
}
