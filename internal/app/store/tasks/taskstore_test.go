package taskstore_test

import (
	"errors"
	"testing"
	"time"

	taskstore "github.com/dalemusser/hostpro/internal/app/store/tasks"
	"github.com/dalemusser/hostpro/internal/app/system/paging"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"github.com/dalemusser/hostpro/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db).InSite("hosting")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	task, err := store.Create(ctx, models.Task{
		Title:    "Renew cert",
		Status:   models.TaskPending,
		Priority: models.PriorityHigh,
		Site:     "global",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Site != "hosting" {
		t.Errorf("Site = %q, want pinned hosting", task.Site)
	}
	if task.Tags == nil {
		t.Error("Tags should default to empty")
	}
	if task.CompletedAt != nil {
		t.Error("pending task should not be completed")
	}
}

func TestStore_List_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bob := fx.CreateUser(ctx, "Bob", "bob@example.com", models.RoleUser)
	fx.CreateTask(ctx, "One", "global", &bob.ID)
	fx.CreateTask(ctx, "Two", "hosting", nil)
	fx.CreateTask(ctx, "Three", "cybersecurity", nil)

	tests := []struct {
		name   string
		store  *taskstore.Store
		filter taskstore.ListFilter
		want   int64
	}{
		{"all", store, taskstore.ListFilter{}, 3},
		{"site", store, taskstore.ListFilter{Site: "hosting"}, 1},
		{"assignee", store, taskstore.ListFilter{AssignedTo: &bob.ID}, 1},
		{"status", store, taskstore.ListFilter{Status: "completed"}, 0},
		{"priority", store, taskstore.ListFilter{Priority: "medium"}, 3},
		{"pinned ignores site filter", store.InSite("cybersecurity"), taskstore.ListFilter{Site: "hosting"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, total, err := tt.store.List(ctx, tt.filter, paging.Params{Page: 1, Limit: 10})
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if total != tt.want {
				t.Errorf("total = %d, want %d", total, tt.want)
			}
		})
	}
}

func TestStore_Update_CompletionAndClears(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bob := fx.CreateUser(ctx, "Bob", "bob@example.com", models.RoleUser)
	task := fx.CreateTask(ctx, "Patch", "global", &bob.ID)

	done := models.TaskCompleted
	due := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	updated, err := store.Update(ctx, task.ID, taskstore.Update{Status: &done, DueDate: &due, ClearAssignee: true})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.CompletedAt == nil {
		t.Error("completedAt not stamped")
	}
	if updated.AssignedTo != nil {
		t.Errorf("AssignedTo = %v, want cleared", updated.AssignedTo)
	}
	if updated.DueDate == nil || !updated.DueDate.Equal(due) {
		t.Errorf("DueDate = %v, want %v", updated.DueDate, due)
	}

	reopened := models.TaskInProgress
	updated, err = store.Update(ctx, task.ID, taskstore.Update{Status: &reopened})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.CompletedAt != nil {
		t.Error("completedAt should be cleared when reopened")
	}
}

func TestStore_PinnedWritesStayInSite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	other := fx.CreateTask(ctx, "Global", "global", nil)
	hosting := taskstore.New(db).InSite("hosting")

	title := "Hijack"
	if _, err := hosting.Update(ctx, other.ID, taskstore.Update{Title: &title}); !errors.Is(err, taskstore.ErrNotFound) {
		t.Errorf("cross-site Update: err = %v, want ErrNotFound", err)
	}
	if err := hosting.Delete(ctx, other.ID); !errors.Is(err, taskstore.ErrNotFound) {
		t.Errorf("cross-site Delete: err = %v, want ErrNotFound", err)
	}
	if err := hosting.Delete(ctx, primitive.NewObjectID()); !errors.Is(err, taskstore.ErrNotFound) {
		t.Errorf("missing Delete: err = %v, want ErrNotFound", err)
	}
}

func TestStore_Update_CompletedAtStampedOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	task := fx.CreateTask(ctx, "Renew cert", "global", nil)
	done := models.TaskCompleted

	first, err := store.Update(ctx, task.ID, taskstore.Update{Status: &done})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if first.CompletedAt == nil {
		t.Fatal("completedAt not stamped")
	}

	time.Sleep(10 * time.Millisecond)
	title := "Renew cert (done)"
	again, err := store.Update(ctx, task.ID, taskstore.Update{Status: &done, Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if again.CompletedAt == nil || !again.CompletedAt.Equal(*first.CompletedAt) {
		t.Errorf("completedAt = %v, want unchanged %v", again.CompletedAt, first.CompletedAt)
	}
	if again.Title != title {
		t.Errorf("Title = %q, want %q", again.Title, title)
	}
}
