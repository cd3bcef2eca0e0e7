package userstore_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	userstore "github.com/dalemusser/hostpro/internal/app/store/users"
	"github.com/dalemusser/hostpro/internal/app/system/authz"
	"github.com/dalemusser/hostpro/internal/app/system/indexes"
	"github.com/dalemusser/hostpro/internal/app/system/paging"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"github.com/dalemusser/hostpro/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func setup(t *testing.T) (*userstore.Store, *testutil.Fixtures, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	return userstore.New(db), testutil.NewFixtures(t, db), db
}

func TestStore_Create_Defaults(t *testing.T) {
	store, _, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Email:        "  Jane@Example.COM ",
		PasswordHash: "hash",
		Name:         " Jane ",
		Role:         models.RoleModerator,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Email != "jane@example.com" || created.Name != "Jane" {
		t.Errorf("not normalized: email %q name %q", created.Email, created.Name)
	}
	if created.Department != userstore.DefaultDepartment {
		t.Errorf("Department = %q", created.Department)
	}
	if !reflect.DeepEqual(created.Worklines, []models.Workline{models.WorklineCybersecurity}) {
		t.Errorf("Worklines = %v", created.Worklines)
	}
	if created.PrimaryWorkline != models.WorklineCybersecurity {
		t.Errorf("PrimaryWorkline = %q", created.PrimaryWorkline)
	}
	want := authz.Strings(authz.ForRole(models.RoleModerator))
	if !reflect.DeepEqual(created.Permissions, want) {
		t.Errorf("Permissions = %v, want %v", created.Permissions, want)
	}
	if !created.IsActive {
		t.Error("new user should be active")
	}

	got, err := store.GetByEmail(ctx, "JANE@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByEmail returned %s, want %s", got.ID.Hex(), created.ID.Hex())
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	store, fx, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUser(ctx, "Taken", "taken@example.com", models.RoleUser)
	_, err := store.Create(ctx, models.User{Email: "TAKEN@example.com", Name: "Other", Role: models.RoleUser, PasswordHash: "x"})
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestStore_Update_RoleReplacesPermissions(t *testing.T) {
	store, fx, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Mod", "mod@example.com", models.RoleModerator)
	role := models.RoleUser
	updated, err := store.Update(ctx, u.ID, userstore.Update{Role: &role})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := authz.Strings(authz.ForRole(models.RoleUser))
	if !reflect.DeepEqual(updated.Permissions, want) {
		t.Errorf("Permissions = %v, want exactly %v", updated.Permissions, want)
	}
}

func TestStore_Update_NotFoundAndDuplicate(t *testing.T) {
	store, fx, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	name := "Ghost"
	if _, err := store.Update(ctx, primitive.NewObjectID(), userstore.Update{Name: &name}); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("missing user: err = %v, want ErrNotFound", err)
	}

	fx.CreateUser(ctx, "A", "a@example.com", models.RoleUser)
	b := fx.CreateUser(ctx, "B", "b@example.com", models.RoleUser)
	email := "a@example.com"
	if _, err := store.Update(ctx, b.ID, userstore.Update{Email: &email}); !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("email clash: err = %v, want ErrDuplicateEmail", err)
	}
}

func TestStore_List_Filters(t *testing.T) {
	store, fx, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUser(ctx, "Alice Admin", "alice@example.com", models.RoleAdmin)
	fx.CreateUser(ctx, "Bob User", "bob@example.com", models.RoleUser)
	fx.CreateInactiveUser(ctx, "Carol Gone", "carol@example.com")

	active := true
	tests := []struct {
		name   string
		filter userstore.ListFilter
		want   int64
	}{
		{"all", userstore.ListFilter{}, 3},
		{"role", userstore.ListFilter{Role: "user"}, 2},
		{"search name", userstore.ListFilter{Search: "alice"}, 1},
		{"search email", userstore.ListFilter{Search: "BOB@"}, 1},
		{"search is quoted", userstore.ListFilter{Search: ".*"}, 0},
		{"active only", userstore.ListFilter{Active: &active}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, total, err := store.List(ctx, tt.filter, paging.Params{Page: 1, Limit: 10})
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if total != tt.want || int64(len(users)) != tt.want {
				t.Errorf("total = %d, len = %d, want %d", total, len(users), tt.want)
			}
		})
	}
}

func TestStore_DeactivateAndLastLogin(t *testing.T) {
	store, fx, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Dee", "dee@example.com", models.RoleUser)
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	if err := store.TouchLastLogin(ctx, u.ID, at); err != nil {
		t.Fatalf("TouchLastLogin: %v", err)
	}
	if err := store.Deactivate(ctx, u.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.IsActive {
		t.Error("user still active")
	}
	if got.LastLogin == nil || !got.LastLogin.Equal(at) {
		t.Errorf("LastLogin = %v, want %v", got.LastLogin, at)
	}
}

func TestStore_Refs(t *testing.T) {
	store, fx, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fx.CreateUser(ctx, "Ann", "ann@example.com", models.RoleUser)
	missing := primitive.NewObjectID()
	refs, err := store.Refs(ctx, []primitive.ObjectID{a.ID, missing})
	if err != nil {
		t.Fatalf("Refs: %v", err)
	}
	if refs[a.ID] != (models.UserRef{ID: a.ID, Name: "Ann", Email: "ann@example.com"}) {
		t.Errorf("ref = %+v", refs[a.ID])
	}
	if _, ok := refs[missing]; ok {
		t.Error("unknown id resolved")
	}
}

func TestStore_EnsureAdmin_Idempotent(t *testing.T) {
	store, _, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, created, err := store.EnsureAdmin(ctx, "admin@example.com", "hash", "Admin User")
	if err != nil || !created {
		t.Fatalf("first EnsureAdmin: created=%v err=%v", created, err)
	}
	if first.Role != models.RoleAdmin || len(first.Worklines) != len(models.AllWorklines) {
		t.Errorf("admin = role %q worklines %v", first.Role, first.Worklines)
	}
	second, created, err := store.EnsureAdmin(ctx, "admin@example.com", "other", "Someone")
	if err != nil || created {
		t.Fatalf("second EnsureAdmin: created=%v err=%v", created, err)
	}
	if second.ID != first.ID || second.PasswordHash != "hash" {
		t.Error("existing admin was modified")
	}
}
