package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/hostpro/internal/app/system/authz"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// FixturePassword is the password of every fixture user.
const FixturePassword = "password123"

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert %s fixture: %v", coll, err)
	}
}

// CreateUser creates an active user whose password is FixturePassword.
// The hash uses the minimum bcrypt cost to keep tests fast.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string, role models.Role, worklines ...models.Workline) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(FixturePassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash fixture password: %v", err)
	}
	if len(worklines) == 0 {
		worklines = []models.Workline{models.DefaultWorkline}
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	u := models.User{
		ID:              primitive.NewObjectID(),
		Email:           email,
		PasswordHash:    string(hash),
		Name:            name,
		Role:            role,
		Permissions:     authz.Strings(authz.ForRole(role)),
		Department:      "General",
		Worklines:       worklines,
		PrimaryWorkline: worklines[0],
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateAdmin creates an admin in both worklines.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleAdmin, models.AllWorklines...)
}

// CreateInactiveUser creates a deactivated user.
func (f *Fixtures) CreateInactiveUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	u := f.CreateUser(ctx, name, email, models.RoleUser)
	if _, err := f.db.Collection("users").UpdateByID(ctx, u.ID,
		map[string]any{"$set": map[string]any{"isActive": false}}); err != nil {
		f.t.Fatalf("deactivate fixture user: %v", err)
	}
	u.IsActive = false
	return u
}

// CreatePage creates a page on site with the given status.
func (f *Fixtures) CreatePage(ctx context.Context, title, slug, site string, status models.PageStatus, author *primitive.ObjectID) models.Page {
	f.t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	p := models.Page{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Slug:      slug,
		Content:   "<p>" + title + "</p>",
		Status:    status,
		Site:      site,
		AuthorID:  author,
		MetaTitle: title,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if status == models.PagePublished {
		p.PublishedAt = &now
	}
	f.insert(ctx, "pages", p)
	return p
}

// CreateTask creates a pending medium-priority task on site.
func (f *Fixtures) CreateTask(ctx context.Context, title, site string, assignedTo *primitive.ObjectID) models.Task {
	f.t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	task := models.Task{
		ID:         primitive.NewObjectID(),
		Title:      title,
		Status:     models.TaskPending,
		Priority:   models.PriorityMedium,
		AssignedTo: assignedTo,
		Site:       site,
		Tags:       []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(ctx, "tasks", task)
	return task
}

// CreateHostingClient creates an active hosting client.
func (f *Fixtures) CreateHostingClient(ctx context.Context, name, email, domain string) models.Client {
	f.t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	c := models.Client{
		ID:        primitive.NewObjectID(),
		Workline:  models.WorklineHosting,
		Name:      name,
		Email:     email,
		Company:   name + " Inc",
		Status:    "active",
		Plan:      models.PlanShared,
		Domain:    domain,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "clients", c)
	return c
}

// CreateCyberClient creates an active cybersecurity client.
func (f *Fixtures) CreateCyberClient(ctx context.Context, name, email string) models.Client {
	f.t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	c := models.Client{
		ID:        primitive.NewObjectID(),
		Workline:  models.WorklineCybersecurity,
		Name:      name,
		Email:     email,
		Company:   name + " Ltd",
		Status:    "active",
		RiskLevel: models.SeverityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "clients", c)
	return c
}
