package pages_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dalemusser/hostpro/internal/app/features/pages"
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/app/system/indexes"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"github.com/dalemusser/hostpro/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type env struct {
	h      *pages.Handler
	gate   *auth.Gate
	router chi.Router
	fx     *testutil.Fixtures
	author models.User
	token  string
	ts     *auth.TokenService
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	ts := testutil.NewTokenService()
	gate := auth.NewGate(ts, "", zap.NewNop())
	h := pages.NewHandler(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	author := fx.CreateUser(ctx, "Editor", "editor@example.com", models.RoleModerator, models.WorklineCybersecurity)

	return env{
		h:      h,
		gate:   gate,
		router: pages.Routes(h, gate),
		fx:     fx,
		author: author,
		token:  testutil.TokenForUser(t, ts, author),
		ts:     ts,
	}
}

func (e env) do(t *testing.T, method, target string, body any) *testutil.ResponseRecorder {
	t.Helper()
	req := testutil.NewJSONRequest(t, method, target, body)
	if e.token != "" {
		req = testutil.WithBearer(req, e.token)
	}
	rec := testutil.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type pageBody struct {
	Message string `json:"message"`
	Page    struct {
		ID          string  `json:"id"`
		Title       string  `json:"title"`
		Slug        string  `json:"slug"`
		Content     string  `json:"content"`
		Excerpt     string  `json:"excerpt"`
		Status      string  `json:"status"`
		Site        string  `json:"site"`
		MetaTitle   string  `json:"metaTitle"`
		PublishedAt *string `json:"publishedAt"`
		Author      *struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"author"`
	} `json:"page"`
}

func TestCreate_Defaults(t *testing.T) {
	e := setup(t)

	rec := e.do(t, http.MethodPost, "/", map[string]any{
		"title":   "Hello, World!",
		"content": `<p>Welcome <script>alert(1)</script>aboard</p>`,
	})
	rec.AssertStatus(t, http.StatusCreated)

	var body pageBody
	rec.Decode(t, &body)
	if body.Message != "Page created successfully" {
		t.Errorf("message: got %q", body.Message)
	}
	p := body.Page
	if p.Slug != "hello-world" {
		t.Errorf("slug: got %q, want hello-world", p.Slug)
	}
	if p.Status != "draft" || p.Site != models.DefaultPageSite {
		t.Errorf("status/site: got %q/%q", p.Status, p.Site)
	}
	if p.MetaTitle != "Hello, World!" {
		t.Errorf("metaTitle: got %q, want the title", p.MetaTitle)
	}
	if p.PublishedAt != nil {
		t.Error("draft must not carry publishedAt")
	}
	if p.Excerpt == "" {
		t.Error("excerpt should be derived from content")
	}
	if p.Author == nil || p.Author.Email != "editor@example.com" {
		t.Errorf("author: got %+v", p.Author)
	}
	rec.AssertContains(t, "aboard")
	if strings.Contains(p.Content, "<script") {
		t.Errorf("content not sanitized: %q", p.Content)
	}
}

func TestCreate_Rejects(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	e.fx.CreatePage(ctx, "About Us", "about-us", models.DefaultPageSite, models.PageDraft, nil)

	tests := []struct {
		name   string
		body   map[string]any
		status int
		msg    string
	}{
		{"missing title", map[string]any{"content": "x"}, http.StatusBadRequest, "Title is required."},
		{"missing content", map[string]any{"title": "x"}, http.StatusBadRequest, "Content is required."},
		{"bad status", map[string]any{"title": "x", "content": "y", "status": "live"}, http.StatusBadRequest, "Status must be one of: draft, published, archived."},
		{"no slug", map[string]any{"title": "!!!", "content": "y"}, http.StatusBadRequest, "Title must contain at least one letter or digit"},
		{"slug taken", map[string]any{"title": "About us", "content": "y"}, http.StatusConflict, "Page with this slug already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, http.MethodPost, "/", tt.body)
			rec.AssertStatus(t, tt.status)
			rec.AssertError(t, tt.msg)
		})
	}

	// Same slug on another site is fine.
	rec := e.do(t, http.MethodPost, "/", map[string]any{"title": "About us", "content": "y", "site": "hosting"})
	rec.AssertStatus(t, http.StatusCreated)
}

func TestUpdate_RegeneratesSlugAndPublishes(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	page := e.fx.CreatePage(ctx, "Old Title", "old-title", models.DefaultPageSite, models.PageDraft, &e.author.ID)
	e.fx.CreatePage(ctx, "Taken", "taken", models.DefaultPageSite, models.PageDraft, nil)

	rec := e.do(t, http.MethodPut, "/"+page.ID.Hex(), map[string]any{"title": "New Title", "status": "published"})
	rec.AssertStatus(t, http.StatusOK)

	var body pageBody
	rec.Decode(t, &body)
	if body.Message != "Page updated successfully" {
		t.Errorf("message: got %q", body.Message)
	}
	if body.Page.Slug != "new-title" {
		t.Errorf("slug: got %q, want new-title", body.Page.Slug)
	}
	if body.Page.Status != "published" || body.Page.PublishedAt == nil {
		t.Errorf("publish: status %q publishedAt %v", body.Page.Status, body.Page.PublishedAt)
	}

	// Keeping its own title is not a conflict.
	rec = e.do(t, http.MethodPut, "/"+page.ID.Hex(), map[string]any{"title": "New Title"})
	rec.AssertStatus(t, http.StatusOK)

	rec = e.do(t, http.MethodPut, "/"+page.ID.Hex(), map[string]any{"title": "Taken"})
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertError(t, "Page with this slug already exists")
}

func TestStatusAndDelete(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	page := e.fx.CreatePage(ctx, "Guide", "guide", models.DefaultPageSite, models.PageDraft, nil)

	rec := e.do(t, http.MethodPatch, "/"+page.ID.Hex()+"/status", map[string]any{"status": "published"})
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"publishedAt"`)

	e.token = ""
	rec = e.do(t, http.MethodGet, "/public/"+models.DefaultPageSite+"/guide", nil)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"title":"Guide"`)

	rec = e.do(t, http.MethodPost, "/"+page.ID.Hex()+"/view", nil)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"views":1`)

	e.token = testutil.TokenForUser(t, e.ts, e.author)
	rec = e.do(t, http.MethodDelete, "/"+page.ID.Hex(), nil)
	rec.AssertStatus(t, http.StatusOK)

	rec = e.do(t, http.MethodGet, "/"+page.ID.Hex(), nil)
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertError(t, "Page not found")
}

func TestPublic_HidesDrafts(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	e.fx.CreatePage(ctx, "Draft", "draft", models.DefaultPageSite, models.PageDraft, nil)
	e.token = ""

	rec := e.do(t, http.MethodGet, "/public/"+models.DefaultPageSite+"/draft", nil)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestForWorkline_ScopesToSite(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	e.fx.CreatePage(ctx, "Cyber", "cyber", "cybersecurity", models.PageDraft, nil)
	hosting := e.fx.CreatePage(ctx, "Hosting", "hosting", "hosting", models.PageDraft, nil)

	e.router = pages.Routes(e.h.ForWorkline(models.WorklineCybersecurity), e.gate)

	rec := e.do(t, http.MethodGet, "/", nil)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"total":1`)

	rec = e.do(t, http.MethodGet, "/"+hosting.ID.Hex(), nil)
	rec.AssertStatus(t, http.StatusNotFound)

	rec = e.do(t, http.MethodPost, "/", map[string]any{"title": "Pinned", "content": "x", "site": "hosting"})
	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, `"site":"cybersecurity"`)

	// Not a member of hosting.
	e.router = pages.Routes(e.h.ForWorkline(models.WorklineHosting), e.gate)
	rec = e.do(t, http.MethodGet, "/", nil)
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestRoutes_ReadOnlyUser(t *testing.T) {
	e := setup(t)
	e.token = testutil.TokenFor(t, e.ts, models.RoleUser)

	rec := e.do(t, http.MethodGet, "/", nil)
	rec.AssertStatus(t, http.StatusOK)

	rec = e.do(t, http.MethodPost, "/", map[string]any{"title": "x", "content": "y"})
	rec.AssertStatus(t, http.StatusForbidden)
	rec.AssertError(t, auth.MsgInsufficientPerms)
}
