package pagestore_test

import (
	"errors"
	"testing"

	pagestore "github.com/dalemusser/hostpro/internal/app/store/pages"
	"github.com/dalemusser/hostpro/internal/app/system/indexes"
	"github.com/dalemusser/hostpro/internal/app/system/paging"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"github.com/dalemusser/hostpro/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setup(t *testing.T) (*pagestore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	return pagestore.New(db), testutil.NewFixtures(t, db)
}

func TestStore_Create(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, err := store.Create(ctx, models.Page{
		Title:   "About Us",
		Slug:    "about-us",
		Content: "<p>About</p>",
		Status:  models.PagePublished,
		Site:    "hosting",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if p.PublishedAt == nil {
		t.Error("published page should have PublishedAt")
	}
	if p.Tags == nil {
		t.Error("Tags should default to empty, not nil")
	}

	got, err := store.GetPublished(ctx, "hosting", "about-us")
	if err != nil {
		t.Fatalf("GetPublished: %v", err)
	}
	if got.ID != p.ID {
		t.Errorf("got page %s, want %s", got.ID.Hex(), p.ID.Hex())
	}
}

func TestStore_SlugUniquePerSite(t *testing.T) {
	store, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	existing := fx.CreatePage(ctx, "Pricing", "pricing", "hosting", models.PageDraft, nil)

	exists, err := store.SlugExists(ctx, "hosting", "pricing", nil)
	if err != nil || !exists {
		t.Errorf("SlugExists(hosting) = %v, %v; want true", exists, err)
	}
	exists, _ = store.SlugExists(ctx, "hosting", "pricing", &existing.ID)
	if exists {
		t.Error("SlugExists should ignore the excluded page")
	}
	exists, _ = store.SlugExists(ctx, "cybersecurity", "pricing", nil)
	if exists {
		t.Error("slug on another site should not count")
	}

	_, err = store.Create(ctx, models.Page{Title: "Pricing", Slug: "pricing", Site: "hosting", Status: models.PageDraft})
	if !errors.Is(err, pagestore.ErrDuplicateSlug) {
		t.Errorf("duplicate create: err = %v, want ErrDuplicateSlug", err)
	}
	if _, err := store.Create(ctx, models.Page{Title: "Pricing", Slug: "pricing", Site: "cybersecurity", Status: models.PageDraft}); err != nil {
		t.Errorf("same slug on another site: %v", err)
	}
}

func TestStore_InSite_Scopes(t *testing.T) {
	store, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cyber := fx.CreatePage(ctx, "Cyber", "cyber", "cybersecurity", models.PageDraft, nil)
	fx.CreatePage(ctx, "Host", "host", "hosting", models.PageDraft, nil)

	hosting := store.InSite("hosting")
	if _, err := hosting.GetByID(ctx, cyber.ID); !errors.Is(err, pagestore.ErrNotFound) {
		t.Errorf("cross-site GetByID: err = %v, want ErrNotFound", err)
	}
	if err := hosting.Delete(ctx, cyber.ID); !errors.Is(err, pagestore.ErrNotFound) {
		t.Errorf("cross-site Delete: err = %v, want ErrNotFound", err)
	}

	pages, total, err := hosting.List(ctx, pagestore.ListFilter{Site: "cybersecurity"}, paging.Params{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || pages[0].Site != "hosting" {
		t.Errorf("pinned list returned %d pages (first site %q)", total, pages[0].Site)
	}

	created, err := hosting.Create(ctx, models.Page{Title: "X", Slug: "x", Site: "cybersecurity"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Site != "hosting" {
		t.Errorf("pinned create site = %q, want hosting", created.Site)
	}
}

func TestStore_List_Search(t *testing.T) {
	store, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreatePage(ctx, "Firewall Guide", "firewall-guide", "cybersecurity", models.PagePublished, nil)
	fx.CreatePage(ctx, "Backups", "backups", "cybersecurity", models.PageDraft, nil)

	tests := []struct {
		name   string
		filter pagestore.ListFilter
		want   int64
	}{
		{"no filter", pagestore.ListFilter{}, 2},
		{"status", pagestore.ListFilter{Status: "draft"}, 1},
		{"search title", pagestore.ListFilter{Search: "firewall"}, 1},
		{"search content", pagestore.ListFilter{Search: "<p>backups"}, 1},
		{"other site", pagestore.ListFilter{Site: "hosting"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, total, err := store.List(ctx, tt.filter, paging.Params{Page: 1, Limit: 10})
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if total != tt.want {
				t.Errorf("total = %d, want %d", total, tt.want)
			}
		})
	}
}

func TestStore_Update(t *testing.T) {
	store, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreatePage(ctx, "Taken", "taken", "cybersecurity", models.PageDraft, nil)
	p := fx.CreatePage(ctx, "Draft", "draft", "cybersecurity", models.PageDraft, nil)

	title := "Renamed"
	slug := "renamed"
	updated, err := store.Update(ctx, p.ID, pagestore.Update{Title: &title, Slug: &slug})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Renamed" || updated.Slug != "renamed" {
		t.Errorf("updated = %q/%q", updated.Title, updated.Slug)
	}
	if !updated.UpdatedAt.After(p.UpdatedAt) && !updated.UpdatedAt.Equal(p.UpdatedAt) {
		t.Error("UpdatedAt moved backwards")
	}

	taken := "taken"
	if _, err := store.Update(ctx, p.ID, pagestore.Update{Slug: &taken}); !errors.Is(err, pagestore.ErrDuplicateSlug) {
		t.Errorf("slug clash: err = %v, want ErrDuplicateSlug", err)
	}
	if _, err := store.Update(ctx, primitive.NewObjectID(), pagestore.Update{Title: &title}); !errors.Is(err, pagestore.ErrNotFound) {
		t.Errorf("missing page: err = %v, want ErrNotFound", err)
	}
}

func TestStore_IncrementViews(t *testing.T) {
	store, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreatePage(ctx, "Popular", "popular", "cybersecurity", models.PagePublished, nil)
	for want := int64(1); want <= 3; want++ {
		got, err := store.IncrementViews(ctx, p.ID)
		if err != nil {
			t.Fatalf("IncrementViews: %v", err)
		}
		if got != want {
			t.Errorf("views = %d, want %d", got, want)
		}
	}
	if _, err := store.IncrementViews(ctx, primitive.NewObjectID()); !errors.Is(err, pagestore.ErrNotFound) {
		t.Errorf("missing page: err = %v, want ErrNotFound", err)
	}
}
