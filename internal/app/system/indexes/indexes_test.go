package indexes_test

import (
	"testing"

	"github.com/dalemusser/hostpro/internal/app/system/indexes"
	"github.com/dalemusser/hostpro/internal/testutil"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func indexNames(t *testing.T, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list indexes on %s: %v", coll, err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	tests := []struct {
		coll  string
		names []string
	}{
		{"users", []string{"uniq_users_email", "idx_users_role_active"}},
		{"pages", []string{"uniq_pages_site_slug", "idx_pages_site_status_created"}},
		{"tasks", []string{"idx_tasks_site_status_created", "idx_tasks_assignedto"}},
		{"clients", []string{"uniq_clients_workline_domain"}},
		{"domains", []string{"uniq_domains_name", "idx_domains_expiry"}},
		{"audit_events", []string{"idx_audit_category_ts"}},
	}
	for _, tt := range tests {
		got := indexNames(t, db, tt.coll)
		for _, name := range tt.names {
			if !got[name] {
				t.Errorf("expected index %q on %s", name, tt.coll)
			}
		}
	}
}

func TestEnsureAll_PageSlugUniquePerSite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	pages := db.Collection("pages")
	if _, err := pages.InsertOne(ctx, bson.M{"site": "hosting", "slug": "faq"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := pages.InsertOne(ctx, bson.M{"site": "cybersecurity", "slug": "faq"}); err != nil {
		t.Errorf("same slug on another site rejected: %v", err)
	}
	_, err := pages.InsertOne(ctx, bson.M{"site": "hosting", "slug": "faq"})
	if !wafflemongo.IsDup(err) {
		t.Errorf("duplicate (site, slug) err = %v, want duplicate key", err)
	}
}

func TestEnsureAll_ClientDomainPartial(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	clients := db.Collection("clients")
	// Clients without a domain never collide.
	for i := 0; i < 2; i++ {
		if _, err := clients.InsertOne(ctx, bson.M{"workline": "cybersecurity", "name": "c"}); err != nil {
			t.Fatalf("insert client without domain: %v", err)
		}
	}
	if _, err := clients.InsertOne(ctx, bson.M{"workline": "hosting", "domain": "acme.test"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	_, err := clients.InsertOne(ctx, bson.M{"workline": "hosting", "domain": "acme.test"})
	if !wafflemongo.IsDup(err) {
		t.Errorf("duplicate hosting domain err = %v, want duplicate key", err)
	}
}
