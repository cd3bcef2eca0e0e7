package analyticsstore_test

import (
	"testing"

	analyticsstore "github.com/dalemusser/hostpro/internal/app/store/analytics"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"github.com/dalemusser/hostpro/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestDashboard_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	d, err := analyticsstore.New(db, zap.NewNop()).Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d.Overview != (analyticsstore.Overview{}) {
		t.Errorf("Overview: got %+v, want zeros", d.Overview)
	}
	if d.RecentActivity.CyberTasks == nil || d.RecentActivity.Incidents == nil {
		t.Error("recent lists should be empty, not nil")
	}
}

func TestDashboard_WithData(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateAdmin(ctx, "Admin", "admin@example.com")
	fx.CreateUser(ctx, "Cyber", "cyber@example.com", models.RoleUser, models.WorklineCybersecurity)
	fx.CreateInactiveUser(ctx, "Gone", "gone@example.com")

	for i := 0; i < 7; i++ {
		fx.CreateTask(ctx, "cyber task", "cybersecurity", nil)
	}
	done := fx.CreateTask(ctx, "hosting done", "hosting", nil)
	if _, err := db.Collection("tasks").UpdateByID(ctx, done.ID, bson.M{"$set": bson.M{"status": models.TaskCompleted}}); err != nil {
		t.Fatal(err)
	}
	fx.CreateTask(ctx, "global task", "global", nil)
	fx.CreateHostingClient(ctx, "Acme", "ops@acme.test", "acme.test")

	d, err := analyticsstore.New(db, zap.NewNop()).Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	wantOverview := analyticsstore.Overview{TotalUsers: 3, ActiveUsers: 2, CyberUsers: 3, HostingUsers: 1}
	if d.Overview != wantOverview {
		t.Errorf("Overview: got %+v, want %+v", d.Overview, wantOverview)
	}
	if got := d.Cybersecurity.Tasks; got != (analyticsstore.TaskCounts{Total: 7, Pending: 7}) {
		t.Errorf("cyber tasks: got %+v", got)
	}
	if got := d.Hosting.Tasks; got != (analyticsstore.TaskCounts{Total: 1, Completed: 1}) {
		t.Errorf("hosting tasks: got %+v", got)
	}
	if n := len(d.RecentActivity.CyberTasks); n != analyticsstore.RecentLimit {
		t.Errorf("recent cyber tasks: got %d, want %d", n, analyticsstore.RecentLimit)
	}
	if n := len(d.RecentActivity.HostingTasks); n != 1 || d.RecentActivity.HostingTasks[0].Workline != "hosting" {
		t.Errorf("recent hosting tasks: got %+v", d.RecentActivity.HostingTasks)
	}
}

func TestHostingBreakdown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateTask(ctx, "a", "hosting", nil)
	fx.CreateTask(ctx, "b", "hosting", nil)
	fx.CreateTask(ctx, "c", "cybersecurity", nil)
	fx.CreateHostingClient(ctx, "Acme", "ops@acme.test", "acme.test")
	fx.CreateCyberClient(ctx, "Globex", "sec@globex.test")

	b, err := analyticsstore.New(db, zap.NewNop()).HostingBreakdown(ctx)
	if err != nil {
		t.Fatalf("HostingBreakdown: %v", err)
	}
	if b.Workline != models.WorklineHosting || b.Clients != 1 || b.Domains != 0 {
		t.Errorf("got workline %q clients %d domains %d", b.Workline, b.Clients, b.Domains)
	}
	if len(b.Tasks) != 1 || b.Tasks[0] != (analyticsstore.GroupCount{ID: "pending", Count: 2}) {
		t.Errorf("tasks: got %+v", b.Tasks)
	}
	if len(b.Servers) != 0 {
		t.Errorf("servers: got %+v, want none", b.Servers)
	}
}
