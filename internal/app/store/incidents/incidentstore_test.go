package incidentstore_test

import (
	"errors"
	"testing"
	"time"

	incidentstore "github.com/dalemusser/hostpro/internal/app/store/incidents"
	"github.com/dalemusser/hostpro/internal/app/system/paging"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"github.com/dalemusser/hostpro/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Lifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := incidentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	inc, err := store.Create(ctx, models.Incident{
		Title:      "Phishing wave",
		Type:       "phishing",
		Severity:   models.SeverityHigh,
		Status:     models.IncidentOpen,
		ReportedBy: "soc@example.com",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if inc.DetectedAt.IsZero() {
		t.Error("DetectedAt should default to now")
	}
	if inc.ResolvedAt != nil {
		t.Error("open incident should not be resolved")
	}

	resolved := models.IncidentResolved
	got, err := store.Update(ctx, inc.ID, incidentstore.Update{Status: &resolved})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.ResolvedAt == nil {
		t.Error("resolvedAt should be stamped")
	}

	if err := store.Delete(ctx, inc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.GetByID(ctx, inc.ID); !errors.Is(err, incidentstore.ErrNotFound) {
		t.Errorf("after delete: err = %v, want ErrNotFound", err)
	}
}

func TestStore_List_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := incidentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, inc := range []models.Incident{
		{Title: "A", Type: "malware", Severity: models.SeverityCritical, Status: models.IncidentOpen},
		{Title: "B", Type: "malware", Severity: models.SeverityLow, Status: models.IncidentClosed},
		{Title: "C", Type: "ddos", Severity: models.SeverityCritical, Status: models.IncidentInvestigating},
	} {
		if _, err := store.Create(ctx, inc); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	tests := []struct {
		filter incidentstore.ListFilter
		want   int64
	}{
		{incidentstore.ListFilter{}, 3},
		{incidentstore.ListFilter{Severity: "critical"}, 2},
		{incidentstore.ListFilter{Type: "malware", Status: "open"}, 1},
		{incidentstore.ListFilter{Status: "contained"}, 0},
	}
	for _, tt := range tests {
		_, total, err := store.List(ctx, tt.filter, paging.Params{Page: 1, Limit: 10})
		if err != nil {
			t.Fatalf("List(%+v): %v", tt.filter, err)
		}
		if total != tt.want {
			t.Errorf("List(%+v) total = %d, want %d", tt.filter, total, tt.want)
		}
	}
}

func TestStore_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := incidentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	title := "x"
	if _, err := store.Update(ctx, primitive.NewObjectID(), incidentstore.Update{Title: &title}); !errors.Is(err, incidentstore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStore_Update_ResolvedAtOnTransition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := incidentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	inc, err := store.Create(ctx, models.Incident{
		Title:    "Credential stuffing",
		Type:     "intrusion",
		Severity: models.SeverityMedium,
		Status:   models.IncidentOpen,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	resolved, closedSt, open := models.IncidentResolved, models.IncidentClosed, models.IncidentOpen
	first, err := store.Update(ctx, inc.ID, incidentstore.Update{Status: &resolved})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if first.ResolvedAt == nil {
		t.Fatal("resolvedAt not stamped")
	}

	time.Sleep(10 * time.Millisecond)
	for _, st := range []*models.IncidentStatus{&resolved, &closedSt} {
		got, err := store.Update(ctx, inc.ID, incidentstore.Update{Status: st})
		if err != nil {
			t.Fatalf("Update to %s: %v", *st, err)
		}
		if got.ResolvedAt == nil || !got.ResolvedAt.Equal(*first.ResolvedAt) {
			t.Errorf("%s: resolvedAt = %v, want unchanged %v", *st, got.ResolvedAt, first.ResolvedAt)
		}
	}

	got, err := store.Update(ctx, inc.ID, incidentstore.Update{Status: &open})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.ResolvedAt != nil {
		t.Errorf("reopened: resolvedAt = %v, want cleared", got.ResolvedAt)
	}
}
