package serverstore_test

import (
	"errors"
	"testing"

	serverstore "github.com/dalemusser/hostpro/internal/app/store/servers"
	"github.com/dalemusser/hostpro/internal/app/system/paging"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"github.com/dalemusser/hostpro/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateUpdateDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := serverstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	srv, err := store.Create(ctx, models.Server{
		Name:           "web-01",
		Type:           "vps",
		Location:       "fra1",
		IPAddress:      "10.0.0.1",
		Specifications: models.ServerSpecs{CPU: "4 vCPU", RAM: "8GB"},
		MonthlyPrice:   40,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if srv.Status != models.ServerActive {
		t.Errorf("Status = %q, want active", srv.Status)
	}

	offline := models.ServerOffline
	price := 55.5
	got, err := store.Update(ctx, srv.ID, serverstore.Update{Status: &offline, MonthlyPrice: &price})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Status != offline || got.MonthlyPrice != price {
		t.Errorf("got status %q price %v", got.Status, got.MonthlyPrice)
	}
	if got.Specifications.CPU != "4 vCPU" {
		t.Errorf("specs lost on partial update: %+v", got.Specifications)
	}

	if err := store.Delete(ctx, srv.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, srv.ID); !errors.Is(err, serverstore.ErrNotFound) {
		t.Errorf("second Delete: err = %v, want ErrNotFound", err)
	}
	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, serverstore.ErrNotFound) {
		t.Errorf("GetByID: err = %v, want ErrNotFound", err)
	}
}

func TestStore_List_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := serverstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, srv := range []models.Server{
		{Name: "a", Type: "vps", Location: "fra1"},
		{Name: "b", Type: "dedicated", Location: "fra1", Status: models.ServerMaintenance},
		{Name: "c", Type: "vps", Location: "nyc3"},
	} {
		if _, err := store.Create(ctx, srv); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	tests := []struct {
		filter serverstore.ListFilter
		want   int64
	}{
		{serverstore.ListFilter{}, 3},
		{serverstore.ListFilter{Type: "vps"}, 2},
		{serverstore.ListFilter{Location: "fra1", Status: "active"}, 1},
		{serverstore.ListFilter{Status: "offline"}, 0},
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
