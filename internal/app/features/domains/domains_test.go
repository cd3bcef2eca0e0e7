package domains_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/hostpro/internal/app/features/domains"
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/app/system/indexes"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"github.com/dalemusser/hostpro/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type env struct {
	router chi.Router
	fx     *testutil.Fixtures
	client models.Client
	token  string
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
	fx := testutil.NewFixtures(t, db)
	return env{
		router: domains.Routes(domains.NewHandler(db, zap.NewNop()), gate),
		fx:     fx,
		client: fx.CreateHostingClient(ctx, "Owner", "owner@example.com", "owner.com"),
		token:  testutil.TokenFor(t, ts, models.RoleAdmin, models.AllWorklines...),
	}
}

func (e env) do(t *testing.T, method, target string, body any) *testutil.ResponseRecorder {
	t.Helper()
	req := testutil.WithBearer(testutil.NewJSONRequest(t, method, target, body), e.token)
	rec := testutil.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e env) create(t *testing.T, name string, expires time.Time) *testutil.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodPost, "/", map[string]any{
		"name":       name,
		"clientId":   e.client.ID.Hex(),
		"registrar":  "Gandi",
		"expiryDate": expires.Format(time.RFC3339),
	})
}

func TestCreate_DefaultsAndClientRef(t *testing.T) {
	e := setup(t)

	rec := e.create(t, "Example.COM", time.Now().AddDate(1, 0, 0))
	rec.AssertStatus(t, http.StatusCreated)

	var body struct {
		Domain struct {
			Name       string `json:"name"`
			Status     string `json:"status"`
			SSLStatus  string `json:"sslStatus"`
			AutoRenew  bool   `json:"autoRenew"`
			DNSRecords []any  `json:"dnsRecords"`
			Client     *struct {
				Name    string `json:"name"`
				Company string `json:"company"`
			} `json:"client"`
		} `json:"domain"`
	}
	rec.Decode(t, &body)
	d := body.Domain
	if d.Name != "example.com" {
		t.Errorf("name: got %q, want lowercased", d.Name)
	}
	if d.Status != "active" || d.SSLStatus != "pending" || d.AutoRenew {
		t.Errorf("defaults: got %+v", d)
	}
	if d.DNSRecords == nil {
		t.Error("dnsRecords should be an empty list, not null")
	}
	if d.Client == nil || d.Client.Name != "Owner" {
		t.Errorf("client: got %+v", d.Client)
	}
}

func TestCreate_Rejects(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	cyber := e.fx.CreateCyberClient(ctx, "Cyber", "cyber@example.com")
	e.create(t, "taken.com", time.Now().AddDate(1, 0, 0)).AssertStatus(t, http.StatusCreated)

	base := func(over map[string]any) map[string]any {
		b := map[string]any{"name": "new.com", "clientId": e.client.ID.Hex(), "registrar": "Gandi", "expiryDate": "2030-01-01"}
		for k, v := range over {
			b[k] = v
		}
		return b
	}
	tests := []struct {
		name   string
		body   map[string]any
		status int
		msg    string
	}{
		{"missing registrar", base(map[string]any{"registrar": ""}), http.StatusBadRequest, "Registrar is required."},
		{"bad expiry", base(map[string]any{"expiryDate": "soon"}), http.StatusBadRequest, "Expiry date must be an RFC 3339 timestamp or YYYY-MM-DD"},
		{"unknown client", base(map[string]any{"clientId": primitive.NewObjectID().Hex()}), http.StatusBadRequest, "Client not found"},
		{"cyber client", base(map[string]any{"clientId": cyber.ID.Hex()}), http.StatusBadRequest, "Client not found"},
		{"duplicate", base(map[string]any{"name": "TAKEN.com"}), http.StatusConflict, "Domain already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, http.MethodPost, "/", tt.body)
			rec.AssertStatus(t, tt.status)
			rec.AssertError(t, tt.msg)
		})
	}
}

func TestExpiring(t *testing.T) {
	e := setup(t)
	now := time.Now()
	e.create(t, "late.com", now.AddDate(0, 0, 20))
	e.create(t, "soon.com", now.AddDate(0, 0, 5))
	e.create(t, "far.com", now.AddDate(0, 0, 90))
	e.create(t, "gone.com", now.AddDate(0, 0, -3))

	rec := e.do(t, http.MethodGet, "/expiring", nil)
	rec.AssertStatus(t, http.StatusOK)

	var body struct {
		Domains []struct {
			Name string `json:"name"`
		} `json:"domains"`
		Days int `json:"days"`
	}
	rec.Decode(t, &body)
	if body.Days != domains.DefaultExpiringDays {
		t.Errorf("days: got %d, want %d", body.Days, domains.DefaultExpiringDays)
	}
	if len(body.Domains) != 2 || body.Domains[0].Name != "soon.com" || body.Domains[1].Name != "late.com" {
		t.Errorf("got %+v, want soon.com then late.com", body.Domains)
	}

	rec = e.do(t, http.MethodGet, "/expiring?days=100", nil)
	rec.Decode(t, &body)
	if len(body.Domains) != 3 {
		t.Errorf("days=100: got %d domains, want 3", len(body.Domains))
	}

	rec = e.do(t, http.MethodGet, "/expiring?days=-1", nil)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestUpdateAndDelete(t *testing.T) {
	e := setup(t)
	e.create(t, "one.com", time.Now().AddDate(1, 0, 0))
	rec := e.create(t, "two.com", time.Now().AddDate(1, 0, 0))
	var created struct {
		Domain struct {
			ID string `json:"id"`
		} `json:"domain"`
	}
	rec.Decode(t, &created)
	target := "/" + created.Domain.ID

	rec = e.do(t, http.MethodPut, target, map[string]any{"name": "one.com"})
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertError(t, "Domain already exists")

	rec = e.do(t, http.MethodPut, target, map[string]any{
		"autoRenew":  true,
		"dnsRecords": []map[string]any{{"type": "A", "name": "@", "value": "10.0.0.1", "ttl": 300}},
	})
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"autoRenew":true`)
	rec.AssertContains(t, `"ttl":300`)

	rec = e.do(t, http.MethodGet, "/?search=two", nil)
	rec.AssertContains(t, `"total":1`)

	rec = e.do(t, http.MethodDelete, target, nil)
	rec.AssertStatus(t, http.StatusOK)
	rec = e.do(t, http.MethodGet, target, nil)
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertError(t, "Domain not found")
}
