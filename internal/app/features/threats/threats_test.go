package threats_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/hostpro/internal/app/features/threats"
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"github.com/dalemusser/hostpro/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type env struct {
	router chi.Router
	token  string
	ts     *auth.TokenService
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ts := testutil.NewTokenService()
	gate := auth.NewGate(ts, "", zap.NewNop())
	return env{
		router: threats.Routes(threats.NewHandler(db, zap.NewNop()), gate),
		token:  testutil.TokenFor(t, ts, models.RoleAdmin, models.AllWorklines...),
		ts:     ts,
	}
}

func (e env) do(t *testing.T, method, target string, body any) *testutil.ResponseRecorder {
	t.Helper()
	req := testutil.WithBearer(testutil.NewJSONRequest(t, method, target, body), e.token)
	rec := testutil.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type threatBody struct {
	Threat struct {
		ID         string   `json:"id"`
		Status     string   `json:"status"`
		Indicators []string `json:"indicators"`
		CreatedBy  string   `json:"createdBy"`
	} `json:"threat"`
}

func validThreat() map[string]any {
	return map[string]any{
		"name":        "Emotet",
		"type":        "malware",
		"severity":    "critical",
		"description": "Banking trojan turned loader",
		"source":      "CISA",
		"indicators":  []string{"1.2.3.4"},
	}
}

func TestCreateAndIndicators(t *testing.T) {
	e := setup(t)

	rec := e.do(t, http.MethodPost, "/", validThreat())
	rec.AssertStatus(t, http.StatusCreated)
	var created threatBody
	rec.Decode(t, &created)
	if created.Threat.Status != "active" {
		t.Errorf("status: got %q, want active", created.Threat.Status)
	}
	if created.Threat.CreatedBy == "" {
		t.Error("createdBy should be the caller")
	}

	rec = e.do(t, http.MethodPost, "/"+created.Threat.ID+"/indicators", map[string]any{
		"indicators": []string{"1.2.3.4", "evil.example", "evil.example"},
	})
	rec.AssertStatus(t, http.StatusOK)
	var body threatBody
	rec.Decode(t, &body)
	if len(body.Threat.Indicators) != 2 {
		t.Errorf("indicators: got %v, want 2 distinct", body.Threat.Indicators)
	}

	rec = e.do(t, http.MethodPost, "/"+created.Threat.ID+"/indicators", map[string]any{"indicators": []string{" "}})
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertError(t, "Indicators is required.")
}

func TestCreate_RequiredFields(t *testing.T) {
	e := setup(t)

	for _, field := range []string{"name", "type", "severity", "description", "source"} {
		t.Run(field, func(t *testing.T) {
			body := validThreat()
			delete(body, field)
			rec := e.do(t, http.MethodPost, "/", body)
			rec.AssertStatus(t, http.StatusBadRequest)
		})
	}

	body := validThreat()
	body["type"] = "worm"
	rec := e.do(t, http.MethodPost, "/", body)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertError(t, "Type must be one of: malware, phishing, ddos, ransomware, insider, apt, other.")
}

func TestList_SearchAndUpdate(t *testing.T) {
	e := setup(t)
	e.do(t, http.MethodPost, "/", validThreat())
	other := validThreat()
	other["name"] = "Phish kit"
	other["type"] = "phishing"
	other["source"] = "internal"
	rec := e.do(t, http.MethodPost, "/", other)
	var created threatBody
	rec.Decode(t, &created)

	rec = e.do(t, http.MethodGet, "/?search=cisa", nil)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"total":1`)

	rec = e.do(t, http.MethodPut, "/"+created.Threat.ID, map[string]any{"status": "mitigated"})
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"status":"mitigated"`)

	rec = e.do(t, http.MethodGet, "/?status=mitigated&type=phishing", nil)
	rec.AssertContains(t, `"total":1`)
}

func TestRoutes_ModeratorCannotManage(t *testing.T) {
	e := setup(t)
	e.token = testutil.TokenFor(t, e.ts, models.RoleModerator, models.WorklineCybersecurity)

	rec := e.do(t, http.MethodPost, "/", validThreat())
	rec.AssertStatus(t, http.StatusForbidden)
	rec.AssertError(t, auth.MsgInsufficientPerms)

	rec = e.do(t, http.MethodGet, "/", nil)
	rec.AssertStatus(t, http.StatusOK)
}
