package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestSecret signs tokens in handler tests.
const TestSecret = "test-secret"

// NewTokenService returns the token service handler tests share.
func NewTokenService() *auth.TokenService {
	return auth.NewTokenService(TestSecret, time.Hour, "hostpro")
}

// Principal builds a principal with a fresh id for role and worklines.
// With no worklines the account gets the default workline.
func Principal(role models.Role, worklines ...models.Workline) auth.Principal {
	return auth.NewPrincipal(models.User{
		ID:        primitive.NewObjectID(),
		Email:     string(role) + "@test.com",
		Name:      "Test " + string(role),
		Role:      role,
		Worklines: worklines,
		IsActive:  true,
	})
}

// TokenFor issues a bearer token for a new principal with role and worklines.
func TokenFor(t *testing.T, ts *auth.TokenService, role models.Role, worklines ...models.Workline) string {
	t.Helper()
	return TokenForPrincipal(t, ts, Principal(role, worklines...))
}

// TokenForPrincipal issues a bearer token for p.
func TokenForPrincipal(t *testing.T, ts *auth.TokenService, p auth.Principal) string {
	t.Helper()
	raw, err := ts.Issue(p)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return raw
}

// TokenForUser issues a bearer token for a stored user.
func TokenForUser(t *testing.T, ts *auth.TokenService, u models.User) string {
	t.Helper()
	return TokenForPrincipal(t, ts, auth.NewPrincipal(u))
}

// NewJSONRequest builds a request whose body is body encoded as JSON.
// A string body is sent as is.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithBearer sets the Authorization header on r.
func WithBearer(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t testing.TB, expected int) {
	t.Helper()
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body %s)", r.Code, expected, r.Body.String())
	}
}

// AssertError checks the {"error": msg} body.
func (r *ResponseRecorder) AssertError(t testing.TB, msg string) {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(r.Body.Bytes(), &body); err != nil {
		t.Errorf("decode error body %q: %v", r.Body.String(), err)
		return
	}
	if body.Error != msg {
		t.Errorf("error: got %q, want %q", body.Error, msg)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t testing.TB, expected string) {
	t.Helper()
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q: %s", expected, r.Body.String())
	}
}

// Decode unmarshals the response body into v.
func (r *ResponseRecorder) Decode(t testing.TB, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", r.Body.String(), err)
	}
}
