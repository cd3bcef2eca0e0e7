package ratelimit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestLimiter_Window(t *testing.T) {
	l := New(2, time.Minute)
	defer l.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i, want := range []bool{true, true, false, false} {
		if got := l.Allow("a"); got != want {
			t.Fatalf("request %d: Allow = %v, want %v", i+1, got, want)
		}
	}
	if !l.Allow("b") {
		t.Error("keys should be counted separately")
	}

	now = now.Add(time.Minute + time.Second)
	if !l.Allow("a") {
		t.Error("window did not reset")
	}
	if !l.Allow("a") {
		t.Error("second request in the new window refused")
	}
	if l.Allow("a") {
		t.Error("new window allowed more than the limit")
	}
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisLimiter_Window(t *testing.T) {
	mr, client := newRedis(t)
	rl := NewRedisLimiter(client, 3, 15*time.Minute, "")
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		ok, err := rl.Take(ctx, "ip:1.2.3.4")
		if err != nil || !ok {
			t.Fatalf("request %d: ok=%v err=%v", i, ok, err)
		}
	}
	ok, err := rl.Take(ctx, "ip:1.2.3.4")
	if err != nil || ok {
		t.Fatalf("4th request: ok=%v err=%v, want refused", ok, err)
	}
	if n, _ := mr.Get("hostpro:ratelimit:ip:1.2.3.4"); n != "4" {
		t.Errorf("counter = %q, want 4", n)
	}

	if ttl := mr.TTL("hostpro:ratelimit:ip:1.2.3.4"); ttl != 15*time.Minute {
		t.Errorf("TTL = %v, want 15m (window must not slide)", ttl)
	}

	mr.FastForward(16 * time.Minute)
	if ok, _ := rl.Take(ctx, "ip:1.2.3.4"); !ok {
		t.Error("window did not reset after expiry")
	}
}

func TestRedisLimiter_FailsOpen(t *testing.T) {
	mr, client := newRedis(t)
	rl := NewRedisLimiter(client, 1, time.Minute, "")
	mr.Close()

	ok, err := rl.Take(context.Background(), "ip:5.6.7.8")
	if err == nil {
		t.Fatal("expected an error with Redis down")
	}
	if !ok {
		t.Error("limiter should fail open")
	}
}

func TestMiddleware(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Close()

	h := Middleware(l, "memory", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/api/tasks", nil)
		req.RemoteAddr = ip + ":4000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	if rec := do("10.0.0.1"); rec.Code != http.StatusOK {
		t.Fatalf("first request: status %d", rec.Code)
	}
	rec := do("10.0.0.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status %d, want 429", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != TooManyRequests {
		t.Errorf("error = %q, want %q", body["error"], TooManyRequests)
	}
	if rec := do("10.0.0.2"); rec.Code != http.StatusOK {
		t.Errorf("other IP: status %d, want 200", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		remote string
		want   string
	}{
		{"remote addr", "", "192.0.2.1:5555", "192.0.2.1"},
		{"remote without port", "", "192.0.2.1", "192.0.2.1"},
		{"forwarded header ignored", "203.0.113.9", "10.0.0.2:1234", "10.0.0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
				req.Header.Set("X-Real-IP", tt.xff)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMiddleware_RotatingForwardedFor(t *testing.T) {
	l := New(2, time.Minute)
	defer l.Close()

	h := Middleware(l, "memory", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for _, xff := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.9:4000"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("statuses = %v, want the third refused with 429", codes)
	}
}
