// Package metrics exposes Prometheus collectors for the API.
package metrics

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostpro_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hostpro_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	authEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostpro_auth_events_total",
		Help: "Authentication outcomes by event and result",
	}, []string{"event", "result"})

	gateDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostpro_gate_denials_total",
		Help: "Requests refused by the authorization gate, by reason",
	}, []string{"reason"})

	rateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostpro_rate_limited_total",
		Help: "Requests refused by the per-IP rate limiter, by backend",
	}, []string{"backend"})

	domainsExpiring = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hostpro_domains_expiring",
		Help: "Domains whose registration expires within the watch window, as of the last scan",
	})
)

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	s := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, s).Inc()
	httpRequestDuration.WithLabelValues(method, route, s).Observe(d.Seconds())
}

// ObserveAuth records an authentication outcome, e.g. ("login", "success").
func ObserveAuth(event, result string) {
	authEvents.WithLabelValues(event, result).Inc()
}

// ObserveGateDenied records a request refused by the gate.
// reason is one of missing_token, invalid_token, role, permission, workline.
func ObserveGateDenied(reason string) {
	gateDenials.WithLabelValues(reason).Inc()
}

// ObserveRateLimited records a request refused by the limiter.
func ObserveRateLimited(backend string) {
	rateLimited.WithLabelValues(backend).Inc()
}

// SetDomainsExpiring records the result of the latest expiry scan.
func SetDomainsExpiring(n int) {
	domainsExpiring.Set(float64(n))
}

// Middleware records request count and latency, labelled by chi route
// pattern so ids in paths do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		ObserveHTTPRequest(r.Method, route, status, time.Since(start))
	})
}

// Handler serves the default registry in the Prometheus text format. A
// non-empty token must be presented as "Authorization: Bearer <token>".
func Handler(token string) http.Handler {
	h := promhttp.Handler()
	if token == "" {
		return h
	}
	want := []byte("Bearer " + token)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if subtle.ConstantTimeCompare([]byte(r.Header.Get("Authorization")), want) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="metrics"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		h.ServeHTTP(w, r)
	})
}
