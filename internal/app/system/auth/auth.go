// Package auth authenticates API callers with signed bearer tokens and
// gates routes on the caller's role, permissions and worklines.
//
// The decoded identity travels in the request context as a Principal;
// nothing about the caller is held in package state.
package auth

import (
	"context"
	"net/http"
)

type ctxKey string

const principalKey ctxKey = "principal"

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext returns the principal in ctx and whether one is present.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// CurrentPrincipal returns the authenticated caller of r, if any.
func CurrentPrincipal(r *http.Request) (Principal, bool) {
	return FromContext(r.Context())
}

// WithTestPrincipal attaches p to r. It exists for handler tests that
// bypass the gate.
func WithTestPrincipal(r *http.Request, p Principal) *http.Request {
	return r.WithContext(WithPrincipal(r.Context(), p))
}
