package auth

import (
	"fmt"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/hostpro/internal/app/features/errors"
	"github.com/dalemusser/hostpro/internal/app/system/apierr"
	"github.com/dalemusser/hostpro/internal/app/system/authz"
	"github.com/dalemusser/hostpro/internal/app/system/metrics"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"go.uber.org/zap"
)

// DefaultTokenCookie is the cookie consulted when no Authorization header
// is sent.
const DefaultTokenCookie = "token"

// Gate failure messages.
const (
	MsgNoToken           = "No token provided"
	MsgInvalidToken      = "Invalid token"
	MsgInsufficientPerms = "Insufficient permissions"
)

// Requirement is what a route demands of its caller. Zero fields are not
// checked, so Requirement{} only demands a valid token.
type Requirement struct {
	Permission authz.Permission
	Role       models.Role
	Workline   models.Workline
}

// Perm requires the caller's role to grant p.
func Perm(p authz.Permission) Requirement { return Requirement{Permission: p} }

// RoleIs requires the caller to hold exactly role.
func RoleIs(role models.Role) Requirement { return Requirement{Role: role} }

// InWorkline requires the caller to be a member of w.
func InWorkline(w models.Workline) Requirement { return Requirement{Workline: w} }

// And merges o into r; non-zero fields of o win.
func (r Requirement) And(o Requirement) Requirement {
	if o.Permission != "" {
		r.Permission = o.Permission
	}
	if o.Role != "" {
		r.Role = o.Role
	}
	if o.Workline != "" {
		r.Workline = o.Workline
	}
	return r
}

// Gate authenticates requests and enforces Requirements.
type Gate struct {
	tokens *TokenService
	log    *zap.Logger
	cookie string
}

// NewGate builds a Gate. cookie names the fallback token cookie; empty
// disables the cookie fallback.
func NewGate(tokens *TokenService, cookie string, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{tokens: tokens, log: logger, cookie: cookie}
}

// Check resolves the caller of r and tests req against it. The returned
// error is an *apierr.Error carrying the response message.
func (g *Gate) Check(r *http.Request, req Requirement) (Principal, error) {
	p, ok := CurrentPrincipal(r)
	if !ok {
		raw := g.extract(r)
		if raw == "" {
			metrics.ObserveGateDenied("missing_token")
			return Principal{}, apierr.Unauthenticated(MsgNoToken)
		}
		p, ok = g.tokens.Verify(raw)
		if !ok {
			metrics.ObserveGateDenied("invalid_token")
			return Principal{}, apierr.Unauthenticated(MsgInvalidToken)
		}
	}

	if req.Role != "" && p.Role != req.Role {
		metrics.ObserveGateDenied("role")
		return p, apierr.Forbidden(MsgInsufficientPerms)
	}
	if req.Permission != "" && !p.Can(req.Permission) {
		metrics.ObserveGateDenied("permission")
		return p, apierr.Forbidden(MsgInsufficientPerms)
	}
	if req.Workline != "" && !p.InWorkline(req.Workline) {
		metrics.ObserveGateDenied("workline")
		return p, apierr.Forbidden(fmt.Sprintf("Access denied to %s workline", req.Workline))
	}
	return p, nil
}

// Require returns middleware that admits only callers meeting req and
// stores the principal in the request context.
func (g *Gate) Require(req Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := g.Check(r, req)
			if err != nil {
				g.log.Debug("gate refused request",
					zap.String("path", r.URL.Path),
					zap.String("user_id", userIDOf(p)),
					zap.String("reason", err.Error()))
				uierrors.Write(w, r, g.log, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// Authenticate admits any caller with a valid token.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return g.Require(Requirement{})(next)
}

func (g *Gate) extract(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
	}
	if g.cookie != "" {
		if c, err := r.Cookie(g.cookie); err == nil {
			return c.Value
		}
	}
	return ""
}

func userIDOf(p Principal) string {
	if p.UserID.IsZero() {
		return ""
	}
	return p.UserID.Hex()
}
