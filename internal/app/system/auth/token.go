package auth

import (
	"fmt"
	"time"

	"github.com/dalemusser/hostpro/internal/app/system/authz"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FallbackSecret signs tokens when no secret is configured. It is public
// knowledge, so ValidateConfig refuses it in production.
const FallbackSecret = "fallback-secret-key"

// DefaultTokenExpiry is the lifetime of an issued token.
const DefaultTokenExpiry = 24 * time.Hour

// Claims is the signed token payload.
type Claims struct {
	UserID          string   `json:"userId"`
	Email           string   `json:"email"`
	Role            string   `json:"role"`
	Permissions     []string `json:"permissions"`
	Worklines       []string `json:"worklines"`
	PrimaryWorkline string   `json:"primaryWorkline,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens.
type TokenService struct {
	secret []byte
	issuer string
	expiry time.Duration
	now    func() time.Time
}

// TokenOption customizes a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now for issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(ts *TokenService) { ts.now = now }
}

// NewTokenService returns a service signing with secret. An empty secret
// falls back to FallbackSecret; see UsesFallbackSecret.
func NewTokenService(secret string, expiry time.Duration, issuer string, opts ...TokenOption) *TokenService {
	if secret == "" {
		secret = FallbackSecret
	}
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}
	if issuer == "" {
		issuer = "hostpro"
	}
	ts := &TokenService{secret: []byte(secret), issuer: issuer, expiry: expiry, now: time.Now}
	for _, opt := range opts {
		opt(ts)
	}
	return ts
}

// UsesFallbackSecret reports whether the service is signing with FallbackSecret.
func (ts *TokenService) UsesFallbackSecret() bool {
	return string(ts.secret) == FallbackSecret
}

// Expiry returns the lifetime of issued tokens.
func (ts *TokenService) Expiry() time.Duration { return ts.expiry }

// Issue signs a token for p that expires after the configured lifetime.
func (ts *TokenService) Issue(p Principal) (string, error) {
	if p.UserID.IsZero() {
		return "", fmt.Errorf("issue token: user id required")
	}
	worklines := make([]string, len(p.Worklines))
	for i, w := range p.Worklines {
		worklines[i] = string(w)
	}

	now := ts.now()
	claims := Claims{
		UserID:          p.UserID.Hex(),
		Email:           p.Email,
		Role:            string(p.Role),
		Permissions:     authz.Strings(p.Permissions),
		Worklines:       worklines,
		PrimaryWorkline: string(p.PrimaryWorkline),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    ts.issuer,
			Subject:   p.UserID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ts.secret)
}

// Verify decodes raw and reports whether it is a valid, unexpired token
// signed by this service. Every failure, whatever the cause, is just false.
func (ts *TokenService) Verify(raw string) (Principal, bool) {
	if raw == "" {
		return Principal{}, false
	}
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ts.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.now),
	)
	if err != nil || !token.Valid {
		return Principal{}, false
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return Principal{}, false
	}
	return claims.principal()
}

func (c *Claims) principal() (Principal, bool) {
	id, err := primitive.ObjectIDFromHex(c.UserID)
	if err != nil {
		return Principal{}, false
	}
	role, ok := models.ParseRole(c.Role)
	if !ok {
		return Principal{}, false
	}
	worklines, ok := models.ParseWorklines(c.Worklines)
	if !ok {
		return Principal{}, false
	}
	p := Principal{
		UserID:    id,
		Email:     c.Email,
		Role:      role,
		Worklines: worklines,
	}
	if c.PrimaryWorkline != "" {
		w, ok := models.ParseWorkline(c.PrimaryWorkline)
		if !ok {
			return Principal{}, false
		}
		p.PrimaryWorkline = w
	}
	for _, s := range c.Permissions {
		p.Permissions = append(p.Permissions, authz.Permission(s))
	}
	return p, true
}
