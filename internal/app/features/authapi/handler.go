// internal/app/features/authapi/handler.go
package authapi

import (
	"net/http"
	"time"

	userstore "github.com/dalemusser/hostpro/internal/app/store/users"
	"github.com/dalemusser/hostpro/internal/app/system/auditlog"
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves registration, login, workline switching and token
// verification.
type Handler struct {
	Users    *userstore.Store
	Tokens   *auth.TokenService
	AuditLog *auditlog.Logger
	Log      *zap.Logger

	// Cookie, when set, names a cookie that receives every issued token
	// alongside the JSON body. SecureCookie marks it Secure.
	Cookie       string
	SecureCookie bool

	now func() time.Time
}

// NewHandler constructs the auth API handler. audit may be nil.
func NewHandler(db *mongo.Database, tokens *auth.TokenService, audit *auditlog.Logger, cookie string, secureCookie bool, logger *zap.Logger) *Handler {
	return &Handler{
		Users:        userstore.New(db),
		Tokens:       tokens,
		AuditLog:     audit,
		Log:          logger,
		Cookie:       cookie,
		SecureCookie: secureCookie,
		now:          time.Now,
	}
}

// setTokenCookie mirrors token into the configured cookie.
func (h *Handler) setTokenCookie(w http.ResponseWriter, token string) {
	if h.Cookie == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.Cookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.Tokens.Expiry().Seconds()),
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
