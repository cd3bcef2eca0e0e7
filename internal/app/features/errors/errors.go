// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/hostpro/internal/app/system/apierr"
	"github.com/dalemusser/hostpro/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// body is the JSON shape of every error response.
type body struct {
	Error string `json:"error"`
}

// Write sends err to the caller as {"error": message} with the status for
// its kind. Server errors are logged with detail and replaced by a generic
// message; everything else is logged at debug.
func Write(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	ae := apierr.From(err)
	if log == nil {
		log = zap.L()
	}

	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("kind", ae.Kind.String()),
	}

	msg := ae.Message
	if ae.Kind == apierr.KindServer {
		log.Error("request failed", append(fields, zap.Error(err))...)
		msg = apierr.ServerMessage
	} else {
		log.Debug("request rejected", append(fields, zap.String("reason", ae.Message))...)
	}

	jsonutil.Write(w, ae.Status(), body{Error: msg})
}

// Handler serves the router-level fallbacks.
type Handler struct {
	Log *zap.Logger
}

// NewHandler constructs an errors Handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// NotFound answers unknown routes with {"error":"Not found - <path>"}.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	Write(w, r, h.Log, apierr.NotFound("Not found - "+r.URL.Path))
}

// MethodNotAllowed answers known routes called with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	jsonutil.Write(w, http.StatusMethodNotAllowed, body{Error: "Method not allowed"})
}
