// Package jsonutil reads and writes JSON request and response bodies.
package jsonutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/hostpro/internal/app/system/apierr"
)

// Write sends v as a JSON response with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Decode reads a single JSON object from the request body into dst.
// Failures come back as *apierr.Error so handlers can pass them straight to
// the error responder. The body size limit is enforced by middleware.
func Decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return apierr.Invalid("Request body is required")
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apierr.TooLarge("Request body too large")
		case errors.Is(err, io.EOF):
			return apierr.Invalid("Request body is required")
		default:
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) && typeErr.Field != "" {
				return apierr.Invalid("Invalid value for " + typeErr.Field)
			}
			return apierr.Invalid("Invalid JSON body")
		}
	}
	if dec.More() {
		return apierr.Invalid("Request body must contain a single JSON object")
	}
	return nil
}

// LimitBody caps request bodies at n bytes.
func LimitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && n > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Message is the body of simple acknowledgement responses.
type Message struct {
	Message string `json:"message"`
}
