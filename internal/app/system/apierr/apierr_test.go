package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dalemusser/hostpro/internal/app/system/apierr"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  *apierr.Error
		want int
	}{
		{apierr.Unauthenticated("No token provided"), http.StatusUnauthorized},
		{apierr.Forbidden("Insufficient permissions"), http.StatusForbidden},
		{apierr.Invalid("Title is required"), http.StatusBadRequest},
		{apierr.NotFound("Page not found"), http.StatusNotFound},
		{apierr.Conflict("User already exists"), http.StatusConflict},
		{apierr.TooLarge("Request body too large"), http.StatusRequestEntityTooLarge},
		{apierr.RateLimited("slow down"), http.StatusTooManyRequests},
		{apierr.Internal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.err.Status(); got != tt.want {
			t.Errorf("%s.Status() = %d, want %d", tt.err.Kind, got, tt.want)
		}
	}
}

func TestFrom(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", apierr.NotFound("Task not found"))
	if got := apierr.From(wrapped); got.Kind != apierr.KindNotFound || got.Message != "Task not found" {
		t.Errorf("From(wrapped NotFound) = %+v", got)
	}

	plain := errors.New("connection reset")
	got := apierr.From(plain)
	if got.Kind != apierr.KindServer {
		t.Errorf("From(plain).Kind = %v, want server", got.Kind)
	}
	if got.Message != apierr.ServerMessage {
		t.Errorf("From(plain).Message = %q, want %q", got.Message, apierr.ServerMessage)
	}
	if !errors.Is(got, plain) {
		t.Error("expected server error to unwrap to the original")
	}
}

func TestIs(t *testing.T) {
	if !apierr.Is(apierr.Conflict("dup"), apierr.KindConflict) {
		t.Error("Is(Conflict, KindConflict) = false")
	}
	if apierr.Is(errors.New("x"), apierr.KindConflict) {
		t.Error("Is(plain, KindConflict) = true")
	}
}
