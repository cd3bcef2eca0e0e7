// Package apiutil holds the request parsing and response shaping every
// JSON resource handler repeats.
package apiutil

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/hostpro/internal/app/store/crud"
	"github.com/dalemusser/hostpro/internal/app/system/apierr"
	"github.com/dalemusser/hostpro/internal/app/system/inputval"
	"github.com/dalemusser/hostpro/internal/app/system/jsonutil"
	"github.com/dalemusser/hostpro/internal/app/system/normalize"
	"github.com/dalemusser/hostpro/internal/app/system/paging"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the date-only form accepted wherever a timestamp is.
const DateLayout = "2006-01-02"

// PathID parses the {id} URL parameter. thing names the resource in the
// error, as in "Invalid task ID".
func PathID(r *http.Request, thing string) (primitive.ObjectID, error) {
	return ParseID(chi.URLParam(r, "id"), thing)
}

// ParseID parses a hex ObjectID.
func ParseID(s, thing string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	if err != nil {
		return primitive.NilObjectID, apierr.Invalid("Invalid " + thing + " ID")
	}
	return id, nil
}

// OptionalID parses s when it is non-empty and returns nil otherwise.
func OptionalID(s, thing string) (*primitive.ObjectID, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	id, err := ParseID(s, thing)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// Filter reads an equality filter from the query string; "all" means none.
func Filter(r *http.Request, key string) string {
	return normalize.Filter(query.Get(r, key))
}

// Search reads the free-text ?search= parameter.
func Search(r *http.Request) string {
	return normalize.QueryParam(query.Get(r, "search"))
}

// ParseTime accepts RFC 3339 or a bare YYYY-MM-DD date (midnight UTC).
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Validate runs the struct-tag rules on v and reports the first failure
// as a validation error.
func Validate(v any) error {
	if res := inputval.Validate(v); res.HasErrors() {
		return apierr.Invalid(res.First())
	}
	return nil
}

// NotFound turns a store's not-found error into a 404 with msg. Any other
// error is returned unchanged.
func NotFound(err error, msg string) error {
	if errors.Is(err, crud.ErrNotFound) {
		return apierr.NotFound(msg)
	}
	return err
}

// WriteList sends the uniform list body: the items under plural plus the
// pagination block.
func WriteList(w http.ResponseWriter, plural string, items any, p paging.Params, total int64) {
	jsonutil.Write(w, http.StatusOK, map[string]any{
		plural:       items,
		"pagination": paging.NewResult(p, total),
	})
}

// WriteItem sends {message, <key>: v}. An empty message is omitted.
func WriteItem(w http.ResponseWriter, status int, message, key string, v any) {
	body := map[string]any{key: v}
	if message != "" {
		body["message"] = message
	}
	jsonutil.Write(w, status, body)
}

// Trim returns a trimmed copy of *s, or nil when s is nil.
func Trim(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// Worklines parses requested workline names and picks the primary. No
// names means DefaultWorkline; a named primary must be one of them.
func Worklines(names []string, primaryName string) ([]models.Workline, models.Workline, error) {
	worklines, ok := models.ParseWorklines(names)
	if !ok {
		return nil, "", apierr.Invalid("Worklines contains an unknown workline.")
	}
	if len(worklines) == 0 {
		worklines = []models.Workline{models.DefaultWorkline}
	}
	primary := worklines[0]
	if primaryName != "" {
		p, _ := models.ParseWorkline(primaryName)
		if !models.ContainsWorkline(worklines, p) {
			return nil, "", apierr.Invalid("Primary workline must be one of the user's worklines.")
		}
		primary = p
	}
	return worklines, primary, nil
}
