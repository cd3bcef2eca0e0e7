// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"time"

	uierrors "github.com/dalemusser/hostpro/internal/app/features/errors"
	"github.com/dalemusser/hostpro/internal/app/store/audit"
	"github.com/dalemusser/hostpro/internal/app/system/apierr"
	"github.com/dalemusser/hostpro/internal/app/system/apiutil"
	"github.com/dalemusser/hostpro/internal/app/system/paging"
	"github.com/dalemusser/hostpro/internal/app/system/timeouts"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// eventView is an audit event with its user ids resolved.
type eventView struct {
	audit.Event
	User  *models.UserRef `json:"user,omitempty"`
	Actor *models.UserRef `json:"actor,omitempty"`
}

// ServeList handles GET /api/audit.
//
// Filters: category, eventType, userId, and from/to (RFC 3339 or
// YYYY-MM-DD). A bare "to" date covers that whole day.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	p := paging.Parse(r)
	f.Limit = p.Limit64()
	f.Offset = p.Skip()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	total, err := h.Events.Count(ctx, f)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	events, err := h.Events.Query(ctx, f)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	var ids []primitive.ObjectID
	for _, e := range events {
		if e.UserID != nil {
			ids = append(ids, *e.UserID)
		}
		if e.ActorID != nil {
			ids = append(ids, *e.ActorID)
		}
	}
	refs, err := h.Users.Refs(ctx, ids)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	views := make([]eventView, len(events))
	for i, e := range events {
		views[i] = eventView{Event: e, User: lookup(refs, e.UserID), Actor: lookup(refs, e.ActorID)}
	}
	apiutil.WriteList(w, "events", views, p, total)
}

func parseFilter(r *http.Request) (audit.QueryFilter, error) {
	f := audit.QueryFilter{
		Category:  apiutil.Filter(r, "category"),
		EventType: apiutil.Filter(r, "eventType"),
	}
	uid, err := apiutil.OptionalID(apiutil.Filter(r, "userId"), "user")
	if err != nil {
		return f, err
	}
	f.UserID = uid

	if s := query.Get(r, "from"); s != "" {
		t, ok := apiutil.ParseTime(s)
		if !ok {
			return f, apierr.Invalid("From must be an RFC 3339 timestamp or YYYY-MM-DD")
		}
		f.StartTime = &t
	}
	if s := query.Get(r, "to"); s != "" {
		t, ok := apiutil.ParseTime(s)
		if !ok {
			return f, apierr.Invalid("To must be an RFC 3339 timestamp or YYYY-MM-DD")
		}
		if _, err := time.Parse(apiutil.DateLayout, s); err == nil {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.EndTime = &t
	}
	return f, nil
}

func lookup(refs map[primitive.ObjectID]models.UserRef, id *primitive.ObjectID) *models.UserRef {
	if id == nil {
		return nil
	}
	if ref, ok := refs[*id]; ok {
		return &ref
	}
	return nil
}
