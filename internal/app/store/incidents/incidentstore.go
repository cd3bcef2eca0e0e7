package incidentstore

import (
	"context"
	"time"

	"github.com/dalemusser/hostpro/internal/app/store/crud"
	"github.com/dalemusser/hostpro/internal/app/system/paging"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = crud.ErrNotFound

type Store struct {
	incidents crud.Collection[models.Incident]
}

func New(db *mongo.Database) *Store {
	return &Store{incidents: crud.New[models.Incident](db, "incidents")}
}

// Create inserts inc. DetectedAt defaults to now.
func (s *Store) Create(ctx context.Context, inc models.Incident) (models.Incident, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	inc.ID = primitive.NewObjectID()
	if inc.DetectedAt.IsZero() {
		inc.DetectedAt = now
	}
	if inc.AffectedSystems == nil {
		inc.AffectedSystems = []string{}
	}
	if closed(inc.Status) && inc.ResolvedAt == nil {
		inc.ResolvedAt = &now
	}
	inc.CreatedAt = now
	inc.UpdatedAt = now
	if err := s.incidents.Insert(ctx, inc); err != nil {
		return models.Incident{}, err
	}
	return inc, nil
}

func closed(st models.IncidentStatus) bool {
	return st == models.IncidentResolved || st == models.IncidentClosed
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Incident, error) {
	return s.incidents.GetByID(ctx, id)
}

type ListFilter struct {
	Severity string
	Status   string
	Type     string
}

func (s *Store) List(ctx context.Context, f ListFilter, p paging.Params) ([]models.Incident, int64, error) {
	filter := bson.M{}
	crud.Eq(filter, "severity", f.Severity)
	crud.Eq(filter, "status", f.Status)
	crud.Eq(filter, "type", f.Type)
	return s.incidents.Page(ctx, filter, p)
}

// Update holds the fields to change; nil means unchanged.
type Update struct {
	Title           *string
	Description     *string
	Type            *string
	Severity        *models.Severity
	Status          *models.IncidentStatus
	AffectedSystems []string
	DetectedAt      *time.Time
	ReportedBy      *string
	AssignedTo      *primitive.ObjectID
}

// Update applies upd. Moving into resolved or closed stamps resolvedAt;
// moving between those two keeps it, and reopening clears it.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.Incident, error) {
	now := time.Now().UTC()
	set := bson.M{"updatedAt": now}
	unset := bson.M{}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Type != nil {
		set["type"] = *upd.Type
	}
	if upd.Severity != nil {
		set["severity"] = *upd.Severity
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
		if !closed(*upd.Status) {
			unset["resolvedAt"] = ""
		}
	}
	if upd.AffectedSystems != nil {
		set["affectedSystems"] = upd.AffectedSystems
	}
	if upd.DetectedAt != nil {
		set["detectedAt"] = upd.DetectedAt.UTC()
	}
	if upd.ReportedBy != nil {
		set["reportedBy"] = *upd.ReportedBy
	}
	if upd.AssignedTo != nil {
		set["assignedTo"] = *upd.AssignedTo
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	inc, err := s.incidents.Update(ctx, bson.M{"_id": id}, update)
	if err != nil || !closed(inc.Status) || inc.ResolvedAt != nil {
		return inc, err
	}
	return s.incidents.SetOnce(ctx, bson.M{"_id": id}, "resolvedAt", now)
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.incidents.Delete(ctx, bson.M{"_id": id})
}
