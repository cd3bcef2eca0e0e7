package threatstore

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
	threats crud.Collection[models.Threat]
}

func New(db *mongo.Database) *Store {
	return &Store{threats: crud.New[models.Threat](db, "threats")}
}

func (s *Store) Create(ctx context.Context, th models.Threat) (models.Threat, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	th.ID = primitive.NewObjectID()
	if th.Indicators == nil {
		th.Indicators = []string{}
	}
	if th.MitigationSteps == nil {
		th.MitigationSteps = []string{}
	}
	th.CreatedAt = now
	th.UpdatedAt = now
	if err := s.threats.Insert(ctx, th); err != nil {
		return models.Threat{}, err
	}
	return th, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Threat, error) {
	return s.threats.GetByID(ctx, id)
}

type ListFilter struct {
	Type     string
	Severity string
	Status   string
	Search   string
}

// List searches name, description and source.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Params) ([]models.Threat, int64, error) {
	filter := bson.M{}
	crud.Eq(filter, "type", f.Type)
	crud.Eq(filter, "severity", f.Severity)
	crud.Eq(filter, "status", f.Status)
	if f.Search != "" {
		filter["$or"] = crud.SearchAny(f.Search, "name", "description", "source")
	}
	return s.threats.Page(ctx, filter, p)
}

type Update struct {
	Name            *string
	Type            *models.ThreatType
	Severity        *models.Severity
	Description     *string
	Source          *string
	Status          *models.ThreatStatus
	Indicators      []string
	MitigationSteps []string
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.Threat, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Type != nil {
		set["type"] = *upd.Type
	}
	if upd.Severity != nil {
		set["severity"] = *upd.Severity
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Source != nil {
		set["source"] = *upd.Source
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.Indicators != nil {
		set["indicators"] = upd.Indicators
	}
	if upd.MitigationSteps != nil {
		set["mitigationSteps"] = upd.MitigationSteps
	}
	return s.threats.Update(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

// AddIndicators adds each indicator not already present and returns the
// updated threat.
func (s *Store) AddIndicators(ctx context.Context, id primitive.ObjectID, indicators []string) (models.Threat, error) {
	update := bson.M{
		"$addToSet": bson.M{"indicators": bson.M{"$each": indicators}},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}
	return s.threats.Update(ctx, bson.M{"_id": id}, update)
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.threats.Delete(ctx, bson.M{"_id": id})
}
