package serverstore

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
	servers crud.Collection[models.Server]
}

func New(db *mongo.Database) *Store {
	return &Store{servers: crud.New[models.Server](db, "servers")}
}

func (s *Store) Create(ctx context.Context, srv models.Server) (models.Server, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	srv.ID = primitive.NewObjectID()
	if srv.Status == "" {
		srv.Status = models.ServerActive
	}
	srv.CreatedAt = now
	srv.UpdatedAt = now
	if err := s.servers.Insert(ctx, srv); err != nil {
		return models.Server{}, err
	}
	return srv, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Server, error) {
	return s.servers.GetByID(ctx, id)
}

type ListFilter struct {
	Status   string
	Type     string
	Location string
}

func (s *Store) List(ctx context.Context, f ListFilter, p paging.Params) ([]models.Server, int64, error) {
	filter := bson.M{}
	crud.Eq(filter, "status", f.Status)
	crud.Eq(filter, "type", f.Type)
	crud.Eq(filter, "location", f.Location)
	return s.servers.Page(ctx, filter, p)
}

// Update holds the fields to change; nil means unchanged.
type Update struct {
	Name            *string
	Type            *string
	Location        *string
	IPAddress       *string
	Specifications  *models.ServerSpecs
	OperatingSystem *string
	Status          *models.ServerStatus
	ClientID        *primitive.ObjectID
	MonthlyPrice    *float64
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.Server, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Type != nil {
		set["type"] = *upd.Type
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.IPAddress != nil {
		set["ipAddress"] = *upd.IPAddress
	}
	if upd.Specifications != nil {
		set["specifications"] = *upd.Specifications
	}
	if upd.OperatingSystem != nil {
		set["operatingSystem"] = *upd.OperatingSystem
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.ClientID != nil {
		set["clientId"] = *upd.ClientID
	}
	if upd.MonthlyPrice != nil {
		set["monthlyPrice"] = *upd.MonthlyPrice
	}
	return s.servers.Update(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.servers.Delete(ctx, bson.M{"_id": id})
}
