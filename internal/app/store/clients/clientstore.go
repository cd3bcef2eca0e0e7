// Package clientstore keeps the clients of both worklines in one
// collection. Every Store is bound to a single workline and never sees
// the other's documents.
package clientstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/hostpro/internal/app/store/crud"
	"github.com/dalemusser/hostpro/internal/app/system/normalize"
	"github.com/dalemusser/hostpro/internal/app/system/paging"
	"github.com/dalemusser/hostpro/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = crud.ErrNotFound
	// ErrDuplicateDomain is returned when another client of the workline
	// already owns the domain.
	ErrDuplicateDomain = errors.New("a client with this domain already exists")
)

type Store struct {
	clients  crud.Collection[models.Client]
	workline models.Workline
}

func New(db *mongo.Database, w models.Workline) *Store {
	return &Store{clients: crud.New[models.Client](db, "clients"), workline: w}
}

func (s *Store) Workline() models.Workline { return s.workline }

func (s *Store) scoped(filter bson.M) bson.M {
	filter["workline"] = s.workline
	return filter
}

func (s *Store) Create(ctx context.Context, c models.Client) (models.Client, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	c.ID = primitive.NewObjectID()
	c.Workline = s.workline
	c.Email = normalize.Email(c.Email)
	c.Domain = strings.ToLower(strings.TrimSpace(c.Domain))
	if c.Status == "" {
		c.Status = "active"
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := s.clients.Insert(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Client{}, ErrDuplicateDomain
		}
		return models.Client{}, err
	}
	return c, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Client, error) {
	return s.clients.Get(ctx, s.scoped(bson.M{"_id": id}))
}

// Exists reports whether id is a client of this workline.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return s.clients.Exists(ctx, s.scoped(bson.M{"_id": id}))
}

// DomainTaken reports whether a client other than exclude owns domain.
func (s *Store) DomainTaken(ctx context.Context, domain string, exclude *primitive.ObjectID) (bool, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return false, nil
	}
	filter := s.scoped(bson.M{"domain": domain})
	if exclude != nil {
		filter["_id"] = bson.M{"$ne": *exclude}
	}
	return s.clients.Exists(ctx, filter)
}

type ListFilter struct {
	Search    string
	RiskLevel string
	Industry  string
	Plan      string
	Status    string
}

// List searches name, email and company.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Params) ([]models.Client, int64, error) {
	filter := bson.M{}
	crud.Eq(filter, "riskLevel", f.RiskLevel)
	crud.Eq(filter, "industry", f.Industry)
	crud.Eq(filter, "plan", f.Plan)
	crud.Eq(filter, "status", f.Status)
	if f.Search != "" {
		filter["$or"] = crud.SearchAny(f.Search, "name", "email", "company")
	}
	return s.clients.Page(ctx, s.scoped(filter), p)
}

// Update holds the fields to change; nil means unchanged.
type Update struct {
	Name          *string
	Email         *string
	Company       *string
	Status        *string
	Industry      *string
	RiskLevel     *models.Severity
	Services      []string
	SecurityScore *int
	IncidentCount *int
	Plan          *models.HostingPlan
	Domain        *string
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.Client, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	unset := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Email != nil {
		set["email"] = normalize.Email(*upd.Email)
	}
	if upd.Company != nil {
		set["company"] = *upd.Company
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.Industry != nil {
		set["industry"] = *upd.Industry
	}
	if upd.RiskLevel != nil {
		set["riskLevel"] = *upd.RiskLevel
	}
	if upd.Services != nil {
		set["services"] = upd.Services
	}
	if upd.SecurityScore != nil {
		set["securityScore"] = *upd.SecurityScore
	}
	if upd.IncidentCount != nil {
		set["incidentCount"] = *upd.IncidentCount
	}
	if upd.Plan != nil {
		set["plan"] = *upd.Plan
	}
	if upd.Domain != nil {
		// An empty domain is unset so the partial unique index skips it.
		if d := strings.ToLower(strings.TrimSpace(*upd.Domain)); d != "" {
			set["domain"] = d
		} else {
			unset["domain"] = ""
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	c, err := s.clients.Update(ctx, s.scoped(bson.M{"_id": id}), update)
	if wafflemongo.IsDup(err) {
		return models.Client{}, ErrDuplicateDomain
	}
	return c, err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.clients.Delete(ctx, s.scoped(bson.M{"_id": id}))
}

// Refs resolves ids to their short form. Unknown ids are absent.
func (s *Store) Refs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.ClientRef, error) {
	out := make(map[primitive.ObjectID]models.ClientRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	opts := options.Find().SetProjection(bson.M{"name": 1, "email": 1, "company": 1})
	clients, err := s.clients.Find(ctx, s.scoped(bson.M{"_id": bson.M{"$in": ids}}), opts)
	if err != nil {
		return nil, err
	}
	for _, c := range clients {
		out[c.ID] = c.Ref()
	}
	return out, nil
}
