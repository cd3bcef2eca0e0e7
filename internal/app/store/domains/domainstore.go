package domainstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/hostpro/internal/app/store/crud"
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
	// ErrDuplicateName is returned when the domain name is already registered.
	ErrDuplicateName = errors.New("domain already exists")
)

type Store struct {
	domains crud.Collection[models.Domain]
}

func New(db *mongo.Database) *Store {
	return &Store{domains: crud.New[models.Domain](db, "domains")}
}

// CanonicalName lowercases and trims a domain name.
func CanonicalName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Create inserts d with its name canonicalised.
func (s *Store) Create(ctx context.Context, d models.Domain) (models.Domain, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	d.ID = primitive.NewObjectID()
	d.Name = CanonicalName(d.Name)
	d.ExpiryDate = d.ExpiryDate.UTC()
	if d.Status == "" {
		d.Status = "active"
	}
	if d.SSLStatus == "" {
		d.SSLStatus = "pending"
	}
	if d.DNSRecords == nil {
		d.DNSRecords = []models.DNSRecord{}
	}
	d.CreatedAt = now
	d.UpdatedAt = now
	if err := s.domains.Insert(ctx, d); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Domain{}, ErrDuplicateName
		}
		return models.Domain{}, err
	}
	return d, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Domain, error) {
	return s.domains.GetByID(ctx, id)
}

// NameExists reports whether name is registered.
func (s *Store) NameExists(ctx context.Context, name string) (bool, error) {
	return s.domains.Exists(ctx, bson.M{"name": CanonicalName(name)})
}

type ListFilter struct {
	Status    string
	Registrar string
	ClientID  *primitive.ObjectID
	Search    string
}

func (s *Store) List(ctx context.Context, f ListFilter, p paging.Params) ([]models.Domain, int64, error) {
	filter := bson.M{}
	crud.Eq(filter, "status", f.Status)
	crud.Eq(filter, "registrar", f.Registrar)
	if f.ClientID != nil {
		filter["clientId"] = *f.ClientID
	}
	if f.Search != "" {
		filter["name"] = crud.Contains(f.Search)
	}
	return s.domains.Page(ctx, filter, p)
}

// Expiring returns domains whose expiry falls between now and now+days,
// soonest first.
func (s *Store) Expiring(ctx context.Context, now time.Time, days int) ([]models.Domain, error) {
	until := now.AddDate(0, 0, days)
	filter := bson.M{"expiryDate": bson.M{"$gte": now.UTC(), "$lte": until.UTC()}}
	opts := options.Find().SetSort(bson.D{{Key: "expiryDate", Value: 1}})
	return s.domains.Find(ctx, filter, opts)
}

// Update holds the fields to change; nil means unchanged.
type Update struct {
	Name       *string
	ClientID   *primitive.ObjectID
	Registrar  *string
	ExpiryDate *time.Time
	Status     *string
	AutoRenew  *bool
	DNSRecords []models.DNSRecord
	SSLStatus  *string
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.Domain, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = CanonicalName(*upd.Name)
	}
	if upd.ClientID != nil {
		set["clientId"] = *upd.ClientID
	}
	if upd.Registrar != nil {
		set["registrar"] = *upd.Registrar
	}
	if upd.ExpiryDate != nil {
		set["expiryDate"] = upd.ExpiryDate.UTC()
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.AutoRenew != nil {
		set["autoRenew"] = *upd.AutoRenew
	}
	if upd.DNSRecords != nil {
		set["dnsRecords"] = upd.DNSRecords
	}
	if upd.SSLStatus != nil {
		set["sslStatus"] = *upd.SSLStatus
	}
	d, err := s.domains.Update(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if wafflemongo.IsDup(err) {
		return models.Domain{}, ErrDuplicateName
	}
	return d, err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.domains.Delete(ctx, bson.M{"_id": id})
}
