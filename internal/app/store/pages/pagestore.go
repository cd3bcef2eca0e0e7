package pagestore

import (
	"context"
	"errors"
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
	// ErrDuplicateSlug is returned when (site, slug) is already taken.
	ErrDuplicateSlug = errors.New("page with this slug already exists")
)

// Store reads and writes pages. A Store returned by InSite only sees
// pages of that site.
type Store struct {
	pages crud.Collection[models.Page]
	site  string
}

func New(db *mongo.Database) *Store {
	return &Store{pages: crud.New[models.Page](db, "pages")}
}

// InSite returns a view of s pinned to site.
func (s *Store) InSite(site string) *Store {
	return &Store{pages: s.pages, site: site}
}

// Site returns the pinned site, or "" when unpinned.
func (s *Store) Site() string { return s.site }

func (s *Store) scoped(filter bson.M) bson.M {
	if s.site != "" {
		filter["site"] = s.site
	}
	return filter
}

// Create inserts p with a fresh id and timestamps.
func (s *Store) Create(ctx context.Context, p models.Page) (models.Page, error) {
	if s.site != "" {
		p.Site = s.site
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == models.PagePublished && p.PublishedAt == nil {
		p.PublishedAt = &now
	}
	if err := s.pages.Insert(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Page{}, ErrDuplicateSlug
		}
		return models.Page{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Page, error) {
	return s.pages.Get(ctx, s.scoped(bson.M{"_id": id}))
}

// SlugExists reports whether slug is used on site by a page other than exclude.
func (s *Store) SlugExists(ctx context.Context, site, slug string, exclude *primitive.ObjectID) (bool, error) {
	filter := bson.M{"site": site, "slug": slug}
	if exclude != nil {
		filter["_id"] = bson.M{"$ne": *exclude}
	}
	return s.pages.Exists(ctx, filter)
}

// GetPublished returns the published page at (site, slug).
func (s *Store) GetPublished(ctx context.Context, site, slug string) (models.Page, error) {
	return s.pages.Get(ctx, bson.M{"site": site, "slug": slug, "status": models.PagePublished})
}

type ListFilter struct {
	Status string
	Site   string
	Search string
}

// List returns one page of pages, newest first. A pinned store ignores
// f.Site.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Params) ([]models.Page, int64, error) {
	filter := bson.M{}
	crud.Eq(filter, "status", f.Status)
	crud.Eq(filter, "site", f.Site)
	if f.Search != "" {
		filter["$or"] = crud.SearchAny(f.Search, "title", "content")
	}
	return s.pages.Page(ctx, s.scoped(filter), p)
}

// Update holds the fields to change; nil means unchanged.
type Update struct {
	Title           *string
	Slug            *string
	Content         *string
	Excerpt         *string
	Status          *models.PageStatus
	Site            *string
	MetaTitle       *string
	MetaDescription *string
	Tags            []string
	PublishedAt     *time.Time
}

func (u Update) set(now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Slug != nil {
		set["slug"] = *u.Slug
	}
	if u.Content != nil {
		set["content"] = *u.Content
	}
	if u.Excerpt != nil {
		set["excerpt"] = *u.Excerpt
	}
	if u.Status != nil {
		set["status"] = *u.Status
	}
	if u.Site != nil {
		set["site"] = *u.Site
	}
	if u.MetaTitle != nil {
		set["metaTitle"] = *u.MetaTitle
	}
	if u.MetaDescription != nil {
		set["metaDescription"] = *u.MetaDescription
	}
	if u.Tags != nil {
		set["tags"] = u.Tags
	}
	if u.PublishedAt != nil {
		set["publishedAt"] = u.PublishedAt.UTC()
	}
	return set
}

// Update applies upd and returns the page as stored afterwards.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.Page, error) {
	if s.site != "" {
		upd.Site = nil
	}
	now := time.Now().UTC()
	p, err := s.pages.Update(ctx, s.scoped(bson.M{"_id": id}), bson.M{"$set": upd.set(now)})
	if wafflemongo.IsDup(err) {
		return models.Page{}, ErrDuplicateSlug
	}
	return p, err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.pages.Delete(ctx, s.scoped(bson.M{"_id": id}))
}

// IncrementViews adds one view and returns the new count.
func (s *Store) IncrementViews(ctx context.Context, id primitive.ObjectID) (int64, error) {
	var out struct {
		Views int64 `bson:"views"`
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"views": 1})
	err := s.pages.C.FindOneAndUpdate(ctx, s.scoped(bson.M{"_id": id}), bson.M{"$inc": bson.M{"views": 1}}, opts).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, ErrNotFound
	}
	return out.Views, err
}

