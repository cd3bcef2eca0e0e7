// Package crud holds the collection plumbing every entity store shares:
// paged listing, single-document lookups and id-scoped writes. Not-found
// is always reported as ErrNotFound.
package crud

import (
	"context"
	"errors"
	"regexp"

	"github.com/dalemusser/hostpro/internal/app/system/paging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no document matches.
var ErrNotFound = errors.New("not found")

// NewestFirst is the list order used everywhere.
var NewestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// Collection is a typed view of a Mongo collection.
type Collection[T any] struct {
	C *mongo.Collection
}

// New returns a typed collection named name in db.
func New[T any](db *mongo.Database, name string) Collection[T] {
	return Collection[T]{C: db.Collection(name)}
}

// Page counts the matches for filter, then returns the requested page
// sorted newest first.
func (c Collection[T]) Page(ctx context.Context, filter bson.M, p paging.Params) ([]T, int64, error) {
	total, err := c.C.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(NewestFirst).
		SetSkip(p.Skip()).
		SetLimit(p.Limit64())
	items, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Find returns every match. The result is never nil.
func (c Collection[T]) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cur, err := c.C.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the first match for filter.
func (c Collection[T]) Get(ctx context.Context, filter bson.M) (T, error) {
	var v T
	err := c.C.FindOne(ctx, filter).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return v, ErrNotFound
	}
	return v, err
}

// GetByID returns the document with _id id.
func (c Collection[T]) GetByID(ctx context.Context, id primitive.ObjectID) (T, error) {
	return c.Get(ctx, bson.M{"_id": id})
}

// Insert stores doc.
func (c Collection[T]) Insert(ctx context.Context, doc T) error {
	_, err := c.C.InsertOne(ctx, doc)
	return err
}

// Update applies update to the first match for filter and returns the
// document as it is afterwards.
func (c Collection[T]) Update(ctx context.Context, filter bson.M, update bson.M) (T, error) {
	var v T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := c.C.FindOneAndUpdate(ctx, filter, update, opts).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return v, ErrNotFound
	}
	return v, err
}

// SetOnce sets field to v on the first match for filter unless the field
// is already present, and returns the document as it is afterwards.
func (c Collection[T]) SetOnce(ctx context.Context, filter bson.M, field string, v any) (T, error) {
	guarded := bson.M{field: bson.M{"$exists": false}}
	for k, val := range filter {
		guarded[k] = val
	}
	doc, err := c.Update(ctx, guarded, bson.M{"$set": bson.M{field: v}})
	if errors.Is(err, ErrNotFound) {
		return c.Get(ctx, filter)
	}
	return doc, err
}

// Delete removes the first match for filter.
func (c Collection[T]) Delete(ctx context.Context, filter bson.M) error {
	res, err := c.C.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Exists reports whether any document matches filter.
func (c Collection[T]) Exists(ctx context.Context, filter bson.M) (bool, error) {
	err := c.C.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return err == nil, err
}

// Contains matches s anywhere in a field, case-insensitively. s is quoted,
// so user input is never interpreted as a pattern.
func Contains(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}

// SearchAny builds an $or of Contains(s) over fields.
func SearchAny(s string, fields ...string) bson.A {
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: Contains(s)})
	}
	return or
}

// Eq sets filter[field] = value unless value is empty.
func Eq(filter bson.M, field, value string) {
	if value != "" {
		filter[field] = value
	}
}

// UniqueIDs returns the distinct non-nil ids, in first-seen order.
func UniqueIDs(ids ...*primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id == nil || id.IsZero() || seen[*id] {
			continue
		}
		seen[*id] = true
		out = append(out, *id)
	}
	return out
}
