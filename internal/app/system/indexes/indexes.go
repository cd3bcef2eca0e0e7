// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type collectionSet struct {
	name   string
	models []mongo.IndexModel
}

/*
EnsureAll is called from EnsureSchema at startup. Each index set is
reconciled idempotently and every problem is collected, so one bad
collection does not hide the others.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string
	for _, set := range desired() {
		if err := ensureIndexSet(ctx, db.Collection(set.name), set.models); err != nil {
			problems = append(problems, set.name+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func desired() []collectionSet {
	return []collectionSet{
		{"users", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
			},
			{
				Keys:    bson.D{{Key: "role", Value: 1}, {Key: "isActive", Value: 1}},
				Options: options.Index().SetName("idx_users_role_active"),
			},
			{
				Keys:    bson.D{{Key: "worklines", Value: 1}},
				Options: options.Index().SetName("idx_users_worklines"),
			},
		}},
		{"pages", []mongo.IndexModel{
			// Backs the slug pre-check; a racing insert fails here instead.
			{
				Keys:    bson.D{{Key: "site", Value: 1}, {Key: "slug", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_pages_site_slug"),
			},
			{
				Keys:    bson.D{{Key: "site", Value: 1}, {Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_pages_site_status_created"),
			},
		}},
		{"tasks", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "site", Value: 1}, {Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_tasks_site_status_created"),
			},
			{
				Keys:    bson.D{{Key: "assignedTo", Value: 1}},
				Options: options.Index().SetName("idx_tasks_assignedto"),
			},
		}},
		{"incidents", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "severity", Value: 1}},
				Options: options.Index().SetName("idx_incidents_status_severity"),
			},
		}},
		{"threats", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "type", Value: 1}, {Key: "severity", Value: 1}},
				Options: options.Index().SetName("idx_threats_type_severity"),
			},
		}},
		{"clients", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "workline", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_clients_workline_created"),
			},
			// Hosting client domains are unique; cybersecurity clients have none.
			{
				Keys: bson.D{{Key: "workline", Value: 1}, {Key: "domain", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetName("uniq_clients_workline_domain").
					SetPartialFilterExpression(bson.M{"domain": bson.M{"$type": "string", "$gt": ""}}),
			},
		}},
		{"servers", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_servers_status_created"),
			},
		}},
		{"domains", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_domains_name"),
			},
			{
				Keys:    bson.D{{Key: "expiryDate", Value: 1}},
				Options: options.Index().SetName("idx_domains_expiry"),
			},
		}},
		{"audit_events", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "category", Value: 1}, {Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("idx_audit_category_ts"),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("idx_audit_user_ts"),
			},
		}},
	}
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                       */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolVal(b *bool) bool { return b != nil && *b }

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()), zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		name := *m.Options.Name
		unique := boolVal(m.Options.Unique)
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique))

		if ex, ok := existing[sig]; ok {
			if boolVal(ex.Unique) == unique && ex.Name == name {
				log.Debug("reusing existing index")
				continue
			}
			// Same keys with another name or uniqueness: replace it.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: drop %s failed: %v", name, ex.Name, err))
				continue
			}
			log.Info("dropped mismatched index", zap.String("dropped", ex.Name))
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if unique && wafflemongo.IsDup(err) {
				errs = append(errs, fmt.Sprintf("%s: cannot create unique index (duplicates present on %s)", name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			}
			log.Warn("index ensure failed", zap.Error(err))
			continue
		}
		log.Info("index ensured", zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
