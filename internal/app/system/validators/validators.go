// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Collections lists every collection the application owns, in creation order.
var Collections = []string{
	"users", "pages", "tasks",
	"incidents", "threats", "clients", "servers", "domains",
	"audit_events",
}

// EnsureAll creates missing collections and attaches JSON-Schema validators
// where one is defined. Servers that do not support collMod validators
// (some DocumentDB versions) are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	schemas := map[string]bson.M{
		"users":   usersSchema(),
		"pages":   pagesSchema(),
		"tasks":   tasksSchema(),
		"domains": domainsSchema(),
	}

	var problems []string
	for _, coll := range Collections {
		if err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			continue
		}
		schema, ok := schemas[coll]
		if !ok {
			continue
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				continue
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers ---------------------- */

func ensureCollection(ctx context.Context, db *mongo.Database, name string) error {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err == nil && len(names) > 0 {
		return nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return err
	}
	zap.L().Debug("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func commandErr(err error, code int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	s := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func isNamespaceExistsErr(err error) bool {
	return commandErr(err, 48, "already exists", "namespace exists")
}

func isNoSuchCommand(err error) bool {
	return commandErr(err, 59, "no such command")
}

func isNotImplemented(err error) bool {
	return commandErr(err, 115, "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"email", "password", "name", "role", "isActive"},
			"properties": bson.M{
				"email":     nonBlank,
				"password":  nonBlank,
				"name":      nonBlank,
				"role":      bson.M{"enum": bson.A{"admin", "moderator", "user"}},
				"isActive":  bson.M{"bsonType": "bool"},
				"worklines": bson.M{"bsonType": "array", "items": bson.M{"enum": bson.A{"cybersecurity", "hosting"}}},
			},
		},
	}
}

func pagesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "slug", "content", "status", "site"},
			"properties": bson.M{
				"title":  nonBlank,
				"slug":   bson.M{"bsonType": "string", "pattern": "^[a-z0-9]+(-[a-z0-9]+)*$"},
				"status": bson.M{"enum": bson.A{"draft", "published", "archived"}},
				"site":   nonBlank,
				"views":  bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
			},
		},
	}
}

func tasksSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "status", "priority", "site"},
			"properties": bson.M{
				"title":    nonBlank,
				"status":   bson.M{"enum": bson.A{"pending", "in-progress", "completed", "cancelled"}},
				"priority": bson.M{"enum": bson.A{"low", "medium", "high", "urgent"}},
				"site":     nonBlank,
			},
		},
	}
}

func domainsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "clientId", "registrar", "expiryDate"},
			"properties": bson.M{
				"name":       nonBlank,
				"clientId":   bson.M{"bsonType": "objectId"},
				"registrar":  nonBlank,
				"expiryDate": bson.M{"bsonType": "date"},
			},
		},
	}
}
