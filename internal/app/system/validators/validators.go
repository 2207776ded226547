// internal/app/system/validators/validators.go
// Package validators creates the Mongo collections the site writes to and
// attaches JSON-Schema validators to them.
package validators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/wavesite/internal/app/store/audit"
	"github.com/dalemusser/wavesite/internal/app/store/snapshot"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// collection is one collection and the schema its documents must satisfy.
type collection struct {
	name   string
	schema bson.M
}

func collections() []collection {
	return []collection{
		{snapshot.MongoCollection, snapshotsSchema()},
		{audit.CollectionName, auditSchema()},
	}
}

// EnsureAll creates missing collections and attaches validators. Servers
// without collMod (some DocumentDB versions) keep the collection and skip
// the validator. Every collection is attempted; failures are joined.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	existing, listErr := db.ListCollectionNames(ctx, bson.M{})
	if listErr != nil {
		logger.Warn("listing collections failed; creating blindly", zap.Error(listErr))
	}

	var errs []error
	for _, s := range collections() {
		if err := ensure(ctx, db, s, existing, logger); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}

func ensure(ctx context.Context, db *mongo.Database, s collection, existing []string, logger *zap.Logger) error {
	if _, err := ensureCollection(ctx, db, s.name, existing, logger); err != nil {
		return err
	}
	err := setValidator(ctx, db, s.name, s.schema)
	switch {
	case err == nil:
		logger.Debug("validator ensured", zap.String("collection", s.name))
		return nil
	case isNoSuchCommand(err) || isNotImplemented(err):
		logger.Info("validator skipped (unsupported)", zap.String("collection", s.name))
		return nil
	default:
		return err
	}
}

// collectionExists reports whether name already exists.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return lo.Contains(names, name), nil
}

// ensureCollection makes sure name exists. created is true only when this
// call created it; losing a creation race counts as existing.
func ensureCollection(ctx context.Context, db *mongo.Database, name string, existing []string, logger *zap.Logger) (created bool, err error) {
	if lo.Contains(existing, name) {
		return false, nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return false, nil
		}
		return false, err
	}
	logger.Info("created collection", zap.String("collection", name))
	return true, nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	return db.RunCommand(ctx, cmd).Err()
}

// commandErr matches a Mongo command error by code or by message phrase.
// The message check also covers drivers and proxies that flatten errors to
// plain strings.
func commandErr(err error, code int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	msg := strings.ToLower(err.Error())
	return lo.SomeBy(phrases, func(p string) bool { return strings.Contains(msg, p) })
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

// Snapshot data is the serialized collection as a string so that the
// bytes read back are exactly the bytes written.
func snapshotsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"_id", "data", "updated_at"},
			"properties": bson.M{
				"_id":        bson.M{"bsonType": "string", "pattern": "^[a-z0-9_-]+$"},
				"data":       bson.M{"bsonType": "string"},
				"updated_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func auditSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"created_at", "category", "event_type", "success"},
			"properties": bson.M{
				"created_at": bson.M{"bsonType": "date"},
				"category":   bson.M{"enum": bson.A{audit.CategoryAuth, audit.CategoryContent}},
				"event_type": bson.M{"bsonType": "string", "minLength": 1},
				"success":    bson.M{"bsonType": "bool"},
				"details":    bson.M{"bsonType": bson.A{"object", "null"}},
			},
		},
	}
}
