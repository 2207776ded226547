// internal/app/system/indexes/indexes.go
// Package indexes reconciles the Mongo indexes the site relies on.
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/wavesite/internal/app/store/audit"
	"github.com/dalemusser/wavesite/internal/app/store/snapshot"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// wanted maps each collection to the indexes it should carry.
func wanted() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		// Snapshots are read by _id; updated_at serves the refresh job and
		// operators looking for recent edits.
		snapshot.MongoCollection: {
			index("idx_snapshots_updated", bson.D{{Key: "updated_at", Value: -1}}),
		},
		audit.CollectionName: {
			index("idx_audit_created", bson.D{{Key: "created_at", Value: -1}}),
			index("idx_audit_category_created", bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}}),
			index("idx_audit_event_created", bson.D{{Key: "event_type", Value: 1}, {Key: "created_at", Value: -1}}),
			index("idx_audit_record_created", bson.D{{Key: "collection", Value: 1}, {Key: "record_id", Value: 1}, {Key: "created_at", Value: -1}}),
		},
	}
}

func index(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name)}
}

// EnsureAll reconciles every collection's indexes. It is idempotent and
// reports every failure, not only the first.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	all := wanted()
	var errs []error
	for _, name := range lo.Keys(all) {
		if err := ensureIndexSet(ctx, db.Collection(name), all[name], logger); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

// action is what reconciling one desired index requires.
type action int

const (
	actionCreate action = iota
	actionKeep
	actionReplace
)

func (a action) String() string {
	switch a {
	case actionKeep:
		return "keep"
	case actionReplace:
		return "replace"
	default:
		return "create"
	}
}

// plan decides what to do with a desired index given those already present,
// matched by key pattern rather than name.
func plan(existing map[string]existingIndex, m mongo.IndexModel) (action, existingIndex) {
	ex, ok := existing[keySig(m.Keys.(bson.D))]
	if !ok {
		return actionCreate, existingIndex{}
	}
	if isUnique(ex.Unique) == isUnique(wantUnique(m)) {
		return actionKeep, ex
	}
	return actionReplace, ex
}

func keySig(keys bson.D) string {
	return strings.Join(lo.Map(keys, func(kv bson.E, _ int) string {
		return fmt.Sprintf("%s:%v", kv.Key, kv.Value)
	}), ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

func wantUnique(m mongo.IndexModel) *bool {
	if m.Options == nil {
		return nil
	}
	return m.Options.Unique
}

func wantName(m mongo.IndexModel) string {
	if m.Options == nil || m.Options.Name == nil {
		return ""
	}
	return *m.Options.Name
}

// isDuplicateKeyErr recognizes E11000 across servers and error shapes.
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) && lo.SomeBy(we.WriteErrors, func(e mongo.WriteError) bool { return e.Code == 11000 }) {
		return true
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// listIndexes keys the collection's indexes by key signature. A listing
// failure yields an empty map so every index is attempted.
func listIndexes(ctx context.Context, coll *mongo.Collection, logger *zap.Logger) map[string]existingIndex {
	existing := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		logger.Warn("listing indexes failed", zap.String("collection", coll.Name()), zap.Error(err))
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			logger.Warn("failed to decode existing index", zap.String("collection", coll.Name()), zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, logger *zap.Logger) error {
	existing := listIndexes(ctx, coll, logger)
	var errs []error

	for _, m := range models {
		start := time.Now()
		name := wantName(m)
		act, ex := plan(existing, m)
		log := logger.With(
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", keySig(m.Keys.(bson.D))),
			zap.Stringer("action", act),
		)

		if act == actionReplace {
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				log.Warn("drop existing index failed", zap.Error(err))
				errs = append(errs, fmt.Errorf("%s: drop %s: %w", name, ex.Name, err))
				continue
			}
		}
		if act != actionKeep {
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				log.Warn("index ensure failed", zap.Error(err))
				if isDuplicateKeyErr(err) && isUnique(wantUnique(m)) {
					err = fmt.Errorf("cannot create unique index, duplicates present: %w", err)
				}
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				continue
			}
		}
		log.Info("index ensured", zap.Duration("took", time.Since(start)))
	}
	return errors.Join(errs...)
}
