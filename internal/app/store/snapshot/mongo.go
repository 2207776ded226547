// internal/app/store/snapshot/mongo.go
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollection is the collection that holds one document per snapshot.
const MongoCollection = "content_snapshots"

type mongoDoc struct {
	Name      string    `bson:"_id"`
	Data      string    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Mongo stores each collection snapshot as a single document.
type Mongo struct {
	c *mongo.Collection
}

// NewMongo creates a Mongo backend over db.
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{c: db.Collection(MongoCollection)}
}

// Load returns the stored snapshot, or nil when none exists.
func (m *Mongo) Load(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	var doc mongoDoc
	err := m.c.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return []byte(doc.Data), nil
}

// Save replaces the snapshot document, creating it on first save.
func (m *Mongo) Save(ctx context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	doc := mongoDoc{Name: name, Data: string(data), UpdatedAt: time.Now().UTC()}
	_, err := m.c.ReplaceOne(ctx, bson.M{"_id": name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

// Names lists the stored collections.
func (m *Mongo) Names(ctx context.Context) ([]string, error) {
	cur, err := m.c.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var names []string
	for cur.Next(ctx) {
		var doc struct {
			Name string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		names = append(names, doc.Name)
	}
	return names, cur.Err()
}
