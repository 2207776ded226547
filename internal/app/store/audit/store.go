// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the Mongo collection holding audit events.
const CollectionName = "audit_logs"

// Event categories
const (
	CategoryAuth    = "auth"
	CategoryContent = "content"
)

// Auth event types
const (
	EventLoginSuccess = "login_success"
	EventLoginFailed  = "login_failed"
	EventLogout       = "logout"
)

// Content event types
const (
	EventContentCreated = "content_created"
	EventContentUpdated = "content_updated"
	EventContentDeleted = "content_deleted"
	EventImageUploaded  = "image_uploaded"
	EventDraftGenerated = "draft_generated"
)

// Event is one audited action.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`

	Category  string `bson:"category" json:"category"`
	EventType string `bson:"event_type" json:"eventType"`

	// Actor is the admin username, or "api-key".
	Actor      string `bson:"actor,omitempty" json:"actor,omitempty"`
	Collection string `bson:"collection,omitempty" json:"collection,omitempty"`
	RecordID   string `bson:"record_id,omitempty" json:"recordId,omitempty"`

	IP        string `bson:"ip" json:"ip"`
	UserAgent string `bson:"user_agent,omitempty" json:"userAgent,omitempty"`

	Success       bool   `bson:"success" json:"success"`
	FailureReason string `bson:"failure_reason,omitempty" json:"failureReason,omitempty"`

	Details map[string]string `bson:"details,omitempty" json:"details,omitempty"`
}

// QueryFilter selects audit events. Zero fields are ignored.
type QueryFilter struct {
	Category   string
	EventType  string
	Collection string
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int64
	Offset     int64
}

func (f QueryFilter) query() bson.M {
	q := bson.M{}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.EventType != "" {
		q["event_type"] = f.EventType
	}
	if f.Collection != "" {
		q["collection"] = f.Collection
	}
	if f.StartTime != nil || f.EndTime != nil {
		r := bson.M{}
		if f.StartTime != nil {
			r["$gte"] = *f.StartTime
		}
		if f.EndTime != nil {
			r["$lte"] = *f.EndTime
		}
		q["created_at"] = r
	}
	return q
}

// Store persists audit events in Mongo.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Log records an event.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// Query returns matching events, newest first. Limit defaults to 100.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Offset)

	cur, err := s.c.Find(ctx, filter.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	events := []Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Count returns the number of matching events.
func (s *Store) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filter.query())
}

// DeleteBefore removes events older than cutoff.
func (s *Store) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
