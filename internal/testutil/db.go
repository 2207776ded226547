// Package testutil holds helpers shared by handler and store tests.
package testutil

import (
	"context"
	"os"
	"regexp"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DefaultTestDBURI is used when WAVESITE_TEST_MONGO_URI is unset.
const DefaultTestDBURI = "mongodb://localhost:27017"

// Mongo database names are capped at 63 bytes.
const maxDBName = 63

var unsafeDBChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// shared is connected at most once per test binary.
var shared = sync.OnceValues(func() (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uri := os.Getenv("WAVESITE_TEST_MONGO_URI")
	if uri == "" {
		uri = DefaultTestDBURI
	}
	c, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(50).
		SetConnectTimeout(3*time.Second).
		SetServerSelectionTimeout(3*time.Second))
	if err != nil {
		return nil, err
	}
	if err := c.Ping(ctx, readpref.Primary()); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, err
	}
	return c, nil
})

// SetupTestDB returns an empty database private to t, dropped again when t
// finishes. Without a reachable MongoDB the test is skipped, so the file,
// Bolt and memory backends stay testable on a bare machine. Callers that
// need validators or indexes ensure them themselves.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	client, err := shared()
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}

	db := client.Database(dbName(t.Name()))
	ctx, cancel := TestContext()
	defer cancel()
	if err := db.Drop(ctx); err != nil {
		t.Fatalf("drop test database: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("drop test database on cleanup: %v", err)
		}
	})
	return db
}

func dbName(testName string) string {
	name := "wavesite_test_" + unsafeDBChars.ReplaceAllString(testName, "_")
	if len(name) > maxDBName {
		name = name[:maxDBName]
	}
	return name
}

// TestContext returns a context bounded for a single test's database work.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
