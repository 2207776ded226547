package audit

import (
	"testing"
	"time"

	"github.com/dalemusser/wavesite/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/bson"
)

func TestQueryFilter_Query(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	got := QueryFilter{Category: CategoryAuth, StartTime: &start}.query()
	if got["category"] != CategoryAuth {
		t.Errorf("category = %v, want %q", got["category"], CategoryAuth)
	}
	if _, ok := got["event_type"]; ok {
		t.Error("empty EventType should not be filtered on")
	}
	r, ok := got["created_at"].(bson.M)
	if !ok {
		t.Fatalf("created_at = %T, want a range", got["created_at"])
	}
	if _, ok := r["$lte"]; ok {
		t.Error("nil EndTime should not add $lte")
	}
}

func TestStore_LogAndQuery(t *testing.T) {
	store := New(testutil.SetupTestDB(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().UTC().Truncate(time.Millisecond).Add(-time.Hour)
	events := []Event{
		{CreatedAt: base, Category: CategoryAuth, EventType: EventLoginSuccess, Actor: "admin", Success: true},
		{CreatedAt: base.Add(time.Minute), Category: CategoryContent, EventType: EventContentCreated, Collection: "posts", RecordID: "p1", Success: true},
		{CreatedAt: base.Add(2 * time.Minute), Category: CategoryContent, EventType: EventContentDeleted, Actor: "api-key", Collection: "team", RecordID: "t1", Success: true},
	}
	for _, e := range events {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log() error = %v", err)
		}
	}

	since := base.Add(30 * time.Second)
	tests := []struct {
		name   string
		filter QueryFilter
		want   []string // record IDs, newest first
	}{
		{"all", QueryFilter{}, []string{"t1", "p1", ""}},
		{"by category", QueryFilter{Category: CategoryContent}, []string{"t1", "p1"}},
		{"by collection", QueryFilter{Collection: "posts"}, []string{"p1"}},
		{"since", QueryFilter{StartTime: &since}, []string{"t1", "p1"}},
		{"page", QueryFilter{Limit: 1, Offset: 1}, []string{"p1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			ids := make([]string, len(got))
			for i, e := range got {
				ids[i] = e.RecordID
			}
			if diff := cmp.Diff(tt.want, ids); diff != "" {
				t.Errorf("Query() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if n, err := store.Count(ctx, QueryFilter{EventType: EventLoginSuccess}); err != nil || n != 1 {
		t.Errorf("Count() = %d, %v; want 1", n, err)
	}
}

func TestStore_DeleteBefore(t *testing.T) {
	store := New(testutil.SetupTestDB(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	for _, age := range []time.Duration{100 * 24 * time.Hour, 95 * 24 * time.Hour, 0} {
		if err := store.Log(ctx, Event{Category: CategoryAuth, EventType: EventLogout, CreatedAt: now.Add(-age)}); err != nil {
			t.Fatalf("Log() error = %v", err)
		}
	}

	deleted, err := store.DeleteBefore(ctx, now.Add(-90*24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}
	if n, _ := store.Count(ctx, QueryFilter{}); n != 1 {
		t.Errorf("remaining = %d, want 1", n)
	}
}
