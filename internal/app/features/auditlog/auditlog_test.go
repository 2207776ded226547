package auditlog

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	"github.com/dalemusser/wavesite/internal/app/store/audit"
	"github.com/dalemusser/wavesite/internal/testutil"
	"go.uber.org/zap"
)

type fakeQuerier struct {
	events   []audit.Event
	total    int64
	err      error
	lastSeen audit.QueryFilter
}

func (f *fakeQuerier) Query(_ context.Context, filter audit.QueryFilter) ([]audit.Event, error) {
	f.lastSeen = filter
	return f.events, f.err
}

func (f *fakeQuerier) Count(context.Context, audit.QueryFilter) (int64, error) {
	return f.total, nil
}

func newTestHandler(q *fakeQuerier) http.Handler {
	logger := zap.NewNop()
	return Routes(NewHandler(q, errorsfeature.NewErrorLogger(logger), logger))
}

func TestList_BuildsFilter(t *testing.T) {
	q := &fakeQuerier{events: []audit.Event{{EventType: audit.EventContentCreated}}, total: 120}
	rec := testutil.NewRecorder()
	newTestHandler(q).ServeHTTP(rec, testutil.WithAdmin(testutil.NewRequest(http.MethodGet,
		"/?category=content&collection=posts&start_date=2026-01-01&end_date=2026-01-31&page=2")))
	rec.AssertStatus(t, http.StatusOK)

	if q.lastSeen.Category != "content" || q.lastSeen.Collection != "posts" {
		t.Errorf("filter = %+v, want content/posts", q.lastSeen)
	}
	if q.lastSeen.Offset != pageSize || q.lastSeen.Limit != pageSize {
		t.Errorf("Offset, Limit = %d, %d, want %d, %d", q.lastSeen.Offset, q.lastSeen.Limit, pageSize, pageSize)
	}
	if q.lastSeen.StartTime == nil || !q.lastSeen.StartTime.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartTime = %v, want 2026-01-01 UTC", q.lastSeen.StartTime)
	}
	if q.lastSeen.EndTime == nil || q.lastSeen.EndTime.Day() != 31 {
		t.Errorf("EndTime = %v, want the end of 2026-01-31", q.lastSeen.EndTime)
	}

	var data listData
	rec.DecodeData(t, &data)
	if data.TotalPages != 3 || !data.HasPrev || !data.HasNext {
		t.Errorf("pagination = %+v, want page 2 of 3", data)
	}
}

func TestList_BadDate(t *testing.T) {
	rec := testutil.NewRecorder()
	newTestHandler(&fakeQuerier{}).ServeHTTP(rec, testutil.WithAdmin(testutil.NewRequest(http.MethodGet, "/?start_date=yesterday")))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestList_StoreError(t *testing.T) {
	rec := testutil.NewRecorder()
	newTestHandler(&fakeQuerier{err: errors.New("mongo down")}).ServeHTTP(rec, testutil.WithAdmin(testutil.NewRequest(http.MethodGet, "/")))
	rec.AssertStatus(t, http.StatusInternalServerError)
}

func TestEventTypesForCategory(t *testing.T) {
	tests := []struct {
		category string
		want     int
	}{
		{audit.CategoryAuth, 3},
		{audit.CategoryContent, 5},
		{"", 8},
		{"billing", 0},
	}
	for _, tt := range tests {
		if got := len(eventTypesForCategory(tt.category)); got != tt.want {
			t.Errorf("len(eventTypesForCategory(%q)) = %d, want %d", tt.category, got, tt.want)
		}
	}
}
