// internal/app/features/auditlog/auditlog.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	"github.com/dalemusser/wavesite/internal/app/store/audit"
	"github.com/dalemusser/wavesite/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const pageSize = 50

// Querier reads stored audit events. *audit.Store implements it.
type Querier interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
	Count(ctx context.Context, filter audit.QueryFilter) (int64, error)
}

// Handler provides audit log handlers.
type Handler struct {
	auditStore Querier
	errLog     *errorsfeature.ErrorLogger
	logger     *zap.Logger
}

// NewHandler creates a new audit log Handler.
func NewHandler(auditStore Querier, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		auditStore: auditStore,
		errLog:     errLog,
		logger:     logger,
	}
}

// listData is one page of audit events.
type listData struct {
	Items []audit.Event `json:"items"`

	Category   string   `json:"category,omitempty"`
	EventType  string   `json:"eventType,omitempty"`
	Collection string   `json:"collection,omitempty"`
	EventTypes []string `json:"eventTypes"`

	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	Total      int64 `json:"total"`
	HasPrev    bool  `json:"hasPrev"`
	HasNext    bool  `json:"hasNext"`
}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	authEvents := []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailed,
		audit.EventLogout,
	}
	contentEvents := []string{
		audit.EventContentCreated,
		audit.EventContentUpdated,
		audit.EventContentDeleted,
		audit.EventImageUploaded,
		audit.EventDraftGenerated,
	}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryContent:
		return contentEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(contentEvents))
		all = append(all, authEvents...)
		return append(all, contentEvents...)
	default:
		return []string{}
	}
}

// Routes mounts at /api/admin/audit.
//
// Query parameters: category, event_type, collection, start_date and
// end_date (YYYY-MM-DD, read in tz when given), page.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := strings.TrimSpace(q.Get("category"))
	eventType := strings.TrimSpace(q.Get("event_type"))
	collection := strings.TrimSpace(q.Get("collection"))

	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}

	// Dates are read in the caller's timezone, falling back to UTC.
	loc := time.UTC
	if tz := strings.TrimSpace(q.Get("tz")); tz != "" {
		if parsed, err := time.LoadLocation(tz); err == nil {
			loc = parsed
		}
	}

	filter := audit.QueryFilter{
		Category:   category,
		EventType:  eventType,
		Collection: collection,
		Limit:      pageSize,
		Offset:     int64((page - 1) * pageSize),
	}
	if s := strings.TrimSpace(q.Get("start_date")); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			jsonutil.Invalid(w, "Start date must be YYYY-MM-DD.", map[string]string{"start_date": "Start date must be YYYY-MM-DD."})
			return
		}
		filter.StartTime = &t
	}
	if s := strings.TrimSpace(q.Get("end_date")); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			jsonutil.Invalid(w, "End date must be YYYY-MM-DD.", map[string]string{"end_date": "End date must be YYYY-MM-DD."})
			return
		}
		// End of day
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndTime = &endOfDay
	}

	events, err := h.auditStore.Query(r.Context(), filter)
	if err != nil {
		h.errLog.Write(w, r, "failed to query audit events", err)
		return
	}

	total, err := h.auditStore.Count(r.Context(), filter)
	if err != nil {
		h.logger.Warn("failed to count audit events", zap.Error(err))
		total = int64(len(events))
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	jsonutil.OK(w, listData{
		Items:      events,
		Category:   category,
		EventType:  eventType,
		Collection: collection,
		EventTypes: eventTypesForCategory(category),
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	})
}
