// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/wavesite/internal/app/store/audit"
	"github.com/dalemusser/wavesite/internal/app/system/auth"
	"github.com/dalemusser/wavesite/internal/app/system/network"
	"go.uber.org/zap"
)

// Destinations for a category of events.
const (
	ToAll = "all" // Mongo and zap
	ToDB  = "db"
	ToLog = "log"
	Off   = "off"
)

// Config chooses where each category of events goes.
type Config struct {
	Auth    string
	Content string
}

// Sink stores audit events. *audit.Store implements it.
type Sink interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger records audit events to zap and, when a sink is configured, to
// the database.
type Logger struct {
	sink   Sink
	zapLog *zap.Logger
	config Config
}

// New creates a Logger. sink may be nil, in which case "db" destinations
// are skipped.
func New(sink Sink, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{sink: sink, zapLog: zapLog, config: config}
}

func (l *Logger) setting(category string) string {
	var s string
	switch category {
	case audit.CategoryAuth:
		s = l.config.Auth
	case audit.CategoryContent:
		s = l.config.Content
	}
	if s == "" {
		return ToAll
	}
	return s
}

// Log records event according to its category's setting. A nil Logger
// does nothing.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := l.setting(event.Category)
	if setting == Off {
		return
	}
	if setting == ToAll || setting == ToLog {
		l.logToZap(event)
	}
	if (setting == ToAll || setting == ToDB) && l.sink != nil {
		if err := l.sink.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.Actor != "" {
		fields = append(fields, zap.String("actor", event.Actor))
	}
	if event.Collection != "" {
		fields = append(fields, zap.String("collection", event.Collection))
	}
	if event.RecordID != "" {
		fields = append(fields, zap.String("record_id", event.RecordID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

func fromRequest(r *http.Request, category, eventType string) audit.Event {
	e := audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        network.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	}
	if a, ok := auth.CurrentAdmin(r); ok {
		e.Actor = a.Username
	}
	return e
}

// LoginSuccess records a successful admin sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, username string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLoginSuccess)
	e.Actor = username
	l.Log(ctx, e)
}

// LoginFailed records a rejected sign-in attempt.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, attempted, reason string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLoginFailed)
	e.Success = false
	e.FailureReason = reason
	e.Details = map[string]string{"attempted_username": attempted}
	l.Log(ctx, e)
}

// Logout records an admin sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request) {
	l.Log(ctx, fromRequest(r, audit.CategoryAuth, audit.EventLogout))
}

// Content records a change made through the admin API.
func (l *Logger) Content(ctx context.Context, r *http.Request, eventType, collection, recordID string) {
	e := fromRequest(r, audit.CategoryContent, eventType)
	e.Collection = collection
	e.RecordID = recordID
	l.Log(ctx, e)
}

// ImageUploaded records a stored upload.
func (l *Logger) ImageUploaded(ctx context.Context, r *http.Request, path string, size int64) {
	e := fromRequest(r, audit.CategoryContent, audit.EventImageUploaded)
	e.Details = map[string]string{"path": path, "size": strconv.FormatInt(size, 10)}
	l.Log(ctx, e)
}

// DraftGenerated records a generated article draft.
func (l *Logger) DraftGenerated(ctx context.Context, r *http.Request, title string, ok bool) {
	e := fromRequest(r, audit.CategoryContent, audit.EventDraftGenerated)
	e.Success = ok
	e.Details = map[string]string{"title": title}
	l.Log(ctx, e)
}
