package techstack

import (
	"net/http"
	"testing"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	"github.com/dalemusser/wavesite/internal/app/store/content"
	"github.com/dalemusser/wavesite/internal/app/store/snapshot"
	techstackstore "github.com/dalemusser/wavesite/internal/app/store/techstack"
	"github.com/dalemusser/wavesite/internal/domain/models"
	"github.com/dalemusser/wavesite/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler() *Handler {
	logger := zap.NewNop()
	store := techstackstore.New(content.Deps{Backend: snapshot.NewMemory(), Logger: logger})
	return NewHandler(store, nil, errorsfeature.NewErrorLogger(logger), logger)
}

func TestSave(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{"valid", map[string]string{"name": "Go"}, http.StatusCreated},
		{"blank", map[string]string{"name": "   "}, http.StatusBadRequest},
		{"unknown field", map[string]string{"title": "Go"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			AdminRoutes(newTestHandler()).ServeHTTP(rec, testutil.NewAdminJSONRequest(http.MethodPost, "/", tt.body))
			rec.AssertStatus(t, tt.wantStatus)
		})
	}
}

func TestRenameAndDelete(t *testing.T) {
	h := newTestHandler()
	routes := AdminRoutes(h)

	rec := testutil.NewRecorder()
	routes.ServeHTTP(rec, testutil.NewAdminJSONRequest(http.MethodPost, "/", map[string]string{"name": "Postgres"}))
	var tech models.Technology
	rec.DecodeData(t, &tech)

	rec = testutil.NewRecorder()
	routes.ServeHTTP(rec, testutil.NewAdminJSONRequest(http.MethodPut, "/"+tech.ID, map[string]string{"name": "PostgreSQL"}))
	rec.AssertStatus(t, http.StatusOK)
	var renamed models.Technology
	rec.DecodeData(t, &renamed)
	if renamed.ID != tech.ID || renamed.Name != "PostgreSQL" {
		t.Errorf("renamed = %+v, want id %s named PostgreSQL", renamed, tech.ID)
	}

	rec = testutil.NewRecorder()
	routes.ServeHTTP(rec, testutil.WithAdmin(testutil.NewRequest(http.MethodDelete, "/"+tech.ID)))
	rec.AssertStatus(t, http.StatusOK)

	rec = testutil.NewRecorder()
	routes.ServeHTTP(rec, testutil.WithAdmin(testutil.NewRequest(http.MethodDelete, "/"+tech.ID)))
	rec.AssertStatus(t, http.StatusNotFound)
}
