package login

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	"github.com/dalemusser/wavesite/internal/app/system/auditlog"
	"github.com/dalemusser/wavesite/internal/app/system/auth"
	"github.com/dalemusser/wavesite/internal/app/system/authutil"
	"github.com/dalemusser/wavesite/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testPassword = "river-stone-lantern"

func newTestHandler(t *testing.T, creds *authutil.Credentials) (*Handler, *auth.SessionManager, *observer.ObservedLogs) {
	t.Helper()
	logger := zap.NewNop()

	sessionMgr, err := auth.NewSessionManager(
		"test-session-key-for-testing-1234567890",
		"test-session",
		"",
		24*time.Hour,
		false,
		logger,
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}

	core, logs := observer.New(zapcore.InfoLevel)
	audit := auditlog.New(nil, zap.New(core), auditlog.Config{Auth: auditlog.ToLog})
	return NewHandler(creds, sessionMgr, audit, errorsfeature.NewErrorLogger(logger), logger), sessionMgr, logs
}

func testCredentials(t *testing.T) *authutil.Credentials {
	t.Helper()
	creds, err := authutil.NewCredentials("admin", testPassword, "")
	if err != nil {
		t.Fatalf("NewCredentials() error = %v", err)
	}
	return creds
}

func TestLogin_ValidCredentialsStartSession(t *testing.T) {
	h, sessionMgr, logs := newTestHandler(t, testCredentials(t))

	rec := testutil.NewRecorder()
	h.handleLogin(rec, testutil.NewJSONRequest(http.MethodPost, "/admin/login", map[string]string{
		"username": "Admin",
		"password": testPassword,
	}))
	rec.AssertStatus(t, http.StatusOK)

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	// The cookie signs the next request in.
	req := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec2 := testutil.NewRecorder()
	sessionMgr.LoadAdmin(http.HandlerFunc(h.showLogin)).ServeHTTP(rec2, req)

	var vm StatusVM
	rec2.DecodeData(t, &vm)
	if !vm.Authenticated || vm.Username != "admin" {
		t.Errorf("status = %+v, want authenticated admin", vm)
	}

	if logs.FilterMessage("audit event").FilterField(zap.String("event_type", "login_success")).Len() != 1 {
		t.Errorf("expected one login_success audit entry, got %v", logs.All())
	}
}

func TestLogin_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		creds    bool
		body     map[string]string
		wantCode int
	}{
		{"wrong password", true, map[string]string{"username": "admin", "password": "wrong-password"}, http.StatusUnauthorized},
		{"wrong username", true, map[string]string{"username": "root", "password": testPassword}, http.StatusUnauthorized},
		{"missing fields", true, map[string]string{"username": "admin"}, http.StatusBadRequest},
		{"admin not configured", false, map[string]string{"username": "admin", "password": testPassword}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var creds *authutil.Credentials
			if tt.creds {
				creds = testCredentials(t)
			}
			h, _, _ := newTestHandler(t, creds)

			rec := testutil.NewRecorder()
			h.handleLogin(rec, testutil.NewJSONRequest(http.MethodPost, "/admin/login", tt.body))
			rec.AssertStatus(t, tt.wantCode)
			if len(rec.Result().Cookies()) != 0 {
				t.Error("a rejected login must not set a session cookie")
			}
		})
	}
}

func TestShowLogin_Anonymous(t *testing.T) {
	h, _, _ := newTestHandler(t, testCredentials(t))

	rec := testutil.NewRecorder()
	h.showLogin(rec, testutil.WithCSRFToken(httptest.NewRequest(http.MethodGet, "/admin/login", nil)))
	rec.AssertStatus(t, http.StatusOK)

	var vm StatusVM
	rec.DecodeData(t, &vm)
	if vm.Authenticated {
		t.Error("Authenticated = true for an anonymous request")
	}
}
