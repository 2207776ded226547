// internal/app/features/login/login.go
package login

import (
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	"github.com/dalemusser/wavesite/internal/app/system/auditlog"
	"github.com/dalemusser/wavesite/internal/app/system/auth"
	"github.com/dalemusser/wavesite/internal/app/system/authutil"
	"github.com/dalemusser/wavesite/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

const msgBadCredentials = "Invalid username or password"

// Handler signs the site admin in.
type Handler struct {
	creds       *authutil.Credentials
	sessionMgr  *auth.SessionManager
	auditLogger *auditlog.Logger
	errLog      *errorsfeature.ErrorLogger
	logger      *zap.Logger
}

// NewHandler creates a new login Handler. creds is nil when no admin is
// configured; every sign-in attempt is then refused.
func NewHandler(
	creds *authutil.Credentials,
	sessionMgr *auth.SessionManager,
	auditLogger *auditlog.Logger,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		creds:       creds,
		sessionMgr:  sessionMgr,
		auditLogger: auditLogger,
		errLog:      errLog,
		logger:      logger,
	}
}

// Routes returns a chi.Router with login routes mounted.
//
// When mounted at /admin/login:
//   - GET  /admin/login - session state and a CSRF token for the form post
//   - POST /admin/login - sign in with {"username","password"}
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.showLogin)
	r.Post("/", h.handleLogin)
	return r
}

// StatusVM is the sign-in state returned to the admin UI.
type StatusVM struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	CSRFToken     string `json:"csrfToken,omitempty"`
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	vm := StatusVM{CSRFToken: csrf.Token(r)}
	if a, ok := auth.CurrentAdmin(r); ok {
		vm.Authenticated = true
		vm.Username = a.Username
	}
	jsonutil.OK(w, vm)
}

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := jsonutil.Decode(w, r, &in); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		jsonutil.Invalid(w, "Username and password are required.", map[string]string{
			"username": "Username is required.",
			"password": "Password is required.",
		})
		return
	}

	if h.creds == nil {
		h.logger.Warn("login attempted but no admin credentials are configured")
		h.auditLogger.LoginFailed(r.Context(), r, in.Username, "admin not configured")
		jsonutil.Unauthorized(w, msgBadCredentials)
		return
	}
	if !h.creds.Verify(in.Username, in.Password) {
		h.auditLogger.LoginFailed(r.Context(), r, in.Username, "invalid credentials")
		jsonutil.Unauthorized(w, msgBadCredentials)
		return
	}

	if _, err := h.sessionMgr.SignIn(w, r, h.creds.Username()); err != nil {
		h.errLog.Write(w, r, "failed to start admin session", err)
		return
	}
	h.auditLogger.LoginSuccess(r.Context(), r, h.creds.Username())

	jsonutil.Done(w, http.StatusOK, "Signed in", StatusVM{
		Authenticated: true,
		Username:      h.creds.Username(),
	})
}
