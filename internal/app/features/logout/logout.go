// internal/app/features/logout/logout.go
package logout

import (
	"net/http"
	"time"

	"github.com/dalemusser/wavesite/internal/app/system/auditlog"
	"github.com/dalemusser/wavesite/internal/app/system/auth"
	"github.com/dalemusser/wavesite/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
)

// Handler ends admin sessions.
type Handler struct {
	sessions *auth.SessionManager
	audit    *auditlog.Logger
	now      func() time.Time
}

// NewHandler creates a Handler. audit may be nil.
func NewHandler(sessions *auth.SessionManager, audit *auditlog.Logger) *Handler {
	return &Handler{sessions: sessions, audit: audit, now: time.Now}
}

// Routes mounts POST / behind RequireAdmin. API-key callers have no session
// to end, so they are rejected like anonymous ones.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.With(auth.RequireAdmin).Post("/", h.handleLogout)
	return r
}

type signedOut struct {
	Username string `json:"username"`
	Duration string `json:"sessionDuration"`
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	out := signedOut{}
	if a, ok := auth.CurrentAdmin(r); ok {
		out.Username = a.Username
		if !a.SignedInAt.IsZero() {
			out.Duration = h.now().Sub(a.SignedInAt).Round(time.Second).String()
		}
	}

	// Audit before the session is cleared so the actor is still known.
	h.audit.Logout(r.Context(), r)
	h.sessions.SignOut(w, r)
	jsonutil.Done(w, http.StatusOK, "Signed out", out)
}
