// Package auth guards the admin API. A request is admitted either by the
// administrator's signed session cookie or by the configured API key sent
// as a Bearer token.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/wavesite/internal/app/system/jsonutil"
	"github.com/dalemusser/wavesite/internal/app/system/normalize"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Session error classification for logging.
type sessionErrorType int

const (
	sessionErrUnknown   sessionErrorType = iota
	sessionErrExpired                    // timestamp expired, normal
	sessionErrTampered                   // MAC invalid, possible attack
	sessionErrCorrupted                  // decode failed, corruption or key rotation
	sessionErrBackend                    // store failure
)

const (
	isAuthKey       = "is_authenticated"
	usernameKey     = "username"
	sessionTokenKey = "session_token"
	signedInAtKey   = "signed_in_at"
)

// DefaultSessionName is used when no cookie name is configured.
const DefaultSessionName = "wavesite-session"

// SessionManager issues and reads the admin session cookie.
type SessionManager struct {
	store    *sessions.CookieStore
	logger   *zap.Logger
	name     string
	username string
}

// SessionConfigError is returned when session configuration is invalid.
type SessionConfigError struct {
	Message string
}

func (e *SessionConfigError) Error() string {
	return e.Message
}

// NewSessionManager creates a cookie session store. In secure (production)
// mode a weak or placeholder key is refused; in development it is logged.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, &SessionConfigError{Message: "session key is empty; provide ≥32 random chars"}
	}

	isWeak := len(sessionKey) < 32 || isDefaultKey(sessionKey)
	if secure && isWeak {
		return nil, &SessionConfigError{
			Message: "session key is too weak for production; provide ≥32 random chars (not the default dev key)",
		}
	} else if isWeak {
		logger.Warn("session key is weak; 32+ random chars required in production",
			zap.Int("length", len(sessionKey)),
			zap.Bool("is_default", isDefaultKey(sessionKey)))
	}

	if name == "" {
		name = DefaultSessionName
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(int(maxAge.Seconds()))

	logger.Info("session manager initialized",
		zap.Bool("secure", secure),
		zap.String("name", name),
		zap.Duration("max_age", maxAge))

	return &SessionManager{store: store, logger: logger, name: name}, nil
}

// SessionName returns the cookie name.
func (sm *SessionManager) SessionName() string {
	return sm.name
}

// SetAdminUsername limits LoadAdmin to sessions issued for username, so
// renaming the admin in configuration signs out older sessions.
func (sm *SessionManager) SetAdminUsername(username string) {
	sm.username = normalize.Username(username)
}

// Admin is the authenticated caller in the request context.
type Admin struct {
	Username   string
	Token      string
	SignedInAt time.Time
	ViaAPIKey  bool
}

type ctxKey string

const currentAdminKey ctxKey = "currentAdmin"

// CurrentAdmin returns the admin from the request context.
func CurrentAdmin(r *http.Request) (*Admin, bool) {
	a, ok := r.Context().Value(currentAdminKey).(*Admin)
	return a, ok
}

func withAdmin(r *http.Request, a *Admin) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentAdminKey, a))
}

// WithTestAdmin injects an admin into the request context for tests.
func WithTestAdmin(r *http.Request, a *Admin) *http.Request {
	return withAdmin(r, a)
}

// LoadAdmin puts the signed-in admin into the request context. Requests
// without a valid session pass through unchanged.
func (sm *SessionManager) LoadAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.store.Get(r, sm.name)
		if err != nil {
			sm.logSessionError(r, err)
			next.ServeHTTP(w, r)
			return
		}

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			username := getString(sess, usernameKey)
			switch {
			case username == "":
			case sm.username != "" && username != sm.username:
				sm.logger.Info("session invalidated: admin username changed",
					zap.String("session_username", username),
					zap.String("path", r.URL.Path))
				sess.Values[isAuthKey] = false
				delete(sess.Values, usernameKey)
				_ = sess.Save(r, w)
			default:
				signedIn, _ := sess.Values[signedInAtKey].(int64)
				r = withAdmin(r, &Admin{
					Username:   username,
					Token:      getString(sess, sessionTokenKey),
					SignedInAt: time.Unix(signedIn, 0).UTC(),
				})
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (sm *SessionManager) logSessionError(r *http.Request, err error) {
	errType, category := classifySessionError(err)
	switch errType {
	case sessionErrExpired:
		sm.logger.Debug("session expired, starting fresh session",
			zap.String("category", category),
			zap.String("path", r.URL.Path))
	case sessionErrTampered:
		sm.logger.Warn("session MAC validation failed (possible tampering)",
			zap.String("category", category),
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
			zap.String("user_agent", r.UserAgent()))
	case sessionErrCorrupted:
		sm.logger.Info("session decode failed, starting fresh session",
			zap.String("category", category),
			zap.String("path", r.URL.Path))
	default:
		sm.logger.Error("session store error, starting fresh session",
			zap.Error(err),
			zap.String("path", r.URL.Path))
	}
}

// RequireAdmin rejects requests without an admin in context.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentAdmin(r); !ok {
			jsonutil.Unauthorized(w, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SignIn starts an admin session and returns its token.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, username string) (string, error) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		// Replace an unreadable cookie with a fresh session.
		sess, err = sm.store.New(r, sm.name)
		if sess == nil {
			return "", err
		}
	}

	token, err := GenerateSessionToken()
	if err != nil {
		return "", err
	}

	sess.Values[isAuthKey] = true
	sess.Values[usernameKey] = normalize.Username(username)
	sess.Values[sessionTokenKey] = token
	sess.Values[signedInAtKey] = time.Now().Unix()
	if err := sess.Save(r, w); err != nil {
		return "", err
	}
	return token, nil
}

// SignOut ends the admin session.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil && sess == nil {
		return
	}
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	_ = sess.Save(r, w)
}

// GenerateSessionToken returns a random URL-safe token.
func GenerateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

// isDefaultKey reports whether key looks like a placeholder.
func isDefaultKey(key string) bool {
	lower := strings.ToLower(key)
	for _, p := range []string{"dev-only", "change-me", "placeholder", "default", "example", "insecure", "test-key", "password"} {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func classifySessionError(err error) (sessionErrorType, string) {
	if err == nil {
		return sessionErrUnknown, "none"
	}

	var scErr securecookie.Error
	if !errors.As(err, &scErr) {
		return sessionErrBackend, "unknown"
	}
	if !scErr.IsDecode() {
		return sessionErrBackend, "backend"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "expired timestamp"):
		return sessionErrExpired, "expired"
	case strings.Contains(msg, "mac") || strings.Contains(msg, "hash"):
		return sessionErrTampered, "mac_invalid"
	case strings.Contains(msg, "decrypt"):
		return sessionErrCorrupted, "decrypt_failed"
	default:
		return sessionErrCorrupted, "decode_failed"
	}
}
