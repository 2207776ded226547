package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/dalemusser/wavesite/internal/app/system/jsonutil"
	"go.uber.org/zap"
)

// APIKeyUsername is the admin name recorded for API key requests.
const APIKeyUsername = "api-key"

// BearerToken returns the token from an "Authorization: Bearer <token>"
// header.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// ValidAPIKey reports whether r carries validKey as its Bearer token. An
// empty validKey never matches.
func ValidAPIKey(r *http.Request, validKey string) bool {
	if validKey == "" {
		return false
	}
	token, ok := BearerToken(r)
	return ok && subtle.ConstantTimeCompare([]byte(token), []byte(validKey)) == 1
}

// APIKeyAuth admits only requests with the configured Bearer key.
func APIKeyAuth(validKey string, logger *zap.Logger) func(http.Handler) http.Handler {
	if validKey == "" {
		logger.Warn("API key not configured - all API key requests will be rejected")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ValidAPIKey(r, validKey) {
				logAPIKeyRejection(r, logger)
				jsonutil.Unauthorized(w, "Unauthorized")
				return
			}
			next.ServeHTTP(w, withAdmin(r, &Admin{Username: APIKeyUsername, ViaAPIKey: true}))
		})
	}
}

// Gate admits a request that already has an admin session (see LoadAdmin)
// or presents the configured API key.
func Gate(validKey string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := CurrentAdmin(r); ok {
				next.ServeHTTP(w, r)
				return
			}
			if ValidAPIKey(r, validKey) {
				next.ServeHTTP(w, withAdmin(r, &Admin{Username: APIKeyUsername, ViaAPIKey: true}))
				return
			}
			logAPIKeyRejection(r, logger)
			jsonutil.Unauthorized(w, "Unauthorized")
		})
	}
}

func logAPIKeyRejection(r *http.Request, logger *zap.Logger) {
	if _, ok := BearerToken(r); !ok {
		logger.Debug("admin request rejected: no session or Bearer token",
			zap.String("path", r.URL.Path))
		return
	}
	logger.Warn("admin request rejected: invalid API key",
		zap.String("path", r.URL.Path),
		zap.String("remote_addr", r.RemoteAddr))
}
