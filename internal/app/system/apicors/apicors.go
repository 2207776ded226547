// Package apicors provides CORS for the public site API. The marketing
// front end reads content and posts inquiries from its own origin without
// cookies, so credentials are never allowed.
package apicors

import (
	"net/http"
	"strings"
)

const (
	allowMethods = "GET, POST, OPTIONS"
	allowHeaders = "Authorization, Content-Type, Accept"
)

// Middleware answers preflight requests and sets CORS headers. With no
// origins every origin is allowed; otherwise only the listed ones are
// echoed back.
func Middleware(origins ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			allowed[o] = struct{}{}
		}
	}
	anyOrigin := len(allowed) == 0

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if anyOrigin {
				h.Set("Access-Control-Allow-Origin", "*")
			} else if origin := r.Header.Get("Origin"); origin != "" {
				h.Add("Vary", "Origin")
				if _, ok := allowed[origin]; ok {
					h.Set("Access-Control-Allow-Origin", origin)
				}
			}
			h.Set("Access-Control-Allow-Methods", allowMethods)
			h.Set("Access-Control-Allow-Headers", allowHeaders)
			h.Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
