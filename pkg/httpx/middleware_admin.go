package httpx

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/avalonfair/gatehouse/pkg/slogx"
)

// AdminAuth guards administrative endpoints with a static bearer token from
// configuration. The comparison is constant-time. An empty configured token
// disables the admin surface entirely rather than leaving it open.
func AdminAuth(token string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			if token == "" {
				log.Warn("admin endpoint hit but no admin token configured")
				writeBearerError(w, http.StatusForbidden, "admin surface disabled")
				return
			}

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			if subtle.ConstantTimeCompare([]byte(raw), []byte(token)) != 1 {
				log.Warn("admin token mismatch", "path", r.URL.Path)
				writeBearerError(w, http.StatusUnauthorized, "invalid admin token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750-style error response for bearer auth.
func writeBearerError(w http.ResponseWriter, code int, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(code)
}
