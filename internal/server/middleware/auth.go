package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// AuthConfig holds Basic Auth credentials.
type AuthConfig struct {
	Enabled  bool
	User     string
	Password string
}

// Auth creates a Basic Auth middleware that guards only protectedPaths.
// Paths ending with "*" are treated as prefixes (e.g., "/api/*" matches "/api/predict").
// Everything else passes through, so the browser form stays public.
func Auth(config AuthConfig, protectedPaths ...string) Middleware {
	exact := make(map[string]bool)
	var prefixes []string

	for _, path := range protectedPaths {
		if strings.HasSuffix(path, "*") {
			prefixes = append(prefixes, strings.TrimSuffix(path, "*"))
		} else {
			exact[path] = true
		}
	}

	protected := func(path string) bool {
		if exact[path] {
			return true
		}
		for _, prefix := range prefixes {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		if !config.Enabled {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !protected(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			user, pass, ok := r.BasicAuth()
			if !ok {
				unauthorized(w)
				return
			}

			// Constant time comparison to prevent timing attacks
			userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(config.User)) == 1
			passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(config.Password)) == 1

			if !userMatch || !passMatch {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="calburn"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
