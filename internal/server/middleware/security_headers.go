package middleware

import "net/http"

// contentSecurityPolicy allows the form page to load its own charts and
// inline styles, nothing else.
const contentSecurityPolicy = "default-src 'none'; img-src 'self'; style-src 'unsafe-inline'; form-action 'self'; frame-ancestors 'none'"

// SecurityHeaders adds security-related HTTP headers to responses.
func SecurityHeaders() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()

			// Prevent MIME type sniffing
			h.Set("X-Content-Type-Options", "nosniff")

			// Prevent clickjacking
			h.Set("X-Frame-Options", "DENY")

			h.Set("Content-Security-Policy", contentSecurityPolicy)
			h.Set("Referrer-Policy", "no-referrer")

			// Health data should not sit in shared caches
			h.Set("Cache-Control", "no-store")

			next.ServeHTTP(w, r)
		})
	}
}
