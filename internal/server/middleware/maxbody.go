package middleware

import (
	"net/http"
)

// MaxBodySize is the default maximum request body size (64 KB).
// Form and JSON submissions are a few hundred bytes.
const MaxBodySize = 64 << 10

// MaxBody limits request bodies for every method except GET and HEAD.
// If maxSize is 0, uses MaxBodySize.
func MaxBody(maxSize int64) Middleware {
	if maxSize <= 0 {
		maxSize = MaxBodySize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				if r.ContentLength > maxSize {
					http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
					return
				}
				r.Body = http.MaxBytesReader(w, r.Body, maxSize)
			}
			next.ServeHTTP(w, r)
		})
	}
}
