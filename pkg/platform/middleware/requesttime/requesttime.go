// Package requesttime provides middleware for request-scoped time.
// All operations within a single HTTP request observe the same "now", so the
// timestamp persisted on a decision record matches the one echoed in the
// response envelope. The server-stamped time always wins over anything the
// client supplied in the request body.
package requesttime

import (
	"net/http"
	"time"

	"creditline/pkg/requestcontext"
)

// Middleware captures the current UTC time at the start of the request and
// stores it in the context for consistent time references throughout.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		ctx := requestcontext.WithTime(r.Context(), now)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
