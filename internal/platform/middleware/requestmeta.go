package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"caseflow/pkg/requestcontext"
)

// RequestMetadata stamps every request with an id, the originating path, and
// a pinned request time. Apply early in the chain; the access gate reads the
// path for its audit entries and services read the pinned time so one request
// sees one clock value.
func RequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := r.Context()
		ctx = requestcontext.WithRequestID(ctx, requestID)
		ctx = requestcontext.WithRequestPath(ctx, r.URL.Path)
		ctx = requestcontext.WithTime(ctx, time.Now())

		w.Header().Set("X-Request-Id", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
