// Package requestid assigns each request an id for log correlation. An
// inbound X-Request-Id is trusted and propagated; otherwise one is minted.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"sufragio/pkg/requestcontext"
)

const headerName = "X-Request-Id"

// Inject places the request id in the context and echoes it on the response.
func Inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerName)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerName, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
