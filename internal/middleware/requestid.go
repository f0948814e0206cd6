package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/fittrack/fittrack/internal/ctxkeys"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags each request with a random id, echoed in the response
// header and attached to request logs. A well-formed incoming id is kept.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = generateRequestID()
		}

		w.Header().Set(requestIDHeader, id)
		ctx := ctxkeys.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func generateRequestID() string {
	b := make([]byte, 8)
	_, err := rand.Read(b)
	if err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b)
}
