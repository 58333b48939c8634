// ABOUTME: HTTP middleware for the analytics API
// ABOUTME: Request IDs, access logging, and a hard per-request timeout
package web

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
)

const requestTimeout = 30 * time.Second

type ctxKey string

const requestIDKey ctxKey = "request_id"

// withRequestID tags each request with a ULID, echoed in the response
// header for log correlation.
func withRequestID(next http.Handler) http.Handler {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %s %d %s", requestID(r.Context()), r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// withTimeout bounds every request. TimeoutHandler buffers the response
// and answers 503 on its own; handlers detect the cancelled context and
// stay silent.
func withTimeout(next http.Handler) http.Handler {
	return http.TimeoutHandler(next, requestTimeout, `{"data":null,"error":"request timed out"}`)
}
