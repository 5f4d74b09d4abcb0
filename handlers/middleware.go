package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"
)

type contextKey string

const RequestIDKey contextKey = "requestID"

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// GetRequestID extracts the request id from the request context.
func GetRequestID(r *http.Request) string {
	if val, ok := r.Context().Value(RequestIDKey).(string); ok {
		return val
	}
	return ""
}

// RequestIDMiddleware reuses an incoming X-Request-ID or generates one,
// stores it in the request context, echoes it on the response and logs the
// request once the handler chain has run.
func RequestIDMiddleware() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		ctx := context.WithValue(e.Request.Context(), RequestIDKey, id)
		e.Request = e.Request.WithContext(ctx)
		e.Response.Header().Set(RequestIDHeader, id)

		start := time.Now()
		err := e.Next()
		log.Printf("request: %s %s id=%s took=%s", e.Request.Method, e.Request.URL.Path, id, time.Since(start).Round(time.Millisecond))
		return err
	}
}
