package observability

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request id on requests and responses.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

func NewRequestID() string {
	return uuid.New().String()
}

// RequestIDFromHeader returns the caller's request id in canonical UUID
// form. Anything that is not a UUID is replaced by a fresh id, so raw header
// text never reaches logs or spans.
func RequestIDFromHeader(h http.Header) string {
	id, err := uuid.Parse(h.Get(RequestIDHeader))
	if err != nil {
		return NewRequestID()
	}
	return id.String()
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id stored by ContextWithRequestID, or ""
// outside a request.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
