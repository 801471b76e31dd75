package observability

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDFromHeader(t *testing.T) {
	known := uuid.NewString()

	tests := []struct {
		name   string
		header string
		want   string // empty means any fresh UUID
	}{
		{name: "canonical uuid", header: known, want: known},
		{name: "upper case uuid", header: strings.ToUpper(known), want: known},
		{name: "urn form", header: "urn:uuid:" + known, want: known},
		{name: "missing", header: ""},
		{name: "path traversal", header: "../../etc/passwd"},
		{name: "log injection", header: "abc\nlevel=error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := http.Header{}
			if tc.header != "" {
				h.Set(RequestIDHeader, tc.header)
			}

			got := RequestIDFromHeader(h)
			if tc.want != "" {
				if got != tc.want {
					t.Fatalf("expected %q, got %q", tc.want, got)
				}
				return
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("expected a fresh UUID, got %q: %v", got, err)
			}
			if got == tc.header {
				t.Fatalf("expected header %q to be replaced", tc.header)
			}
		})
	}
}

func TestNewRequestIDIsUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		id := NewRequestID()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate request id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestRequestIDContext(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected no request id outside a request, got %q", got)
	}

	id := NewRequestID()
	ctx := ContextWithRequestID(context.Background(), id)
	if got := RequestIDFromContext(ctx); got != id {
		t.Fatalf("expected %q, got %q", id, got)
	}

	// A string key of the same text must not collide with the private key.
	ctx = context.WithValue(context.Background(), "request_id", id)
	if got := RequestIDFromContext(ctx); got != "" {
		t.Fatalf("expected foreign context values to be ignored, got %q", got)
	}
}
