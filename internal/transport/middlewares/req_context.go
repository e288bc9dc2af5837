package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/oceanobs/bog/internal/transport"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// RequestIDInterceptor tags every outbound request with a fresh id so the
// logging and metrics layers (and the remote service's own logs) can
// correlate a single call.
func RequestIDInterceptor(req *http.Request, next transport.Doer) (*http.Response, error) {
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, generateRequestID())
	}
	return next.Do(req)
}

func generateRequestID() string {
	return uuid.NewString()
}
