package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oceanobs/bog/internal/transport"
)

// LoggingInterceptor logs every outbound request with its request id,
// method, path, duration and outcome.
func LoggingInterceptor(logger *logrus.Logger) transport.Interceptor {
	return func(req *http.Request, next transport.Doer) (*http.Response, error) {
		start := time.Now()

		resp, err := next.Do(req)

		fields := logrus.Fields{
			"request_id": req.Header.Get(RequestIDHeader),
			"method":     req.Method,
			"path":       req.URL.Path,
			"duration":   time.Since(start).String(),
		}
		if err != nil {
			logger.WithFields(fields).WithError(err).Error("Request failed")
			return nil, err
		}

		fields["status"] = resp.StatusCode
		logger.WithFields(fields).Debug("Request completed")
		return resp, nil
	}
}
