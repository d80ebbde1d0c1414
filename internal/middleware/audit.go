package middleware

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"laine/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestLogger writes one structured line per request. Mutations and
// failures are logged at info or above, reads at debug.
func RequestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		req := c.Request()
		path := c.Path()
		if shouldSkipLogging(req.Method, path) {
			return nil
		}

		status := c.Response().Status
		fields := []zap.Field{
			zap.String("method", req.Method),
			zap.String("path", path),
			zap.String("uri", sanitizeURI(req.URL)),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.RealIP()),
			zap.String("user_agent", req.UserAgent()),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		if status >= http.StatusInternalServerError {
			fields = append(fields, zap.Any("headers", sanitizeHeaders(req.Header)))
		}

		logger.FromContext(c).Log(requestLevel(req.Method, status), "http request", fields...)
		return nil
	}
}

func requestLevel(method string, status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	case method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch || method == http.MethodDelete:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// shouldSkipLogging drops health probes and scrapes
func shouldSkipLogging(method, path string) bool {
	if method != http.MethodGet {
		return false
	}
	for _, prefix := range []string{"/health", "/metrics", "/favicon", "/robots.txt"} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// sanitizeHeaders redacts credentials before headers are logged
func sanitizeHeaders(headers http.Header) map[string]interface{} {
	sanitized := make(map[string]interface{}, len(headers))
	for key, values := range headers {
		if isSensitiveHeader(key) {
			sanitized[key] = "[REDACTED]"
			continue
		}
		sanitized[key] = values
	}
	return sanitized
}

// sanitizeURI redacts credential query parameters from the logged URI
func sanitizeURI(u *url.URL) string {
	if u.RawQuery == "" {
		return u.Path
	}
	query := u.Query()
	for key := range query {
		if isSensitiveQueryParam(key) {
			query[key] = []string{"REDACTED"}
		}
	}
	return u.Path + "?" + query.Encode()
}

func isSensitiveQueryParam(key string) bool {
	switch strings.ToLower(key) {
	case "secret", "token", "api_key", "access_token":
		return true
	}
	return false
}

func isSensitiveHeader(header string) bool {
	switch strings.ToLower(header) {
	case "authorization", "cookie", "x-webhook-secret", "x-api-key", "proxy-authorization":
		return true
	}
	return false
}
