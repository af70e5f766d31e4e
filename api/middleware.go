package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Error codes returned in the envelope.
const (
	CodeBadRequest      = "bad_request"
	CodeInvalidScenario = "invalid_scenario"
	CodeNotFound        = "not_found"
	CodeInternal        = "internal_error"
)

// ErrorBody is the payload of an error envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope for every non-2xx response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// requestLogger logs each request after it is handled, at a level chosen by
// the status code.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"ip", c.ClientIP(),
			"latency", time.Since(start),
		}
		if msg := c.Errors.ByType(gin.ErrorTypePrivate).String(); msg != "" {
			attrs = append(attrs, "error", msg)
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request handled", attrs...)
		case status >= http.StatusBadRequest:
			logger.Warn("request handled", attrs...)
		default:
			logger.Info("request handled", attrs...)
		}
	}
}

// recovery turns a handler panic into a 500 envelope.
func recovery(logger *slog.Logger, m *Metrics) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("handler panic", "path", c.Request.URL.Path, "panic", recovered)
		m.panics.Inc()
		abortWithError(c, http.StatusInternalServerError, CodeInternal, "internal error")
	})
}
