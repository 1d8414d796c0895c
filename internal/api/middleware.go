package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"whattocook/internal/recipe"
)

const (
	headerRequestID = "X-Request-Id"

	ctxKeyRequestID = "request_id"
	ctxKeyLogger    = "logger"
)

// RequestID assigns every request a UUID, reusing a valid incoming
// X-Request-Id header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		c.Set(ctxKeyRequestID, requestID)
		c.Header(headerRequestID, requestID)
		c.Next()
	}
}

// Logger stores a request-scoped logger in the context and writes one
// access log line per request.
func Logger(base *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		entry := base.WithFields(logrus.Fields{
			"request_id": c.GetString(ctxKeyRequestID),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})
		c.Set(ctxKeyLogger, entry)

		c.Next()

		entry.WithFields(logrus.Fields{
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}).Info("request completed")
	}
}

// Recovery turns a panic into the generic internal error response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, err any) {
		panicRecoveries.Inc()
		logger(c).WithField("panic", err).Error("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: recipe.MsgInternal})
	})
}

// logger returns the request-scoped logger, or the standard logger when the
// Logger middleware is not installed.
func logger(c *gin.Context) logrus.FieldLogger {
	if v, ok := c.Get(ctxKeyLogger); ok {
		if l, ok := v.(logrus.FieldLogger); ok {
			return l
		}
	}
	return logrus.StandardLogger()
}
