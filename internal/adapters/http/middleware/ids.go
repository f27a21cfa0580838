package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/stoic-quote/internal/platform/logging"
)

const (
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"

	// gin.Context keys.
	ContextKeyRequestID     = "request_id"
	ContextKeyCorrelationID = "correlation_id"
)

// idSpec describes one propagated identifier.
type idSpec struct {
	header  string
	ginKey  string
	store   func(context.Context, string) context.Context
	logWith func(context.Context, string) context.Context
}

// RequestID accepts X-Request-ID from the caller or mints a UUID, echoes it
// in the response and makes it available to handlers, loggers and outbound
// clients.
func RequestID() gin.HandlerFunc {
	return idMiddleware(idSpec{
		header:  HeaderRequestID,
		ginKey:  ContextKeyRequestID,
		store:   ContextWithRequestID,
		logWith: logging.WithRequestID,
	})
}

// CorrelationID does the same for X-Correlation-ID, which spans a whole
// chain of calls rather than a single request.
func CorrelationID() gin.HandlerFunc {
	return idMiddleware(idSpec{
		header:  HeaderCorrelationID,
		ginKey:  ContextKeyCorrelationID,
		store:   ContextWithCorrelationID,
		logWith: logging.WithCorrelationID,
	})
}

func idMiddleware(spec idSpec) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(spec.header)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(spec.ginKey, id)
		c.Header(spec.header, id)

		ctx := spec.store(c.Request.Context(), id)
		ctx = spec.logWith(ctx, id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID returns the request ID for c, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation ID for c, or "".
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}
