package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/container/observability"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-Id"

// ContextKeyRequestID is the gin.Context key holding the request ID.
const ContextKeyRequestID = "request_id"

// RequestID reuses the caller's X-Request-Id or generates one, echoes it on
// the response and tags the active span with it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, id)
		c.Header(HeaderRequestID, id)
		trace.SpanFromContext(c.Request.Context()).SetAttributes(attribute.String(observability.AttrRequestID, id))
		c.Next()
	}
}
