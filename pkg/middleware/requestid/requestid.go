package requestid

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderKey carries the request id in both directions.
const HeaderKey = "X-Request-ID"

const ginKey = "request_id"

type ctxKey struct{}

// Middleware tags every request with an id, reusing the caller's header when
// present. The id is readable from the gin context and from the request
// context handed to services.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(HeaderKey)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		c.Set(ginKey, reqID)
		c.Request = c.Request.WithContext(WithID(c.Request.Context(), reqID))
		c.Writer.Header().Set(HeaderKey, reqID)

		c.Next()
	}
}

// WithID returns a copy of ctx carrying id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request id carried by ctx, or "".
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Value returns the request id stored in the gin context.
func Value(c *gin.Context) string {
	id, _ := c.Get(ginKey)
	s, _ := id.(string)
	return s
}
