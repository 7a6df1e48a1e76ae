package middleware

import (
	"github.com/gin-gonic/gin"

	"recipe-share/logging"
)

const RequestIDHeader = "X-Request-ID"

// RequestID honours an incoming X-Request-ID or mints one, and carries it
// on the request context for logging.Ctx.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = logging.GenerateRequestID()
		}
		c.Request = c.Request.WithContext(logging.ContextWithRequestID(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)
		c.Set("request_id", id)
		c.Next()
	}
}
