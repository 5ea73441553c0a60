package middleware

import (
	"mediagate/pkg/logger"
	"mediagate/pkg/utils"

	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware assigns every request a correlation id, honoring one
// supplied by an upstream proxy, and threads it through the request context
// for log correlation. The id is echoed on the response.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = utils.GenerateRequestID()
		}

		c.Request = c.Request.WithContext(
			logger.WithRequestID(c.Request.Context(), id),
		)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
