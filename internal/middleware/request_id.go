package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mantonx/cinelist/internal/api"
)

const maxRequestIDLength = 128

// RequestID tags each request with an id, reusing a caller supplied
// X-Request-ID when it is short enough.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(api.RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.New().String()
		}

		c.Set(api.RequestIDKey, id)
		c.Header(api.RequestIDHeader, id)
		c.Next()
	}
}
