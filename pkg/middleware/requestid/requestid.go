package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderKey carries the request id on outbound client calls and stub responses.
const HeaderKey = "X-Request-ID"

const (
	ctxKey = "request_id"
	maxLen = 64
)

// Middleware keeps a well-formed caller id and replaces anything else, so
// log lines never carry arbitrary client bytes.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderKey)
		if !acceptable(id) {
			id = NewID()
		}
		c.Set(ctxKey, id)
		c.Header(HeaderKey, id)
		c.Next()
	}
}

// Value returns the id Middleware stored, or "".
func Value(c *gin.Context) string {
	return c.GetString(ctxKey)
}

// NewID returns a random UUID string.
func NewID() string {
	return uuid.NewString()
}

func acceptable(id string) bool {
	if id == "" || len(id) > maxLen {
		return false
	}
	for _, r := range id {
		if r < '!' || r > '~' {
			return false
		}
	}
	return true
}
