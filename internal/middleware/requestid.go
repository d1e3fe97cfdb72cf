package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// RequestIDKey is the gin context key for the request ID.
	RequestIDKey = "request_id"

	// RequestIDHeader is the HTTP header used to propagate the request ID.
	RequestIDHeader = "X-Request-ID"
)

// RequestID assigns every request a fresh server-generated UUID. A client
// supplied X-Request-ID is recorded for correlation but is never trusted as
// the canonical ID, since clients can collide or forge it.
func RequestID(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		if clientID := c.GetHeader(RequestIDHeader); clientID != "" {
			c.Set("client_request_id", clientID)
			log.WithFields(logrus.Fields{
				"request_id":        id,
				"client_request_id": clientID,
			}).Debug("mapped client request ID")
		}

		c.Next()
	}
}

// RequestIDFrom returns the request ID assigned by RequestID, or "" when the
// middleware has not run for this request.
func RequestIDFrom(c *gin.Context) string {
	if v, ok := c.Get(RequestIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}

	return ""
}
