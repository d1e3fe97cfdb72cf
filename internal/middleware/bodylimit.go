package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rentora/rentora/internal/httputil"
)

// MaxBodySize returns middleware that caps the request body at maxBytes.
// Requests declaring a larger Content-Length are rejected up front; everything
// else is wrapped so chunked uploads cannot exceed the cap either.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			httputil.RespondError(c, http.StatusRequestEntityTooLarge, "body_too_large", "request body exceeds limit")

			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
