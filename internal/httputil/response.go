// Package httputil provides shared HTTP response helpers.
package httputil

import "github.com/gin-gonic/gin"

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// RespondError writes the standard JSON error envelope and aborts the
// request. The request ID is included when the request ID middleware ran.
// The context key is duplicated here rather than imported from the
// middleware package to keep httputil dependency-free.
func RespondError(c *gin.Context, status int, code, message string) {
	body := errorBody{Code: code, Message: message}
	if rid, ok := c.Get("request_id"); ok {
		if s, ok := rid.(string); ok {
			body.RequestID = s
		}
	}

	c.AbortWithStatusJSON(status, body)
}
