package middlewares

import "github.com/gin-gonic/gin"

// RequestIDFrom returns the id assigned by RequestID, falling back to the inbound header.
func RequestIDFrom(c *gin.Context) string {
	if v, ok := c.Get(CtxRequestID); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return c.GetHeader(requestIDHeader)
}

// AbortError stops the chain with the standard error envelope.
func AbortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"status":    "error",
		"message":   message,
		"requestId": RequestIDFrom(c),
	})
}
