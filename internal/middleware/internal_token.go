package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// InternalToken guards service-to-service endpoints with a shared secret
// header. Requests from the payment service carry it; everything else is
// rejected.
func InternalToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" || c.GetHeader("X-Internal-Token") != token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid internal token"})
			return
		}
		c.Next()
	}
}
