package middleware

import (
	"github.com/gin-gonic/gin"

	"library-backend/internal/shared/response"
)

// StaffMiddleware requires a staff caller. Must run after AuthMiddleware.
func StaffMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := GetCaller(c)
		if !ok {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		if !caller.IsStaff {
			response.Forbidden(c, "Access denied: staff role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
