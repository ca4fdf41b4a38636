package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-backend/internal/shared"
	"library-backend/internal/shared/response"
	"library-backend/pkg/jwt"
)

const callerKey = "caller"

// TokenValidator is satisfied by *jwt.Manager
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// AuthMiddleware - xác thực JWT token và gắn Caller vào context
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Missing authorization header")
			c.Abort()
			return
		}

		// "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateAccessToken(strings.TrimSpace(parts[1]))
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString("request_id")).Msg("Token rejected")
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "Invalid user ID in token")
			c.Abort()
			return
		}

		c.Set(callerKey, shared.Caller{
			UserID:   userID,
			Username: claims.Username,
			IsStaff:  claims.IsStaff,
		})
		c.Set("userID", userID)

		c.Next()
	}
}

// GetCaller returns the caller set by AuthMiddleware
func GetCaller(c *gin.Context) (shared.Caller, bool) {
	v, exists := c.Get(callerKey)
	if !exists {
		return shared.Caller{}, false
	}
	caller, ok := v.(shared.Caller)
	return caller, ok && !caller.IsAnonymous()
}

// SetCaller is used by tests to bypass token parsing
func SetCaller(c *gin.Context, caller shared.Caller) {
	c.Set(callerKey, caller)
	c.Set("userID", caller.UserID)
}
