package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quickai/server/internal/module/auth"
)

const (
	// AuthorizationHeader is the header key for authorization.
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens.
	BearerPrefix = "Bearer "
	// UserIDKey is the context key for user ID.
	UserIDKey = "user_id"
	// EmailKey is the context key for email.
	EmailKey = "email"
)

// JWTValidator defines the interface for JWT token validation.
type JWTValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// Auth returns a middleware that validates bearer tokens.
// If the token is valid, it sets user_id and email in the context.
// If optional is true, the middleware will not abort on missing/invalid tokens.
func Auth(validator JWTValidator, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			if !optional {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"message": "Authorization header required",
				})
				return
			}
			c.Next()
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			if !optional {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"message": "Invalid or expired token",
				})
				return
			}
			c.Next()
			return
		}

		c.Set(UserIDKey, claims.UserID())
		c.Set(EmailKey, claims.Email)

		c.Next()
	}
}

// RequireAuth returns a middleware that requires a valid bearer token.
func RequireAuth(validator JWTValidator) gin.HandlerFunc {
	return Auth(validator, false)
}

// OptionalAuth returns a middleware that optionally validates bearer tokens.
func OptionalAuth(validator JWTValidator) gin.HandlerFunc {
	return Auth(validator, true)
}

// extractBearerToken extracts the bearer token from the Authorization header.
func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader(AuthorizationHeader)
	if strings.HasPrefix(authHeader, BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
	}
	return ""
}

// GetUserID returns the user ID from context, or "" when unauthenticated.
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// GetEmail returns the email from context.
func GetEmail(c *gin.Context) string {
	return c.GetString(EmailKey)
}

// IsAuthenticated returns true if the user is authenticated.
func IsAuthenticated(c *gin.Context) bool {
	return GetUserID(c) != ""
}
