package middleware

import (
	"net/http"
	"strings"

	"bikeblog/internal/models"
	"bikeblog/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthRequired is a Gin middleware for JWT authentication of API requests.
// It checks for the presence and validity of a JWT token in the
// Authorization header and aborts with 401 when either is missing.
func AuthRequired(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		if !setIdentityFromHeader(c, authService, authHeader) {
			return
		}
		c.Next()
	}
}

// AuthOptional resolves the caller's identity when a token is present but
// lets anonymous requests through. A malformed or invalid token is still
// rejected rather than silently downgraded to anonymous.
func AuthOptional(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		if !setIdentityFromHeader(c, authService, authHeader) {
			return
		}
		c.Next()
	}
}

func setIdentityFromHeader(c *gin.Context, authService service.AuthService, authHeader string) bool {
	// Extract token (format: "Bearer <token>")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
		c.Abort()
		return false
	}

	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		c.Abort()
		return false
	}

	c.Set("userID", claims.UserID)
	c.Set("username", claims.Username)
	c.Set("role", claims.Role)
	return true
}

// RequireRole checks if the user has the specified role
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleInterface, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "role not found in token"})
			c.Abort()
			return
		}

		userRole, ok := roleInterface.(string)
		if !ok || userRole != requiredRole {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin is a convenience function for requiring admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

// CurrentIdentity returns the authenticated caller set by the auth
// middleware, or nil for an anonymous request.
func CurrentIdentity(c *gin.Context) *service.Identity {
	userID, exists := c.Get("userID")
	if !exists {
		return nil
	}

	identity := &service.Identity{UserID: userID.(string)}
	if username, ok := c.Get("username"); ok {
		identity.Username, _ = username.(string)
	}
	if role, ok := c.Get("role"); ok {
		identity.Admin = role == models.RoleAdmin
	}
	return identity
}
