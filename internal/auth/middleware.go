package auth

import (
	"net/http"
	"strings"

	"talentbase-backend/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	userContextKey  = "user"
	emailContextKey = "email"
	tokenContextKey = "session_token"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	service    *AuthService
	authorizer *Authorizer
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(service *AuthService, authorizer *Authorizer) *AuthMiddleware {
	return &AuthMiddleware{service: service, authorizer: authorizer}
}

// OptionalAuth resolves the session from the Authorization header or the
// session cookie if present, and continues without a user otherwise.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			c.Next()
			return
		}

		user, err := m.service.CurrentUser(token)
		if err != nil {
			c.Next()
			return
		}

		setUser(c, user, token)
		c.Next()
	}
}

// RequireAuth validates the session token and sets user context
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		user, err := m.service.CurrentUser(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token", "details": err.Error()})
			c.Abort()
			return
		}

		setUser(c, user, token)
		c.Next()
	}
}

// RequireAdmin rejects requests from users that may not change the roster.
// It must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		if !m.authorizer.IsAdmin(user) {
			logger.WithContext(c).WithField("path", c.FullPath()).Warn("admin access denied")
			c.JSON(http.StatusForbidden, gin.H{"error": "only the admin can change the roster"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// TokenFromRequest returns the bearer token, falling back to the session cookie
func TokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		if token := strings.TrimPrefix(authHeader, "Bearer "); token != authHeader {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie
	}
	return ""
}

func setUser(c *gin.Context, user *User, token string) {
	c.Set(userContextKey, user)
	c.Set(emailContextKey, user.Email)
	c.Set(tokenContextKey, token)
	c.Request = c.Request.WithContext(logger.ContextWithUser(c.Request.Context(), user.Email))
}

// GetUser is a helper function to extract the signed-in user from context
func GetUser(c *gin.Context) (*User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*User)
	return user, ok
}

// GetUserEmail is a helper function to extract user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(emailContextKey)
	if !exists {
		return "", false
	}

	emailStr, ok := email.(string)
	return emailStr, ok
}

// GetSessionToken is a helper function to extract the session token from context
func GetSessionToken(c *gin.Context) (string, bool) {
	token, exists := c.Get(tokenContextKey)
	if !exists {
		return "", false
	}

	tokenStr, ok := token.(string)
	return tokenStr, ok
}
