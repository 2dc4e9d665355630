package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mentorify/mentorify-api/internal/models"
	"github.com/mentorify/mentorify-api/pkg/jwt"
	"github.com/mentorify/mentorify-api/pkg/logger"
)

// AuthUserContextKey is the key used to store the authenticated user in context
const AuthUserContextKey = "auth_user"

var (
	ErrUserNotFound    = errors.New("user not found in context")
	ErrInvalidUserType = errors.New("invalid user type in context")
)

// AuthUser is the authenticated identity attached to the request context
type AuthUser struct {
	ID    uuid.UUID
	Email string
	Name  string
	Role  models.UserRole
}

// AuthMiddleware validates the Bearer token and adds the user to context
func AuthMiddleware(tokenManager *jwt.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authentication token"})
			c.Abort()
			return
		}

		claims, err := tokenManager.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			logger.Warn("Invalid authentication token",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err),
			)
			if errors.Is(err, jwt.ErrExpiredToken) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			}
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set(AuthUserContextKey, &AuthUser{
			ID:    userID,
			Email: claims.Email,
			Name:  claims.Name,
			Role:  models.UserRole(claims.Role),
		})
		c.Next()
	}
}

// RequireRole rejects requests whose authenticated user has a different role.
// Must run after AuthMiddleware.
func RequireRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetAuthUser(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		if user.Role != role {
			logger.Warn("Role check failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("required_role", string(role)),
				zap.String("user_role", string(user.Role)),
			)
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetAuthUser extracts the authenticated user from context
func GetAuthUser(c *gin.Context) (*AuthUser, error) {
	val, exists := c.Get(AuthUserContextKey)
	if !exists {
		return nil, ErrUserNotFound
	}

	user, ok := val.(*AuthUser)
	if !ok {
		return nil, ErrInvalidUserType
	}

	return user, nil
}
