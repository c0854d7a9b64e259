package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/restaurant-directory/internal/config"
	"github.com/princeprakhar/restaurant-directory/internal/types"
	"github.com/princeprakhar/restaurant-directory/internal/utils"
	"github.com/princeprakhar/restaurant-directory/pkg/logger"
	"github.com/sirupsen/logrus"
)

const (
	userIDKey   = "user_id"
	usernameKey = "username"
	viewerKey   = "viewer"
)

// ViewerResolver loads the viewer of an authenticated user.
type ViewerResolver interface {
	ResolveViewer(ctx context.Context, userID uint) (types.Viewer, error)
}

// AuthMiddleware rejects requests without a valid bearer access token.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.SendUnauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		if !authenticate(c, cfg, authHeader) {
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth lets anonymous requests through but still rejects a
// malformed or expired token.
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		if !authenticate(c, cfg, authHeader) {
			c.Abort()
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, cfg *config.Config, authHeader string) bool {
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		utils.SendUnauthorized(c, "Bearer token required")
		return false
	}

	claims, err := utils.ValidateToken(tokenString, cfg.JWTSecret)
	if err != nil || claims.Type != string(utils.AccessToken) {
		utils.SendUnauthorized(c, "Invalid token")
		return false
	}

	c.Set(userIDKey, claims.UserID)
	c.Set(usernameKey, claims.Username)
	return true
}

// ViewerMiddleware stores the request's Viewer: anonymous without an
// authenticated user, otherwise the user with their own timezone.
func ViewerMiddleware(resolver ViewerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint(userIDKey)
		if userID == 0 {
			c.Set(viewerKey, types.Anonymous)
			c.Next()
			return
		}

		viewer, err := resolver.ResolveViewer(c.Request.Context(), userID)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"user_id": userID,
				"error":   err,
			}).Warn("failed to resolve viewer")
			utils.SendUnauthorized(c, "User not found or inactive")
			c.Abort()
			return
		}

		c.Set(viewerKey, viewer)
		c.Next()
	}
}

// GetViewer returns the Viewer stored by ViewerMiddleware, anonymous when
// none was stored.
func GetViewer(c *gin.Context) types.Viewer {
	if value, ok := c.Get(viewerKey); ok {
		if viewer, ok := value.(types.Viewer); ok {
			return viewer
		}
	}
	return types.Anonymous
}
