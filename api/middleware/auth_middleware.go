// api/middleware/auth_middleware.go
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/habitgrid-backend/config"
	"github.com/Annany2002/habitgrid-backend/internal/auth" // Import internal auth logic and errors
	"github.com/Annany2002/habitgrid-backend/internal/logger"
	"github.com/Annany2002/habitgrid-backend/internal/storage"
)

// AuthCookieName is the cookie carrying the session token for browser clients.
const AuthCookieName = "auth-token"

// Context keys set by AuthMiddleware.
const (
	ContextUserID    = "userId"
	ContextUserEmail = "userEmail"
)

var (
	customLog = logger.NewLogger()
)

// AuthMiddleware authenticates requests with a JWT taken from either the
// "Authorization: Bearer" header or the auth cookie. The header wins when both
// are present. The token subject must still exist.
func AuthMiddleware(db *storage.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractToken(c)
		if err != nil {
			customLog.Printf("AuthMiddleware: %v", err)
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		identity, err := auth.ValidateJWT(tokenString, cfg.JWTSecret)
		if err != nil {
			customLog.Printf("AuthMiddleware: Token validation failed: %v", err)
			errMsg := "Invalid token"
			switch {
			case errors.Is(err, auth.ErrTokenMalformed):
				errMsg = err.Error()
			case errors.Is(err, auth.ErrTokenExpired):
				errMsg = err.Error()
			}

			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMsg})
			return
		}

		if _, err := storage.FindUserByID(c.Request.Context(), db, identity.UserID); err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				customLog.Warnf("AuthMiddleware: Token subject %s no longer exists", identity.UserID)
				_ = c.Error(auth.ErrUnauthorized)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
				return
			}
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(ContextUserID, identity.UserID)
		c.Set(ContextUserEmail, identity.Email)

		c.Next()
	}
}

func extractToken(c *gin.Context) (string, error) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", fmt.Errorf("%w: authorization header format must be Bearer {token}", auth.ErrTokenMalformed)
		}
		return strings.TrimSpace(parts[1]), nil
	}

	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", fmt.Errorf("%w: authorization header or auth cookie required", auth.ErrUnauthorized)
}
