package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/japezoa/bike-manager/internal/core/domain"
	"github.com/japezoa/bike-manager/internal/core/ports"
)

const sessionKey = "session"

// AuthMiddleware verifies the bearer token and resolves the caller to an
// owner session. A valid token without an owner profile is a 403 carrying
// sign_out: the client must clear its session state; it is not retryable.
func AuthMiddleware(tokenService ports.TokenService, identityService ports.IdentityService, logger ports.LoggerPort) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			newErrorResponse(c, http.StatusUnauthorized, "Missing authorization header")
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			newErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header")
			return
		}

		identity, err := tokenService.VerifyToken(token)
		if err != nil {
			newErrorResponse(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		session, err := identityService.Resolve(c.Request.Context(), identity)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Warn("Signed-in user has no owner profile", map[string]interface{}{
					"user_id": identity.UserID.String(),
					"email":   identity.Email,
					"ip":      c.ClientIP(),
				})
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error":    "No owner profile for this account",
					"sign_out": true,
				})
				return
			}
			newErrorResponse(c, http.StatusInternalServerError, "Failed to resolve identity")
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireCapability gates a route group on one entry of the role policy
// table. Capabilities are taken from the table, never re-derived per view.
func RequireCapability(check func(domain.Capabilities) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, exists := getSession(c)
		if !exists {
			newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !check(session.Capabilities()) {
			newErrorResponse(c, http.StatusForbidden, "Access denied")
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, exists := getSession(c)
		if !exists {
			newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if session.Role != domain.RoleAdmin {
			newErrorResponse(c, http.StatusForbidden, "Access denied")
			return
		}
		c.Next()
	}
}

func getSession(c *gin.Context) (*domain.Session, bool) {
	value, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	session, ok := value.(*domain.Session)
	return session, ok
}
