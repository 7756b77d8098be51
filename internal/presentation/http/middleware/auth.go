package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/user"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/security"
	"github.com/PressPlayMedia/pressplay-go/pkg/config"
)

const profileContextKey = "profile"

// ProfileAuthMiddleware validates the Bearer profile token and stores the
// embedded profile view in the request context.
func ProfileAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing profile token"})
			return
		}

		claims, err := security.ValidateJWT(strings.TrimPrefix(header, "Bearer "), config.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid profile token"})
			return
		}

		profile := security.GetProfileFromClaims(claims)
		if profile == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid profile token"})
			return
		}

		c.Set(profileContextKey, profile)
		c.Next()
	}
}

// GetProfile returns the authenticated profile stored by the middleware.
func GetProfile(c *gin.Context) (*user.Profile, bool) {
	value, exists := c.Get(profileContextKey)
	if !exists {
		return nil, false
	}
	profile, ok := value.(*user.Profile)
	return profile, ok
}
