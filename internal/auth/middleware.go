package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// identityKey is the gin context key the middleware stores the caller's
// identity under. Unexported so handlers go through CurrentUser.
const identityKey = "__auth_identity"

// Identity is the authenticated caller as resolved from a bearer token.
type Identity struct {
	UserID uint
	Email  string
}

// RequireAuth validates the Authorization bearer token and stores the
// caller's identity in the request context. Requests without a valid token
// are rejected with 401 before any handler runs.
func RequireAuth(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenStr) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		identity, err := tokens.Validate(strings.TrimSpace(tokenStr))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// CurrentUser returns the identity stored by RequireAuth.
func CurrentUser(c *gin.Context) (Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}
	identity, ok := value.(Identity)
	return identity, ok
}
