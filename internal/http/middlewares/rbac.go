package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rakshithjm97/ivms3/internal/domain/user"
)

// RequireRole lets the request through only for the listed roles.
func (m *AuthMiddleware) RequireRole(roles ...user.Role) gin.HandlerFunc {
	allowed := make(map[user.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		p, ok := PrincipalFromContext(c)
		if !ok {
			AbortError(c, http.StatusUnauthorized, "Missing identity context")
			return
		}

		if _, ok := allowed[p.Role]; !ok {
			AbortError(c, http.StatusForbidden, "Forbidden")
			return
		}
		c.Next()
	}
}
