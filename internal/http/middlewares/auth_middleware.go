package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rakshithjm97/ivms3/internal/access"
	"github.com/rakshithjm97/ivms3/internal/auth"
)

// TokenVerifier validates access tokens.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header.
func BearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(h[7:])
	return raw, raw != ""
}

// RequireAuth verifies the access token and stores the caller as an access.Principal.
// Role and email come only from the verified claims.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := BearerToken(c)
		if !ok {
			AbortError(c, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		claims, err := m.jwt.VerifyAccessToken(raw)
		if err != nil {
			AbortError(c, http.StatusUnauthorized, "Invalid or expired access token")
			return
		}

		c.Set(ctxPrincipal, access.Principal{
			ID:    claims.UserID(),
			Email: claims.Email,
			Role:  claims.RoleValue(),
		})

		c.Next()
	}
}

func PrincipalFromContext(c *gin.Context) (access.Principal, bool) {
	v, ok := c.Get(ctxPrincipal)
	if !ok {
		return access.Principal{}, false
	}
	p, ok := v.(access.Principal)
	return p, ok
}

func UserIDFromContext(c *gin.Context) (string, bool) {
	p, ok := PrincipalFromContext(c)
	if !ok || p.ID == "" {
		return "", false
	}
	return p.ID, true
}
