package middleware

import (
	"net/http"
	"strings"

	"backoffice/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const authUserKey = "auth_user"

// RequireAuth validates the Bearer token and stashes the authenticated user
// on the context. Mutating routes mount this; read-only report routes stay
// open behind the reverse proxy.
func RequireAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		rc := domain.RequestContext{}
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if v, ok := claims["user_id"].(float64); ok {
				rc.UserID = domain.ID(v)
			}
			if v, ok := claims["role"].(string); ok {
				rc.Role = v
			}
		}
		c.Set(authUserKey, rc)
		c.Next()
	}
}

// GetAuthUser returns the authenticated user, when RequireAuth ran.
func GetAuthUser(c *gin.Context) (domain.RequestContext, bool) {
	v, ok := c.Get(authUserKey)
	if !ok {
		return domain.RequestContext{}, false
	}
	rc, ok := v.(domain.RequestContext)
	return rc, ok
}
