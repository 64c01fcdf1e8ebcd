package middlewares

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the bearer token against the signing secret and,
// when roles are given, enforces one of them.
func AuthMiddleware(secret string, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing or invalid token"})
			c.Abort()
			return
		}
		authorize(c, strings.TrimPrefix(h, "Bearer "), secret, requiredRoles)
	}
}

// WSAuthMiddleware is AuthMiddleware for websocket upgrades, where the
// client cannot set headers and passes the token as ?token=.
func WSAuthMiddleware(secret string, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing or invalid token"})
			c.Abort()
			return
		}
		authorize(c, tokenStr, secret, requiredRoles)
	}
}

func authorize(c *gin.Context, tokenStr, secret string, requiredRoles []string) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
		c.Abort()
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid claims"})
		c.Abort()
		return
	}

	var role string
	if v, ok := claims["role"].(string); ok {
		role = v
	}
	var username string
	if v, ok := claims["username"].(string); ok {
		username = v
	}

	c.Set("username", username)
	c.Set("role", role)

	if len(requiredRoles) > 0 {
		allowed := false
		for _, r := range requiredRoles {
			if role == r {
				allowed = true
				break
			}
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden"})
			c.Abort()
			return
		}
	}

	c.Next()
}
