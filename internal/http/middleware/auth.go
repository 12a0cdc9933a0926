package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const identityKey = "identity"

// Identity is the authenticated caller resolved from the bearer token.
type Identity struct {
	UserID       int64
	RamcoID      string
	Role         string
	DepartmentID int64
}

// Auth validates the bearer token and stores the caller identity. Requests
// without a valid token are rejected.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdentity(c, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token tidak valid"})
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// AuthOptional resolves identity when a token is present but lets anonymous
// requests through (drafts fall back to the guest key).
func AuthOptional(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := parseIdentity(c, secret); ok {
			c.Set(identityKey, id)
		}
		c.Next()
	}
}

// RequireRole gates admin-only routes. Must run after Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := GetIdentity(c)
		if id.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "akses ditolak"})
			return
		}
		c.Next()
	}
}

// GetIdentity returns the caller identity or the zero value.
func GetIdentity(c *gin.Context) Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(Identity); ok {
			return id
		}
	}
	return Identity{}
}

func parseIdentity(c *gin.Context, secret []byte) (Identity, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return Identity{}, false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, false
	}

	id := Identity{}
	if v, ok := claims["user_id"].(float64); ok {
		id.UserID = int64(v)
	}
	if v, ok := claims["ramco_id"].(string); ok {
		id.RamcoID = v
	}
	if v, ok := claims["role"].(string); ok {
		id.Role = v
	}
	if v, ok := claims["dept"].(float64); ok {
		id.DepartmentID = int64(v)
	}
	return id, id.UserID > 0
}
