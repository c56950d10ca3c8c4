package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by the auth middleware.
const (
	UserIDKey  = "user_id"
	IsAdminKey = "is_admin"
)

const adminRole = "ADMIN"

var (
	errNoBearer    = errors.New("no bearer token")
	errEmptySecret = errors.New("signing secret is not configured")
)

// JWTAuth requires a valid HS512 bearer token and stores the subject and
// admin flag in the gin context.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseBearer(c.GetHeader("Authorization"), secret)
		if errors.Is(err, errNoBearer) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No bearer token"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		if !setIdentity(c, claims) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid claims"})
			return
		}
		c.Next()
	}
}

// OptionalJWTAuth sets the identity when a valid token is present and lets
// anonymous requests through untouched. A malformed token is still rejected.
func OptionalJWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseBearer(c.GetHeader("Authorization"), secret)
		if errors.Is(err, errNoBearer) {
			c.Next()
			return
		}
		if err != nil || !setIdentity(c, claims) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Next()
	}
}

// AdminOnly must run after JWTAuth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(IsAdminKey) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access only"})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated subject, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func parseBearer(header, secret string) (jwt.MapClaims, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, errNoBearer
	}
	if secret == "" {
		return nil, errEmptySecret
	}
	tokenStr := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

func setIdentity(c *gin.Context, claims jwt.MapClaims) bool {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return false
	}
	c.Set(UserIDKey, sub)
	c.Set(IsAdminKey, hasRole(claims["roles"], adminRole))
	return true
}

// hasRole accepts roles as a JSON array or a single string.
func hasRole(raw interface{}, want string) bool {
	switch roles := raw.(type) {
	case []interface{}:
		for _, r := range roles {
			if s, ok := r.(string); ok && s == want {
				return true
			}
		}
	case []string:
		for _, s := range roles {
			if s == want {
				return true
			}
		}
	case string:
		return roles == want
	}
	return false
}
