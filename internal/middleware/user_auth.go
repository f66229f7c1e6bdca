package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by the middlewares in this package.
const (
	KeySessionKey = "sessionKey"
	KeyAuthToken  = "authToken"
	KeyUserName   = "userName"
)

// UserAuth validates the bearer token and injects the user identity plus the
// raw token (checkout and order reads forward it to the Zora API).
func UserAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			log.Println("[AUTH] [ERROR] missing token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		userID, name, token, err := parseBearer(raw, secret)
		if err != nil {
			log.Println("[AUTH] [ERROR]", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(KeySessionKey, userID)
		c.Set(KeyAuthToken, token)
		c.Set(KeyUserName, name)
		c.Next()
	}
}

func parseBearer(header, secret string) (userID, name, rawToken string, err error) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", "", "", errInvalidToken("invalid token format")
	}

	token, parseErr := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if parseErr != nil || !token.Valid {
		return "", "", "", errInvalidToken("token validation failed")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", "", errInvalidToken("token claims invalid")
	}

	userIDValue, ok := claims["userId"].(string)
	if !ok || strings.TrimSpace(userIDValue) == "" {
		return "", "", "", errInvalidToken("userId claim missing")
	}

	name, _ = claims["name"].(string)
	return userIDValue, name, parts[1], nil
}

type errInvalidToken string

func (e errInvalidToken) Error() string { return string(e) }
