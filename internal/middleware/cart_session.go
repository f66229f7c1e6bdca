package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const guestCookieName = "cart_session"

// CartSession resolves the session key cart operations are scoped to. A valid
// bearer token keys the cart by user id; otherwise a uuid guest cookie is
// minted so an anonymous cart survives page reloads, the same way the web
// storefront kept it in localStorage.
func CartSession(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := strings.TrimSpace(c.GetHeader("Authorization")); raw != "" {
			if userID, name, token, err := parseBearer(raw, secret); err == nil {
				c.Set(KeySessionKey, userID)
				c.Set(KeyAuthToken, token)
				c.Set(KeyUserName, name)
				c.Next()
				return
			}
		}

		sessionKey, err := c.Cookie(guestCookieName)
		if err != nil || sessionKey == "" {
			sessionKey = "guest-" + uuid.NewString()
			c.SetCookie(guestCookieName, sessionKey, 30*24*3600, "/", "", false, true)
		}
		c.Set(KeySessionKey, sessionKey)
		c.Next()
	}
}
