package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const CartSessionKey = "cart_session"

// CartSession makes sure the visitor carries an opaque cart session id.
func CartSession(cookieName string, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cookieName)
		if err != nil || uuid.Validate(sessionID) != nil {
			sessionID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, sessionID, 0, "/", "", secure, true)
		}
		c.Set(CartSessionKey, sessionID)
		c.Next()
	}
}

func GetCartSession(c *gin.Context) string {
	return c.GetString(CartSessionKey)
}
