package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mastermahi08/Silkspeed-veersion01/internal/service/session"
)

type ctxKey string

const (
	sessionCtxKey ctxKey = "cartSession"

	sessionHeader    = "X-Cart-Session"
	sessionCookie    = "silkspeed_session"
	sessionCookieAge = 30 * 24 * 60 * 60
)

// sessionMiddleware resolves the cart session from the header or cookie,
// issuing a new one when the request carries none.
func sessionMiddleware(sessions CartSessions, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(sessionHeader))
		if id == "" {
			if v, err := c.Cookie(sessionCookie); err == nil {
				id = strings.TrimSpace(v)
			}
		}

		if id == "" {
			id = sessions.Issue()
		} else {
			normalized, err := session.Normalize(id)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid cart session"})
				return
			}
			id = normalized
		}

		setSession(c, id, secureCookie)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), sessionCtxKey, id))
		c.Next()
	}
}

func setSession(c *gin.Context, id string, secure bool) {
	c.Header(sessionHeader, id)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, sessionCookieAge, "/", "", secure, true)
}

func clearSession(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", secure, true)
}

func sessionFrom(c *gin.Context) string {
	id, _ := c.Request.Context().Value(sessionCtxKey).(string)
	return id
}
