package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookie = "proposal_session"
	sessionKey    = "session_id"

	// Cookie lifetime in seconds; the draft snapshot outlives it anyway.
	sessionMaxAge = 30 * 24 * 60 * 60
)

// Session assigns every browsing context an anonymous session id carried in
// a cookie. There is no authentication; the id only scopes the draft slot.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.Nil
		if raw, err := c.Cookie(sessionCookie); err == nil {
			if parsed, err := uuid.Parse(raw); err == nil {
				id = parsed
			}
		}
		if id == uuid.Nil {
			id = uuid.New()
			c.SetCookie(sessionCookie, id.String(), sessionMaxAge, "/", "", false, true)
		}
		c.Set(sessionKey, id)
		c.Next()
	}
}

// MustSessionID returns the session id set by Session.
func MustSessionID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(sessionKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
