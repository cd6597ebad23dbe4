package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderIdentity sets the caller identity from plain headers without
// verifying anything.
// - If X-User-Id is missing, it falls back to "demo-user".
// - Use this ONLY for development/testing (AUTH_MODE=header).
func HeaderIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if uid == "" {
			uid = "demo-user"
		}

		email := strings.TrimSpace(c.GetHeader("X-User-Email"))
		if email == "" {
			email = uid + "@gcn.local"
		}

		c.Set(CtxFirebaseUID, uid)
		c.Set(CtxUserEmail, email)

		c.Next()
	}
}
