package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxUserEmail   = "email"
)

// Identity is the session object handed to every operation that needs to
// know who is acting. It is built once per request by the auth middleware
// and never mutated afterwards.
type Identity struct {
	UID   string
	Email string
}

// CurrentIdentity extracts the caller identity set by the auth middleware.
// A zero UID means the request is unauthenticated.
func CurrentIdentity(c *gin.Context) Identity {
	return Identity{
		UID:   strings.TrimSpace(c.GetString(CtxFirebaseUID)),
		Email: strings.TrimSpace(c.GetString(CtxUserEmail)),
	}
}
