package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/LeeyaD/phonebook-server/internal/application"
	"github.com/LeeyaD/phonebook-server/internal/interface/httperr"
)

const userContextKey = "user_context"

// Auth resolves the Authorization header to a stored user.
type Auth struct {
	Authn  *application.Authenticator
	Authz  *application.Authorizer
	Logger *logrus.Logger
}

// Require rejects the request with 401 unless it carries a valid token for
// an existing user.
func (a *Auth) Require() gin.HandlerFunc {
	return a.handler(false)
}

// Optional lets requests without an Authorization header through
// anonymously. A header that is present must still be valid.
func (a *Auth) Optional() gin.HandlerFunc {
	return a.handler(true)
}

func (a *Auth) handler(optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" && optional {
			c.Next()
			return
		}

		claims, err := a.Authn.Authenticate(header)
		if err != nil {
			httperr.Write(c, a.Logger, err)
			return
		}
		uc, err := a.Authz.Authorize(c.Request.Context(), claims)
		if err != nil {
			httperr.Write(c, a.Logger, err)
			return
		}

		c.Set(userContextKey, uc)
		c.Set("userID", uc.User.ID) // rate limiter key
		c.Next()
	}
}

// CurrentUser returns the caller resolved by Auth, if any.
func CurrentUser(c *gin.Context) (application.UserContext, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return application.UserContext{}, false
	}
	uc, ok := v.(application.UserContext)
	return uc, ok
}
