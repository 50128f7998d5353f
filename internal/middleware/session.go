package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/guardforce-admin/internal/models"
	appErrors "github.com/noah-isme/guardforce-admin/pkg/errors"
	"github.com/noah-isme/guardforce-admin/pkg/response"
)

// ContextUserKey is the gin context key storing the signed-in operator.
const ContextUserKey = "currentUser"

type sessionHolder interface {
	Current() *models.Session
}

// RequireSession rejects requests while no operator is signed in.
func RequireSession(sessions sessionHolder) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Current()
		if sess == nil {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "sign in to continue"))
			c.Abort()
			return
		}
		c.Set(ContextUserKey, sess.User)
		c.Next()
	}
}

// RequireRole allows the request only when the operator holds one of the roles.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		value, ok := c.Get(ContextUserKey)
		user, valid := value.(models.UserInfo)
		if !ok || !valid {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, permitted := allowed[user.Role]; !permitted {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
