package middlewares

import (
	"net/http"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/gin-gonic/gin"
)

func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Request.Header.Get("token")
		if token == "" {
			c.Next()
			return
		}
		var session utils.Session
		exists, err := config.GetRedisObject("Token:"+token, &session)
		if err != nil || !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := utils.SetTokenInContext(c.Request.Context(), token)
		ctx = utils.SetUsernameInContext(ctx, session.Username)
		ctx = utils.SetUserIdInContext(ctx, session.UserId)
		ctx = utils.SetUserNameInContext(ctx, session.Name)
		ctx = utils.SetUserRoleInContext(ctx, session.Role)
		ctx = utils.SetBusinessIdInContext(ctx, session.BusinessId)
		ctx = utils.SetBranchIdInContext(ctx, session.BranchId)
		ctx = utils.SetIsAdminInContext(ctx, session.Role == "A")
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
