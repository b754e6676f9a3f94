package middlewares

import (
	"context"
	"net/http"
	"strings"

	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/gin-gonic/gin"
)

// DeviceMiddleware authenticates registered POS devices by bearer token.
// A valid device token scopes the request to the device's business and branch.
func DeviceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")

		if auth == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		bearer := "Bearer "
		if !strings.HasPrefix(auth, bearer) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		auth = auth[len(bearer):]

		claim, err := utils.JwtValidateDevice(auth)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := context.WithValue(c.Request.Context(), utils.ContextKeyBusinessId, claim.BusinessId)
		ctx = context.WithValue(ctx, utils.ContextKeyBranchId, claim.BranchId)
		ctx = context.WithValue(ctx, utils.ContextKeyUserName, claim.DeviceName)
		ctx = context.WithValue(ctx, utils.ContextKeyUserId, claim.UserId)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
