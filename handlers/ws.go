package handlers

import (
	"net/http"
	"os"
	"strings"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/realtime"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		allowed := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowed == "" || allowed == "*" {
			return true
		}
		origin := r.Header.Get("Origin")
		for _, o := range strings.Split(allowed, ",") {
			if strings.TrimSpace(o) == origin {
				return true
			}
		}
		return false
	},
}

// WebSocketHandler upgrades an authenticated connection and subscribes it
// to the hub. Session middleware runs first, so business and branch come
// from context. Branch 0 receives events for every branch.
func WebSocketHandler(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		businessId, ok := utils.GetBusinessIdFromContext(c.Request.Context())
		if !ok || businessId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		branchId, _ := utils.GetBranchIdFromContext(c.Request.Context())
		userId, _ := utils.GetUserIdFromContext(c.Request.Context())

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			config.LogError(config.GetLogger(), "ws.go", "WebSocketHandler", "Upgrade", nil, err)
			return
		}
		realtime.NewClient(hub, conn, businessId, branchId, userId)
	}
}
