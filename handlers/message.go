package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/bms_backend/models"
	"bitbucket.org/mmdatafocus/bms_backend/realtime"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/gin-gonic/gin"
)

func SendMessageHandler(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewMessage
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		message, err := models.SendMessage(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		if businessId, ok := utils.GetBusinessIdFromContext(c.Request.Context()); ok {
			hub.Publish(realtime.NewEnvelope(realtime.EventMessageCreated, businessId, 0, message))
		}
		c.JSON(http.StatusCreated, message)
	}
}

func PaginateConversationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		otherUserId, ok := paramId(c)
		if !ok {
			return
		}
		connection, err := models.PaginateConversation(c.Request.Context(), otherUserId, queryLimit(c), queryAfter(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, connection)
	}
}

func MarkConversationReadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		senderId, ok := paramId(c)
		if !ok {
			return
		}
		count, err := models.MarkConversationRead(c.Request.Context(), senderId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"marked_read": count})
	}
}

func GetUnreadMessageCountHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := models.GetUnreadMessageCount(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"unread_count": count})
	}
}
