package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/models"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"bitbucket.org/mmdatafocus/bms_backend/workflow"
	"github.com/gin-gonic/gin"
)

// pushEnvelope is the Pub/Sub push delivery format.
type pushEnvelope struct {
	Message struct {
		Data []byte `json:"data,omitempty"`
		ID   string `json:"id"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// PubSubPushHandler processes posting messages delivered over HTTP push.
// Malformed payloads are acked to avoid retry loops; processing failures
// return non-2xx so Pub/Sub redelivers.
func PubSubPushHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			config.LogError(logger, "ops.go", "PubSubPushHandler", "io.ReadAll", nil, err)
			c.Status(http.StatusNoContent)
			return
		}

		var envelope pushEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			config.LogError(logger, "ops.go", "PubSubPushHandler", "Unmarshal body", body, err)
			c.Status(http.StatusNoContent)
			return
		}

		var m config.PubSubMessage
		if err := json.Unmarshal(envelope.Message.Data, &m); err != nil {
			config.LogError(logger, "ops.go", "PubSubPushHandler", "Unmarshal pubsub message", envelope.Message.Data, err)
			c.Status(http.StatusNoContent)
			return
		}

		if m.BusinessId == "" || m.ReferenceType == "" {
			config.LogError(logger, "ops.go", "PubSubPushHandler", "invalid pubsub message", m,
				errors.New("business_id/reference_type required"))
			c.Status(http.StatusNoContent)
			return
		}

		correlationId := m.CorrelationId
		if correlationId == "" {
			correlationId = envelope.Message.ID
		}

		ctx := context.WithValue(c.Request.Context(), utils.ContextKeyBusinessId, m.BusinessId)
		ctx = utils.SetCorrelationIdInContext(ctx, correlationId)
		if err := workflow.ProcessMessage(ctx, logger, m); err != nil {
			config.LogError(logger, "ops.go", "PubSubPushHandler", "ProcessMessage", m, err)
			c.Status(http.StatusInternalServerError)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

type outboxReplayRequest struct {
	RecordIds []int `json:"record_ids" binding:"required"`
}

func OutboxReplayHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req outboxReplayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, err)
			return
		}
		businessId, ok := utils.GetBusinessIdFromContext(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		count, err := workflow.ReplayOutboxRecords(c.Request.Context(), businessId, req.RecordIds)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"requeued": count})
	}
}

func StuckOutboxRecordsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		olderThan := 10 * time.Minute
		if v := queryInt(c, "older_than_minutes"); v != nil && *v > 0 {
			olderThan = time.Duration(*v) * time.Minute
		}
		limit := queryLimit(c)
		records, err := workflow.GetStuckOutboxRecords(c.Request.Context(), olderThan, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, records)
	}
}

type registerDeviceRequest struct {
	BranchId   int    `json:"branch_id" binding:"required"`
	DeviceName string `json:"device_name" binding:"required"`
	// OperatorUserId is the account sales from this terminal are recorded
	// under. Defaults to the admin registering the device.
	OperatorUserId int `json:"operator_user_id"`
}

// RegisterDeviceHandler issues a long-lived JWT for POS terminals that
// authenticate without a user session.
func RegisterDeviceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerDeviceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, err)
			return
		}
		businessId, ok := utils.GetBusinessIdFromContext(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		operatorId := req.OperatorUserId
		if operatorId == 0 {
			operatorId, _ = utils.GetUserIdFromContext(c.Request.Context())
		}
		if operatorId == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "operator_user_id is required"})
			return
		}
		if _, err := models.GetUser(c.Request.Context(), operatorId); err != nil {
			respondError(c, err)
			return
		}
		token, err := utils.JwtGenerateDevice(businessId, req.BranchId, req.DeviceName, operatorId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"token": token, "device_name": req.DeviceName})
	}
}
