package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/models"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"cloud.google.com/go/pubsub"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	businessMutexMap = make(map[string]*sync.Mutex)
	globalMutex      = &sync.Mutex{}
)

// RunPostingWorkflow subscribes to the posting topic and processes messages
// with per-business serialization.
func RunPostingWorkflow() error {
	logger := config.GetLogger()
	ctx := context.Background()
	client, err := config.GetClient(ctx)
	if err != nil {
		return err
	}
	topic, err := config.CreateTopicIfNotExists(client, os.Getenv("PUBSUB_TOPIC"))
	if err != nil {
		return err
	}
	sub, err := config.CreateSubscriptionIfNotExists(client, os.Getenv("PUBSUB_SUBSCRIPTION"), topic)
	if err != nil {
		return err
	}
	sub.ReceiveSettings.MaxOutstandingMessages = 10

	callback := func(ctx context.Context, msg *pubsub.Message) {
		m := config.PubSubMessage{}
		if err := json.Unmarshal(msg.Data, &m); err != nil {
			config.LogError(logger, "mainWorkflow.go", "RunPostingWorkflow", "Unmarshaling pubsub message", msg.Data, err)
			// malformed payloads can never succeed
			msg.Ack()
			return
		}

		// in-process ordering per business; the DB advisory lock covers other instances
		globalMutex.Lock()
		mutex, exists := businessMutexMap[m.BusinessId]
		if !exists {
			mutex = &sync.Mutex{}
			businessMutexMap[m.BusinessId] = mutex
		}
		globalMutex.Unlock()

		mutex.Lock()
		defer mutex.Unlock()

		ctx = context.WithValue(ctx, utils.ContextKeyBusinessId, m.BusinessId)
		if err := ProcessMessage(ctx, logger, m); err != nil {
			logger.WithFields(logrus.Fields{
				"field":          "PostingWorkflow",
				"business_id":    m.BusinessId,
				"reference_type": m.ReferenceType,
				"reference_id":   m.ReferenceId,
				"message_id":     msg.ID,
			}).Error("pubsub processing failed: " + err.Error())
			msg.Nack()
			return
		}
		msg.Ack()
	}

	go func() {
		if err := sub.Receive(ctx, callback); err != nil {
			config.LogError(logger, "mainWorkflow.go", "RunPostingWorkflow", "Failed to receive messages", nil, err)
		}
	}()

	return nil
}

// ProcessMessage runs one posting message inside a transaction with durable
// idempotency and per-business advisory locking.
func ProcessMessage(ctx context.Context, logger *logrus.Logger, m config.PubSubMessage) error {
	db := config.GetDB()
	return db.Transaction(func(tx *gorm.DB) error {
		// Enforce strict per-business ordering across instances.
		if err := AcquireBusinessPostingLock(tx.WithContext(ctx), m.BusinessId); err != nil {
			return err
		}
		defer ReleaseBusinessPostingLock(tx.WithContext(ctx), m.BusinessId)

		handlerName := m.ReferenceType
		messageId := strconv.Itoa(m.ID)

		skip, err := BeginIdempotency(tx.WithContext(ctx), m.BusinessId, handlerName, messageId)
		if err != nil {
			return err
		}
		if skip {
			return markOutboxProcessed(tx.WithContext(ctx), m.ID, nil)
		}

		if err := processWorkflow(tx.WithContext(ctx), logger, m); err != nil {
			_ = MarkIdempotencyFailed(tx.WithContext(ctx), m.BusinessId, handlerName, messageId, err)
			return err
		}
		if err := MarkIdempotencySucceeded(tx.WithContext(ctx), m.BusinessId, handlerName, messageId); err != nil {
			return err
		}
		return markOutboxProcessed(tx.WithContext(ctx), m.ID, nil)
	})
}

func processWorkflow(tx *gorm.DB, logger *logrus.Logger, m config.PubSubMessage) error {
	switch models.AccountReferenceType(m.ReferenceType) {
	case models.AccountReferenceTypeSale:
		return ProcessSaleWorkflow(tx, logger, m)
	case models.AccountReferenceTypeSaleVoid:
		return ProcessSaleVoidWorkflow(tx, logger, m)
	case models.AccountReferenceTypePurchaseReceive:
		return ProcessPurchaseWorkflow(tx, logger, m)
	case models.AccountReferenceTypeStockAdjustment:
		return ProcessAdjustmentWorkflow(tx, logger, m)
	default:
		return fmt.Errorf("unknown reference type %q", m.ReferenceType)
	}
}

func markOutboxProcessed(tx *gorm.DB, recordId int, processErr error) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"is_processed": true,
		"processed_at": &now,
	}
	if processErr != nil {
		msg := processErr.Error()
		updates["last_process_error"] = &msg
	}
	return tx.Model(&models.PubSubMessageRecord{}).
		Where("id = ?", recordId).
		Updates(updates).Error
}
