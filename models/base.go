package models

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PublishToPosting implements the transactional outbox: it writes the message
// record inside the caller's DB transaction but does NOT publish to Pub/Sub.
// Publishing is performed asynchronously by the outbox dispatcher after commit.
func PublishToPosting(ctx context.Context, db *gorm.DB, businessId string, branchId int, transactionDateTime time.Time, refId int, refType AccountReferenceType, obj interface{}, oldObj interface{}, msgAction PubSubMessageAction) error {

	var objInByte []byte
	var oldObjInByte []byte
	var err error

	if msgAction == PubSubMessageActionCreate || msgAction == PubSubMessageActionUpdate {
		objInByte, err = json.Marshal(obj)
		if err != nil {
			return err
		}
	}
	if msgAction == PubSubMessageActionUpdate || msgAction == PubSubMessageActionDelete {
		oldObjInByte, err = json.Marshal(oldObj)
		if err != nil {
			return err
		}
	}

	record := PubSubMessageRecord{
		BusinessId:          businessId,
		BranchId:            branchId,
		TransactionDateTime: transactionDateTime,
		ReferenceId:         refId,
		ReferenceType:       refType,
		Action:              msgAction,
		NewObj:              objInByte,
		OldObj:              oldObjInByte,
		IsProcessed:         false,
		PublishStatus:       OutboxPublishStatusPending,
		CorrelationId:       correlationIdFromContextOrNew(ctx),
	}
	err = db.Create(&record).Error
	if err != nil {
		return err
	}
	return nil
}

func correlationIdFromContextOrNew(ctx context.Context) string {
	if ctx != nil {
		if v, ok := utils.GetCorrelationIdFromContext(ctx); ok && v != "" {
			return v
		}
	}
	return uuid.NewString()
}

func businessIdFromContext(ctx context.Context) (string, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return "", errors.New("business id is required")
	}
	return businessId, nil
}

func branchIdFromContext(ctx context.Context) (int, error) {
	branchId, ok := utils.GetBranchIdFromContext(ctx)
	if !ok || branchId == 0 {
		return 0, errors.New("branch id is required")
	}
	return branchId, nil
}

