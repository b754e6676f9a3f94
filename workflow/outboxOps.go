package workflow

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/models"
)

// ReplayOutboxRecords re-queues DEAD/FAILED outbox rows so the dispatcher
// picks them up again. Attempt counters reset so backoff starts over.
func ReplayOutboxRecords(ctx context.Context, businessId string, ids []int) (int64, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&models.PubSubMessageRecord{}).
		Where("is_processed = 0").
		Where("publish_status IN ?", []string{models.OutboxPublishStatusDead, models.OutboxPublishStatusFailed})
	if businessId != "" {
		dbCtx = dbCtx.Where("business_id = ?", businessId)
	}
	if len(ids) > 0 {
		dbCtx = dbCtx.Where("id IN ?", ids)
	}
	result := dbCtx.Updates(map[string]interface{}{
		"publish_status":     models.OutboxPublishStatusPending,
		"publish_attempts":   0,
		"next_attempt_at":    nil,
		"locked_at":          nil,
		"locked_by":          nil,
		"last_publish_error": nil,
	})
	return result.RowsAffected, result.Error
}

// GetStuckOutboxRecords lists unprocessed rows older than the given age,
// for the ops endpoint and monitoring.
func GetStuckOutboxRecords(ctx context.Context, olderThan time.Duration, limit int) ([]*models.PubSubMessageRecord, error) {
	db := config.GetDB()
	cutoff := time.Now().UTC().Add(-olderThan)
	var records []*models.PubSubMessageRecord
	err := db.WithContext(ctx).
		Where("is_processed = 0 AND created_at <= ?", cutoff).
		Order("id ASC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
