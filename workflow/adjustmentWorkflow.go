package workflow

import (
	"encoding/json"
	"fmt"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ProcessAdjustmentWorkflow posts an approved stock adjustment.
// Increase: inventory up against adjustment gain.
// Decrease: shrinkage expense against inventory.
func ProcessAdjustmentWorkflow(tx *gorm.DB, logger *logrus.Logger, msg config.PubSubMessage) error {

	var posting models.AdjustmentPosting
	if err := json.Unmarshal(msg.NewObj, &posting); err != nil {
		config.LogError(logger, "adjustmentWorkflow.go", "ProcessAdjustmentWorkflow", "Unmarshal msg.NewObj", msg.NewObj, err)
		return err
	}

	if !posting.TotalValue.IsPositive() {
		// zero-cost adjustments move qty only, nothing to post
		return nil
	}

	sysAccounts, err := models.GetSystemAccounts(msg.BusinessId)
	if err != nil {
		return err
	}

	description := fmt.Sprintf("Stock adjustment #%d", posting.AdjustmentId)
	var lines []models.JournalTransaction
	switch posting.AdjustmentType {
	case models.AdjustmentTypeIncrease:
		lines = []models.JournalTransaction{
			{AccountId: sysAccounts[models.SysAccStock], BranchId: posting.BranchId,
				Description: description, Debit: posting.TotalValue},
			{AccountId: sysAccounts[models.SysAccAdjustmentGain], BranchId: posting.BranchId,
				Description: description, Credit: posting.TotalValue},
		}
	case models.AdjustmentTypeDecrease:
		lines = []models.JournalTransaction{
			{AccountId: sysAccounts[models.SysAccShrinkage], BranchId: posting.BranchId,
				Description: description, Debit: posting.TotalValue},
			{AccountId: sysAccounts[models.SysAccStock], BranchId: posting.BranchId,
				Description: description, Credit: posting.TotalValue},
		}
	default:
		return fmt.Errorf("unknown adjustment type %q", posting.AdjustmentType)
	}

	ctx := tx.Statement.Context
	_, err = models.CreateJournalInTx(ctx, tx, msg.BusinessId, posting.BranchId,
		posting.ReviewedAt, description,
		models.AccountReferenceTypeStockAdjustment, posting.AdjustmentId, lines)
	return err
}
