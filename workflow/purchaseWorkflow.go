package workflow

import (
	"encoding/json"
	"fmt"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ProcessPurchaseWorkflow posts a received purchase order: goods into
// inventory against accounts payable.
func ProcessPurchaseWorkflow(tx *gorm.DB, logger *logrus.Logger, msg config.PubSubMessage) error {

	var posting models.PurchasePosting
	if err := json.Unmarshal(msg.NewObj, &posting); err != nil {
		config.LogError(logger, "purchaseWorkflow.go", "ProcessPurchaseWorkflow", "Unmarshal msg.NewObj", msg.NewObj, err)
		return err
	}

	if !posting.OrderTotal.IsPositive() {
		return fmt.Errorf("purchase order %s has no amount", posting.OrderNumber)
	}

	sysAccounts, err := models.GetSystemAccounts(msg.BusinessId)
	if err != nil {
		return err
	}

	lines := []models.JournalTransaction{
		{AccountId: sysAccounts[models.SysAccStock], BranchId: posting.BranchId,
			Description: "Received " + posting.OrderNumber, Debit: posting.OrderTotal},
		{AccountId: sysAccounts[models.SysAccPayable], BranchId: posting.BranchId,
			Description: "Received " + posting.OrderNumber, Credit: posting.OrderTotal},
	}

	ctx := tx.Statement.Context
	_, err = models.CreateJournalInTx(ctx, tx, msg.BusinessId, posting.BranchId,
		posting.ReceivedAt, "Purchase receive "+posting.OrderNumber,
		models.AccountReferenceTypePurchaseReceive, posting.PurchaseOrderId, lines)
	return err
}
