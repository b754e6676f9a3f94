package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// saleDebitAccount picks the asset account the sale proceeds land in.
// A payment mode named "Cash" hits the cash account, everything else the bank account.
func saleDebitAccount(tx *gorm.DB, businessId string, paymentModeId int, sysAccounts map[string]int) (int, error) {
	var paymentMode models.PaymentMode
	if err := tx.Where("business_id = ?", businessId).First(&paymentMode, paymentModeId).Error; err != nil {
		return 0, errors.New("payment mode not found")
	}
	code := models.SysAccBank
	if strings.EqualFold(paymentMode.Name, "Cash") {
		code = models.SysAccCash
	}
	accountId, ok := sysAccounts[code]
	if !ok {
		return 0, fmt.Errorf("system account %s not configured", code)
	}
	return accountId, nil
}

func ProcessSaleWorkflow(tx *gorm.DB, logger *logrus.Logger, msg config.PubSubMessage) error {

	var posting models.SalePosting
	if err := json.Unmarshal(msg.NewObj, &posting); err != nil {
		config.LogError(logger, "saleWorkflow.go", "ProcessSaleWorkflow", "Unmarshal msg.NewObj", msg.NewObj, err)
		return err
	}

	sysAccounts, err := models.GetSystemAccounts(msg.BusinessId)
	if err != nil {
		return err
	}
	debitAccountId, err := saleDebitAccount(tx, msg.BusinessId, posting.PaymentModeId, sysAccounts)
	if err != nil {
		return err
	}

	lines := []models.JournalTransaction{
		{AccountId: debitAccountId, BranchId: posting.BranchId,
			Description: "Sale " + posting.SaleNumber, Debit: posting.Total},
		{AccountId: sysAccounts[models.SysAccSalesRevenue], BranchId: posting.BranchId,
			Description: "Sale " + posting.SaleNumber, Credit: posting.Total},
	}
	if posting.CogsTotal.IsPositive() {
		lines = append(lines,
			models.JournalTransaction{AccountId: sysAccounts[models.SysAccCostOfGoodsSold], BranchId: posting.BranchId,
				Description: "COGS " + posting.SaleNumber, Debit: posting.CogsTotal},
			models.JournalTransaction{AccountId: sysAccounts[models.SysAccStock], BranchId: posting.BranchId,
				Description: "COGS " + posting.SaleNumber, Credit: posting.CogsTotal},
		)
	}

	ctx := tx.Statement.Context
	_, err = models.CreateJournalInTx(ctx, tx, msg.BusinessId, posting.BranchId,
		posting.SaleDateTime, "Sale "+posting.SaleNumber,
		models.AccountReferenceTypeSale, posting.SaleTransactionId, lines)
	return err
}

// ProcessSaleVoidWorkflow posts the mirror entry and marks the original
// sale journal reversed.
func ProcessSaleVoidWorkflow(tx *gorm.DB, logger *logrus.Logger, msg config.PubSubMessage) error {

	var posting models.SalePosting
	if err := json.Unmarshal(msg.NewObj, &posting); err != nil {
		config.LogError(logger, "saleWorkflow.go", "ProcessSaleVoidWorkflow", "Unmarshal msg.NewObj", msg.NewObj, err)
		return err
	}

	sysAccounts, err := models.GetSystemAccounts(msg.BusinessId)
	if err != nil {
		return err
	}
	debitAccountId, err := saleDebitAccount(tx, msg.BusinessId, posting.PaymentModeId, sysAccounts)
	if err != nil {
		return err
	}

	lines := []models.JournalTransaction{
		{AccountId: sysAccounts[models.SysAccSalesRevenue], BranchId: posting.BranchId,
			Description: "Void sale " + posting.SaleNumber, Debit: posting.Total},
		{AccountId: debitAccountId, BranchId: posting.BranchId,
			Description: "Void sale " + posting.SaleNumber, Credit: posting.Total},
	}
	if posting.CogsTotal.IsPositive() {
		lines = append(lines,
			models.JournalTransaction{AccountId: sysAccounts[models.SysAccStock], BranchId: posting.BranchId,
				Description: "Void COGS " + posting.SaleNumber, Debit: posting.CogsTotal},
			models.JournalTransaction{AccountId: sysAccounts[models.SysAccCostOfGoodsSold], BranchId: posting.BranchId,
				Description: "Void COGS " + posting.SaleNumber, Credit: posting.CogsTotal},
		)
	}

	ctx := tx.Statement.Context
	if _, err := models.CreateJournalInTx(ctx, tx, msg.BusinessId, posting.BranchId,
		msg.TransactionDateTime, "Void sale "+posting.SaleNumber,
		models.AccountReferenceTypeSaleVoid, posting.SaleTransactionId, lines); err != nil {
		return err
	}

	return tx.Model(&models.Journal{}).
		Where("business_id = ? AND reference_type = ? AND reference_id = ?",
			msg.BusinessId, models.AccountReferenceTypeSale, posting.SaleTransactionId).
		Update("status", models.JournalStatusReversed).Error
}
