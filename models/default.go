package models

import (
	"context"

	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"gorm.io/gorm"
)

// module name => actions
func GetDefaultModules() map[string]string {
	return map[string]string{
		"Products":   "read;create;update;delete",
		"Inventory":  "read;adjust;approve",
		"Sales":      "read;create;void",
		"Purchases":  "read;create;update;delete;receive",
		"Accounting": "read;create",
		"Attendance": "read;create",
		"Messaging":  "read;create",
		"Reports":    "read;export",
		"Users":      "read;create;update;delete",
		"Settings":   "read;update",
	}
}

func CreateDefaultModules(tx *gorm.DB, ctx context.Context, businessId string) ([]Module, error) {

	defaultModules := GetDefaultModules()

	var modules []Module
	for k, v := range defaultModules {
		modules = append(modules, Module{
			BusinessId: businessId,
			Name:       k,
			Actions:    v,
		})
	}

	if err := tx.WithContext(ctx).Create(&modules).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	return modules, nil
}

func CreateDefaultOwner(tx *gorm.DB, ctx context.Context, businessId string, email string, name string) (*User, error) {

	ownerRole := Role{
		Name:       "Owner",
		Code:       UserRoleAdmin,
		BusinessId: businessId,
	}
	if err := tx.WithContext(ctx).Create(&ownerRole).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	hashedPassword, err := utils.HashPassword("default123")
	if err != nil {
		return &User{}, err
	}

	owner := User{
		BusinessId: businessId,
		Username:   email,
		Name:       name,
		Email:      &email,
		Password:   string(hashedPassword),
		IsActive:   utils.NewTrue(),
		RoleId:     ownerRole.ID,
		Role:       UserRoleAdmin,
	}
	if err := tx.WithContext(ctx).Create(&owner).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	return &owner, nil
}

func CreateDefaultPaymentModes(tx *gorm.DB, ctx context.Context, businessId string) error {

	names := []string{"Cash", "Bank Transfer", "Mobile Payment"}

	var modes []PaymentMode
	for _, name := range names {
		modes = append(modes, PaymentMode{
			BusinessId: businessId,
			Name:       name,
			IsActive:   utils.NewTrue(),
		})
	}

	if err := tx.WithContext(ctx).Create(&modes).Error; err != nil {
		tx.Rollback()
		return err
	}
	return nil
}

// system account short codes used by the posting workflow
const (
	SysAccCash            = "CSH"
	SysAccBank            = "BNK"
	SysAccReceivable      = "AR"
	SysAccStock           = "STK"
	SysAccPayable         = "AP"
	SysAccEquity          = "EQT"
	SysAccSalesRevenue    = "REV"
	SysAccOtherIncome     = "OI"
	SysAccCostOfGoodsSold = "CGS"
	SysAccExpense         = "EXP"
	SysAccShrinkage       = "SHR"
	SysAccAdjustmentGain  = "GAL"
)

func GetDefaultChartOfAccounts() []NewSystemAccount {
	return []NewSystemAccount{
		{DetailType: AccountDetailTypeCash, Name: "Cash on Hand", Description: "Cash held at the registers and in the drawer.", SystemDefaultCode: SysAccCash},
		{DetailType: AccountDetailTypeBank, Name: "Bank", Description: "Funds kept in bank and mobile wallet accounts.", SystemDefaultCode: SysAccBank},
		{DetailType: AccountDetailTypeAccountsReceivable, Name: "Accounts Receivable", Description: "Amounts owed by customers for credit sales.", SystemDefaultCode: SysAccReceivable},
		{DetailType: AccountDetailTypeStock, Name: "Inventory Asset", Description: "Cost of goods on hand across branches.", SystemDefaultCode: SysAccStock},
		{DetailType: AccountDetailTypeAccountsPayable, Name: "Accounts Payable", Description: "Amounts owed to suppliers for purchases.", SystemDefaultCode: SysAccPayable},
		{DetailType: AccountDetailTypeEquity, Name: "Owner's Equity", Description: "Capital contributed by the owner.", SystemDefaultCode: SysAccEquity},
		{DetailType: AccountDetailTypeIncome, Name: "Sales Revenue", Description: "Revenue from completed sales.", SystemDefaultCode: SysAccSalesRevenue},
		{DetailType: AccountDetailTypeOtherIncome, Name: "Other Income", Description: "Income outside day to day sales.", SystemDefaultCode: SysAccOtherIncome},
		{DetailType: AccountDetailTypeOtherIncome, Name: "Inventory Adjustment Gain", Description: "Gains from upward stock adjustments.", SystemDefaultCode: SysAccAdjustmentGain},
		{DetailType: AccountDetailTypeCostOfGoodsSold, Name: "Cost of Goods Sold", Description: "Cost of goods delivered to customers.", SystemDefaultCode: SysAccCostOfGoodsSold},
		{DetailType: AccountDetailTypeExpense, Name: "General Expense", Description: "Day to day operating expenses.", SystemDefaultCode: SysAccExpense},
		{DetailType: AccountDetailTypeExpense, Name: "Inventory Shrinkage", Description: "Losses from downward stock adjustments, damage and theft.", SystemDefaultCode: SysAccShrinkage},
	}
}

func CreateDefaultAccounts(tx *gorm.DB, ctx context.Context, businessId string) error {

	chartOfAccounts := GetDefaultChartOfAccounts()

	for _, data := range chartOfAccounts {
		account := Account{
			BusinessId:        businessId,
			DetailType:        data.DetailType,
			MainType:          data.DetailType.MainType(),
			Name:              data.Name,
			Description:       data.Description,
			IsActive:          utils.NewTrue(),
			IsSystemDefault:   utils.NewTrue(),
			SystemDefaultCode: data.SystemDefaultCode,
		}

		if err := tx.WithContext(ctx).Create(&account).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	return nil
}
