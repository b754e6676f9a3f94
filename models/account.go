package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"gorm.io/gorm"
)

type Account struct {
	ID                int               `gorm:"primary_key" json:"id"`
	BusinessId        string            `gorm:"index;not null" json:"business_id"`
	DetailType        AccountDetailType `gorm:"type:enum('Cash','Bank','Stock','AccountsReceivable','OtherCurrentAsset','FixedAsset','AccountsPayable','OtherCurrentLiability','Equity','Income','OtherIncome','Expense','CostOfGoodsSold');default:'Expense';index;size:50;not null" json:"detail_type" binding:"required"`
	MainType          AccountMainType   `gorm:"type:enum('Asset','Liability','Equity','Income','Expense');default:'Expense';index;size:10;not null" json:"main_type"`
	Name              string            `gorm:"index;size:100;not null" json:"name" binding:"required"`
	Code              string            `gorm:"size:100" json:"code"`
	Description       string            `gorm:"type:text" json:"description"`
	ParentAccountId   int               `gorm:"index;not null" json:"parent_account_id"`
	IsActive          *bool             `gorm:"not null;default:true" json:"is_active"`
	IsSystemDefault   *bool             `gorm:"not null;default:false" json:"is_system_default"`
	SystemDefaultCode string            `gorm:"index;size:3" json:"system_default_code"`
	CreatedAt         time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAccount struct {
	DetailType      AccountDetailType `json:"detail_type" binding:"required"`
	Name            string            `json:"name" binding:"required"`
	Code            string            `json:"code"`
	Description     string            `json:"description"`
	ParentAccountId int               `json:"parent_account_id"`
}

type NewSystemAccount struct {
	DetailType        AccountDetailType `json:"detail_type" binding:"required"`
	Name              string            `json:"name" binding:"required"`
	Description       string            `json:"description"`
	SystemDefaultCode string            `json:"system_default_code"`
}

func (account Account) GetBusinessId() string {
	return account.BusinessId
}

func (account Account) GetId() int {
	return account.ID
}

// validate input for both create & update. (id = 0 for create)

func (input *NewAccount) validate(ctx context.Context, businessId string, id int) error {
	if id > 0 {
		if id == input.ParentAccountId {
			return errors.New("self-parent not allowed")
		}
		if err := utils.ValidateResourceId[Account](ctx, businessId, id); err != nil {
			return err
		}
	}
	// name
	if err := utils.ValidateUnique[Account](ctx, businessId, "name", input.Name, id); err != nil {
		return err
	}
	// code
	if input.Code != "" {
		if err := utils.ValidateUnique[Account](ctx, businessId, "code", input.Code, id); err != nil {
			return err
		}
	}

	if input.ParentAccountId > 0 {
		if err := utils.ValidateResourceId[Account](ctx, businessId, input.ParentAccountId); err != nil {
			return errors.New("parent not found")
		}
	}
	return nil
}

func CreateAccount(ctx context.Context, input *NewAccount) (*Account, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	account := Account{
		BusinessId:      businessId,
		DetailType:      input.DetailType,
		MainType:        input.DetailType.MainType(),
		Name:            input.Name,
		Code:            input.Code,
		Description:     input.Description,
		ParentAccountId: input.ParentAccountId,
		IsActive:        utils.NewTrue(),
		IsSystemDefault: utils.NewFalse(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, err
	}
	if err := account.RemoveAllRedis(); err != nil {
		return nil, err
	}
	return &account, nil
}

func UpdateAccount(ctx context.Context, id int, input *NewAccount) (*Account, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	account, err := utils.FetchModel[Account](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"Name":        input.Name,
		"Code":        input.Code,
		"Description": input.Description,
	}

	// system accounts keep their classification
	if !*account.IsSystemDefault {
		updates["DetailType"] = input.DetailType
		updates["MainType"] = input.DetailType.MainType()
		if input.ParentAccountId > 0 {
			updates["ParentAccountId"] = input.ParentAccountId
		}
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&account).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := RemoveRedisBoth(*account); err != nil {
		return nil, err
	}

	return account, nil
}

func MarkAccountActive(ctx context.Context, id int, isActive bool) (*Account, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var main *Account

	if err := db.WithContext(ctx).Where("business_id = ?", businessId).First(&main, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if main.IsSystemDefault != nil && *main.IsSystemDefault && !isActive {
		return nil, errors.New("cannot deactivate system-default account")
	}
	tx := db.Begin()
	if err := markChildAccountsActive(tx, ctx, main, isActive); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := RemoveRedisBoth(*main); err != nil {
		return nil, err
	}
	return main, tx.Commit().Error
}

func markChildAccountsActive(tx *gorm.DB, ctx context.Context, main *Account, isActive bool) error {
	err := tx.WithContext(ctx).Model(&main).Updates(Account{
		IsActive: &isActive,
	}).Error
	if err != nil {
		return err
	}

	// find & update child accounts
	var children []*Account
	err = tx.WithContext(ctx).Where("parent_account_id = ?", main.ID).Find(&children).Error
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := markChildAccountsActive(tx, ctx, child, isActive); err != nil {
			return err
		}
	}
	return nil
}

func DeleteAccount(ctx context.Context, id int) (*Account, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()

	result, err := utils.FetchModel[Account](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	if result.IsSystemDefault != nil && *result.IsSystemDefault {
		return nil, errors.New("cannot delete system-default account")
	}

	var count int64
	if err := db.WithContext(ctx).Model(&Account{}).
		Where("parent_account_id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("this account has child account(s)")
	}

	if err := db.WithContext(ctx).Model(&JournalTransaction{}).
		Where("account_id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("this account has transactions")
	}

	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	if err := RemoveRedisBoth(*result); err != nil {
		return nil, err
	}

	return result, nil
}

func GetAccount(ctx context.Context, id int) (*Account, error) {

	return GetResource[Account](ctx, id)
}

func GetAccounts(ctx context.Context, name *string, code *string, mainType *AccountMainType) ([]*Account, error) {

	db := config.GetDB()
	var results []*Account

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if code != nil && len(*code) > 0 {
		dbCtx = dbCtx.Where("code LIKE ?", "%"+*code+"%")
	}
	if mainType != nil && len(*mainType) > 0 {
		dbCtx = dbCtx.Where("main_type = ?", *mainType)
	}
	if err := dbCtx.Order("main_type").Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func ListAllAccounts(ctx context.Context) ([]*AllAccount, error) {
	return ListAllResource[Account, AllAccount](ctx, "name")
}

// system account ids keyed by their short code, cached per business
func GetSystemAccounts(businessId string) (map[string]int, error) {
	var accounts []*Account
	var sysAccounts map[string]int

	exists, err := config.GetRedisObject("SystemAccounts:"+businessId, &sysAccounts)
	if err != nil {
		return nil, err
	}
	if !exists {
		db := config.GetDB()
		if err := db.Select("id", "system_default_code").
			Where("business_id = ?", businessId).
			Where("is_system_default = ?", true).Find(&accounts).Error; err != nil {
			return nil, err
		}
		sysAccounts = make(map[string]int)
		for _, acc := range accounts {
			sysAccounts[acc.SystemDefaultCode] = acc.ID
		}
		if err := config.SetRedisObject("SystemAccounts:"+businessId, &sysAccounts, 0); err != nil {
			return nil, err
		}
	}
	return sysAccounts, nil
}
