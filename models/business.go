package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/google/uuid"
)

type Business struct {
	ID              uuid.UUID  `gorm:"primary_key" json:"id"`
	LogoUrl         string     `json:"logo_url"`
	Name            string     `gorm:"index;size:100;not null" json:"name" binding:"required"`
	ContactName     string     `gorm:"size:100" json:"contact_name"`
	Email           string     `gorm:"size:255" json:"email"`
	Phone           string     `gorm:"size:20" json:"phone"`
	Mobile          string     `gorm:"size:20" json:"mobile"`
	Website         string     `gorm:"size:255" json:"website"`
	About           string     `gorm:"type:text" json:"about"`
	Address         string     `gorm:"type:text" json:"address"`
	Country         string     `gorm:"size:100"  json:"country"`
	City            string     `gorm:"size:100"  json:"city"`
	FiscalYear      FiscalYear `gorm:"type:enum('Jan', 'Feb', 'Mar', 'Apr', 'May', 'Jun', 'Jul', 'Aug', 'Sep', 'Oct', 'Nov', 'Dec')" json:"fiscal_year"`
	Timezone        string     `gorm:"size:50" json:"timezone"`
	CurrencySymbol  string     `gorm:"size:10;default:'Ks'" json:"currency_symbol"`
	CompanyId       string     `gorm:"size:100" json:"company_id"`
	TaxId           string     `gorm:"size:100" json:"tax_id"`
	ReceiptFooter   string     `gorm:"type:text" json:"receipt_footer"`

	// transactions dated on or before a lock date can no longer be
	// created, voided or posted
	SalesTransactionLockDate      *time.Time `json:"sales_transaction_lock_date"`
	PurchaseTransactionLockDate   *time.Time `json:"purchase_transaction_lock_date"`
	AccountingTransactionLockDate *time.Time `json:"accounting_transaction_lock_date"`

	PrimaryBranchId int        `gorm:"not null" json:"primary_branch_id"`
	IsActive        *bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBusiness struct {
	LogoUrl        string     `json:"logo_url"`
	Name           string     `json:"name" binding:"required"`
	ContactName    string     `json:"contact_name"`
	Email          string     `json:"email" binding:"required"`
	Phone          string     `json:"phone"`
	Mobile         string     `json:"mobile"`
	Website        string     `json:"website"`
	About          string     `json:"about"`
	Address        string     `json:"address"`
	Country        string     `json:"country"`
	City           string     `json:"city"`
	FiscalYear     FiscalYear `json:"fiscal_year"`
	Timezone       string     `json:"timezone"`
	CurrencySymbol string     `json:"currency_symbol"`
	CompanyId      string     `json:"company_id"`
	TaxId          string     `json:"tax_id"`
	ReceiptFooter  string     `json:"receipt_footer"`

	SalesTransactionLockDate      *time.Time `json:"sales_transaction_lock_date"`
	PurchaseTransactionLockDate   *time.Time `json:"purchase_transaction_lock_date"`
	AccountingTransactionLockDate *time.Time `json:"accounting_transaction_lock_date"`
}

func (business *Business) StoreRedis() error {
	return config.SetRedisObject("Business:"+fmt.Sprint(business.ID), business, 0)
}

func (business *Business) RemoveRedis() error {
	return config.RemoveRedisKey("Business:" + fmt.Sprint(business.ID))
}

func (input *NewBusiness) validate(ctx context.Context, id string) error {
	// name
	if err := utils.ValidateUnique[Business](ctx, "", "name", input.Name, id); err != nil {
		return err
	}
	// email
	if !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email")
	}
	if err := utils.ValidateUnique[Business](ctx, "", "email", input.Email, id); err != nil {
		return err
	}
	// phone
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return errors.New("invalid phone number")
		}
		if err := utils.ValidateUnique[Business](ctx, "", "phone", input.Phone, id); err != nil {
			return err
		}
	}
	// mobile
	if input.Mobile != "" {
		if err := utils.ValidatePhoneNumber(input.Mobile, utils.CountryCode); err != nil {
			return errors.New("invalid mobile number")
		}
		if err := utils.ValidateUnique[Business](ctx, "", "mobile", input.Mobile, id); err != nil {
			return err
		}
	}
	return nil
}

func CreateBusiness(ctx context.Context, input *NewBusiness) (*Business, error) {
	// When creating a business,
	// - create default chart of accounts
	// - create modules
	// - create 'Owner' user and 'Admin' role
	// - create primary branch and default payment modes
	if err := input.validate(ctx, ""); err != nil {
		return nil, err
	}
	db := config.GetDB()

	tx := db.Begin()

	BID := uuid.New()
	timezone := "Asia/Yangon"
	if input.Timezone != "" {
		timezone = input.Timezone
	}

	// Defaults to satisfy MySQL enum constraints.
	// If these are empty, MySQL will error with "Data truncated for column ...".
	fiscalYear := input.FiscalYear
	if fiscalYear == "" {
		fiscalYear = FiscalYearJan
	}
	currencySymbol := input.CurrencySymbol
	if currencySymbol == "" {
		currencySymbol = "Ks"
	}

	business := Business{
		ID:             BID,
		LogoUrl:        input.LogoUrl,
		Name:           input.Name,
		ContactName:    input.ContactName,
		Email:          input.Email,
		Phone:          input.Phone,
		Mobile:         input.Mobile,
		Website:        input.Website,
		About:          input.About,
		Address:        input.Address,
		Country:        input.Country,
		City:           input.City,
		FiscalYear:     fiscalYear,
		Timezone:       timezone,
		CurrencySymbol: currencySymbol,
		CompanyId:      input.CompanyId,
		TaxId:          input.TaxId,
		ReceiptFooter:  input.ReceiptFooter,

		SalesTransactionLockDate:      input.SalesTransactionLockDate,
		PurchaseTransactionLockDate:   input.PurchaseTransactionLockDate,
		AccountingTransactionLockDate: input.AccountingTransactionLockDate,

		IsActive: utils.NewTrue(),
	}

	// create business
	err := tx.WithContext(ctx).Create(&business).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	businessId := business.ID.String()
	ctx = context.WithValue(ctx, utils.ContextKeyBusinessId, businessId)

	// create modules for business
	modules, err := CreateDefaultModules(tx, ctx, businessId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	owner, err := CreateDefaultOwner(tx, ctx, businessId, business.Email, business.Name)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// gives permission to owner
	for _, module := range modules {
		roleModule := RoleModule{
			BusinessId:     businessId,
			RoleId:         owner.RoleId,
			ModuleId:       module.ID,
			AllowedActions: module.Actions,
		}
		if err := tx.WithContext(ctx).Create(&roleModule).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	// Create Primary Branch
	branchInput := &NewBranch{
		Name: "Primary Branch",
	}
	branch, err := CreateDefaultBranch(tx, ctx, branchInput, businessId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// assign owner to primary branch
	if err := tx.WithContext(ctx).Model(&User{}).Where("id = ?", owner.ID).
		UpdateColumn("branch_id", branch.ID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// Create Default Payment Modes
	if err := CreateDefaultPaymentModes(tx, ctx, businessId); err != nil {
		tx.Rollback()
		return nil, err
	}

	// Create Default Chart of Accounts
	if err := CreateDefaultAccounts(tx, ctx, businessId); err != nil {
		tx.Rollback()
		return nil, err
	}

	// Update Primary Branch
	err = tx.WithContext(ctx).Model(&business).Updates(map[string]interface{}{
		"PrimaryBranchId": branch.ID,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err = tx.Commit().Error; err != nil {
		return nil, err
	}

	return &business, nil
}

func UpdateBusiness(ctx context.Context, input *NewBusiness) (*Business, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.validate(ctx, businessId); err != nil {
		return nil, err
	}

	// db action
	db := config.GetDB()
	var business Business
	if err := db.WithContext(ctx).Where("id = ?", businessId).First(&business).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	err = db.WithContext(ctx).Model(&business).Updates(map[string]interface{}{
		"LogoUrl":        input.LogoUrl,
		"Name":           input.Name,
		"ContactName":    input.ContactName,
		"Email":          input.Email,
		"Phone":          input.Phone,
		"Mobile":         input.Mobile,
		"Website":        input.Website,
		"About":          input.About,
		"Address":        input.Address,
		"Country":        input.Country,
		"City":           input.City,
		"FiscalYear":     input.FiscalYear,
		"CurrencySymbol": input.CurrencySymbol,
		"CompanyId":      input.CompanyId,
		"TaxId":          input.TaxId,
		"ReceiptFooter":  input.ReceiptFooter,

		"SalesTransactionLockDate":      input.SalesTransactionLockDate,
		"PurchaseTransactionLockDate":   input.PurchaseTransactionLockDate,
		"AccountingTransactionLockDate": input.AccountingTransactionLockDate,
	}).Error
	if err != nil {
		return nil, err
	}

	// caching
	if err := business.RemoveRedis(); err != nil {
		return nil, err
	}
	return &business, nil
}

func GetBusinessById(ctx context.Context, id string) (*Business, error) {

	var result Business

	exists, err := config.GetRedisObject("Business:"+id, &result)
	if err != nil {
		return nil, err
	}

	if !exists {
		db := config.GetDB()
		// db query
		err := db.WithContext(ctx).Where("id = ?", id).First(&result).Error
		if err != nil {
			return nil, utils.ErrorRecordNotFound
		}
		// caching
		if err := result.StoreRedis(); err != nil {
			return nil, err
		}
	}
	return &result, nil
}

func GetBusiness(ctx context.Context) (*Business, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return GetBusinessById(ctx, businessId)
}

func ToggleActiveBusiness(ctx context.Context, id uuid.UUID, isActive bool) (*Business, error) {

	db := config.GetDB()
	var result Business

	// check exists
	err := db.WithContext(ctx).Where("id = ?", id).First(&result).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	// db action
	tx := db.Begin()
	err = tx.WithContext(ctx).Model(&result).Updates(map[string]interface{}{
		"IsActive": isActive,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// toggling related users
	err = tx.WithContext(ctx).Model(&User{}).Where("business_id = ?", id).Updates(map[string]interface{}{
		"IsActive": isActive,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// caching
	if err := result.RemoveRedis(); err != nil {
		tx.Rollback()
		return nil, err
	}

	return &result, tx.Commit().Error
}

func (b Business) GetBusinessId() string {
	return b.ID.String()
}

// checkTransactionLock rejects a transaction dated on or before the lock date.
func checkTransactionLock(lockDate *time.Time, txDate time.Time, kind string) error {
	if lockDate == nil || lockDate.IsZero() {
		return nil
	}
	if !txDate.After(*lockDate) {
		return fmt.Errorf("%s transactions are locked through %s", kind, lockDate.Format("2006-01-02"))
	}
	return nil
}

func CheckSalesTransactionLock(ctx context.Context, txDate time.Time) error {
	business, err := GetBusiness(ctx)
	if err != nil {
		return err
	}
	return checkTransactionLock(business.SalesTransactionLockDate, txDate, "sales")
}

func CheckPurchaseTransactionLock(ctx context.Context, txDate time.Time) error {
	business, err := GetBusiness(ctx)
	if err != nil {
		return err
	}
	return checkTransactionLock(business.PurchaseTransactionLockDate, txDate, "purchase")
}

func CheckAccountingTransactionLock(ctx context.Context, txDate time.Time) error {
	business, err := GetBusiness(ctx)
	if err != nil {
		return err
	}
	return checkTransactionLock(business.AccountingTransactionLockDate, txDate, "accounting")
}
