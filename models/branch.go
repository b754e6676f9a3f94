package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"gorm.io/gorm"
)

type Branch struct {
	ID         int       `gorm:"primary_key" json:"id"`
	BusinessId string    `gorm:"index;not null" json:"business_id"`
	Name       string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	Phone      string    `gorm:"size:20" json:"phone"`
	Mobile     string    `gorm:"size:20" json:"mobile"`
	Address    string    `gorm:"type:text" json:"address"`
	Country    string    `gorm:"size:100"  json:"country"`
	City       string    `gorm:"size:100"  json:"city"`
	IsActive   *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBranch struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Mobile  string `json:"mobile"`
	Address string `json:"address"`
	Country string `json:"country"`
	City    string `json:"city"`
}

func (b Branch) GetBusinessId() string {
	return b.BusinessId
}

func (b Branch) GetId() int {
	return b.ID
}

// validate input for both create & update. (id = 0 for create)
func (input *NewBranch) validate(ctx context.Context, businessId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Branch](ctx, businessId, id); err != nil {
			return err
		}
	}
	// name
	if err := utils.ValidateUnique[Branch](ctx, businessId, "name", input.Name, id); err != nil {
		return err
	}
	// phone
	if len(strings.TrimSpace(input.Phone)) > 0 {
		if err := utils.ValidateUnique[Branch](ctx, businessId, "phone", input.Phone, id); err != nil {
			return err
		}
	}
	// mobile
	if len(strings.TrimSpace(input.Mobile)) > 0 {
		if err := utils.ValidateUnique[Branch](ctx, businessId, "mobile", input.Mobile, id); err != nil {
			return err
		}
	}
	return nil
}

func CreateBranch(ctx context.Context, input *NewBranch) (*Branch, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	branch := Branch{
		BusinessId: businessId,
		Name:       input.Name,
		Phone:      input.Phone,
		Mobile:     input.Mobile,
		Address:    input.Address,
		Country:    input.Country,
		City:       input.City,
		IsActive:   utils.NewTrue(),
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Create(&branch).Error
	if err != nil {
		return nil, err
	}

	// clear cached branch list
	if err := branch.RemoveAllRedis(); err != nil {
		return nil, err
	}

	return &branch, nil
}

// CreateDefaultBranch runs inside the business creation transaction.
func CreateDefaultBranch(tx *gorm.DB, ctx context.Context, input *NewBranch, businessId string) (*Branch, error) {

	branch := Branch{
		BusinessId: businessId,
		Name:       input.Name,
		IsActive:   utils.NewTrue(),
	}

	if err := tx.WithContext(ctx).Create(&branch).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

func UpdateBranch(ctx context.Context, id int, input *NewBranch) (*Branch, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	branch, err := utils.FetchModel[Branch](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Model(&branch).Updates(map[string]interface{}{
		"Name":    input.Name,
		"Phone":   input.Phone,
		"Mobile":  input.Mobile,
		"Address": input.Address,
		"Country": input.Country,
		"City":    input.City,
	}).Error
	if err != nil {
		return nil, err
	}

	// clear cache
	if err := RemoveRedisBoth(*branch); err != nil {
		return nil, err
	}

	return branch, nil
}

func DeleteBranch(ctx context.Context, id int) (*Branch, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	result, err := utils.FetchModel[Branch](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	// check if the branch is used
	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&Business{}).
		Where("id = ? AND primary_branch_id = ?", businessId, id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("cannot delete primary branch")
	}
	if err := db.WithContext(ctx).Model(&SaleTransaction{}).
		Where("branch_id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("branch has transactions")
	}
	if err := db.WithContext(ctx).Model(&StockSummary{}).
		Where("branch_id = ? AND current_qty > 0", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("branch has stock on hand")
	}

	// db action
	err = db.WithContext(ctx).Delete(&result).Error
	if err != nil {
		return nil, err
	}

	// clear cache
	if err := RemoveRedisBoth(*result); err != nil {
		return nil, err
	}

	return result, nil
}

func GetBranch(ctx context.Context, id int) (*Branch, error) {

	return GetResource[Branch](ctx, id)
}

func GetBranches(ctx context.Context, name *string) ([]*Branch, error) {
	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var results []*Branch

	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	// db query
	err = dbCtx.Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func ListAllBranches(ctx context.Context) ([]*AllBranch, error) {
	return ListAllResource[Branch, AllBranch](ctx, "name")
}

func ToggleActiveBranch(ctx context.Context, id int, isActive bool) (*Branch, error) {
	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !isActive {
		db := config.GetDB()
		var count int64
		if err := db.WithContext(ctx).Model(&Business{}).
			Where("id = ? AND primary_branch_id = ?", businessId, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, errors.New("cannot toggle primary branch inactive")
		}
	}
	return ToggleActiveModel[Branch](ctx, businessId, id, isActive)
}
