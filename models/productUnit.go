package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
)

type ProductUnit struct {
	ID           int       `gorm:"primary_key" json:"id"`
	BusinessId   string    `gorm:"index;not null" json:"business_id"`
	Name         string    `gorm:"size:20;not null" json:"name" binding:"required"`
	Abbreviation string    `gorm:"size:7;not null" json:"abbreviation" binding:"required"`
	Precision    Precision `gorm:"type:enum('0','1','2','3','4');default:'0';size:1;not null" json:"precision"`
	IsActive     *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProductUnit struct {
	Name         string    `json:"name" binding:"required"`
	Abbreviation string    `json:"abbreviation" binding:"required"`
	Precision    Precision `json:"precision"`
}

func (pu ProductUnit) GetBusinessId() string {
	return pu.BusinessId
}

func (pu ProductUnit) GetId() int {
	return pu.ID
}

func (input *NewProductUnit) validate(ctx context.Context, businessId string, id int) error {
	if err := utils.ValidateUnique[ProductUnit](ctx, businessId, "name", input.Name, id); err != nil {
		return err
	}
	if err := utils.ValidateUnique[ProductUnit](ctx, businessId, "abbreviation", input.Abbreviation, id); err != nil {
		return err
	}

	return nil
}

func CreateProductUnit(ctx context.Context, input *NewProductUnit) (*ProductUnit, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	if input.Precision == "" {
		input.Precision = PrecisionZero
	}

	unit := ProductUnit{
		BusinessId:   businessId,
		Name:         input.Name,
		Abbreviation: input.Abbreviation,
		Precision:    input.Precision,
		IsActive:     utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&unit).Error; err != nil {
		return nil, err
	}
	if err := unit.RemoveAllRedis(); err != nil {
		return nil, err
	}
	return &unit, nil
}

func UpdateProductUnit(ctx context.Context, id int, input *NewProductUnit) (*ProductUnit, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	unit, err := utils.FetchModel[ProductUnit](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&unit).Updates(map[string]interface{}{
		"Name":         input.Name,
		"Abbreviation": input.Abbreviation,
		"Precision":    input.Precision,
	}).Error
	if err != nil {
		return nil, err
	}
	if err := RemoveRedisBoth(*unit); err != nil {
		return nil, err
	}
	return unit, nil
}

func DeleteProductUnit(ctx context.Context, id int) (*ProductUnit, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	result, err := utils.FetchModel[ProductUnit](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	// don't delete if unit is used by a product
	count, err := utils.ResourceCountWhere[Product](ctx, businessId, "unit_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("used by product")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	if err := RemoveRedisBoth(*result); err != nil {
		return nil, err
	}
	return result, nil
}

func GetProductUnit(ctx context.Context, id int) (*ProductUnit, error) {

	return GetResource[ProductUnit](ctx, id)
}

func GetProductUnits(ctx context.Context, name *string) ([]*ProductUnit, error) {

	db := config.GetDB()
	var results []*ProductUnit

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func ListAllProductUnits(ctx context.Context) ([]*AllProductUnit, error) {
	return ListAllResource[ProductUnit, AllProductUnit](ctx, "name")
}

func ToggleActiveProductUnit(ctx context.Context, id int, isActive bool) (*ProductUnit, error) {
	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	return ToggleActiveModel[ProductUnit](ctx, businessId, id, isActive)
}
