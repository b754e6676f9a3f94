package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"gorm.io/gorm"
)

type ProductCategory struct {
	ID               int       `gorm:"primary_key" json:"id"`
	BusinessId       string    `gorm:"index;not null" json:"business_id"`
	Name             string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	ParentCategoryId int       `gorm:"index;not null" json:"parent_category_id"`
	IsActive         *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProductCategory struct {
	Name             string `json:"name" binding:"required"`
	ParentCategoryId int    `json:"parent_category_id"`
}

func (pc ProductCategory) GetBusinessId() string {
	return pc.BusinessId
}

func (pc ProductCategory) GetId() int {
	return pc.ID
}

// get ids of associated products
func (pc ProductCategory) ProductIds(ctx context.Context) (ids []int, err error) {
	db := config.GetDB()
	err = db.WithContext(ctx).Model(&Product{}).
		Where("category_id = ?", pc.ID).
		Select("id").Scan(&ids).Error
	return
}

// validate input for both create & update. (id = 0 for create)

func (input *NewProductCategory) validate(ctx context.Context, businessId string, id int) error {
	if id > 0 {
		if id == input.ParentCategoryId {
			return errors.New("self-parent not allowed")
		}
	}
	// name
	if err := utils.ValidateUnique[ProductCategory](ctx, businessId, "name", input.Name, id); err != nil {
		return err
	}
	// parent category
	if input.ParentCategoryId > 0 {
		if err := utils.ValidateResourceId[ProductCategory](ctx, businessId, input.ParentCategoryId); err != nil {
			return errors.New("parent not found")
		}
	}
	return nil
}

func CreateProductCategory(ctx context.Context, input *NewProductCategory) (*ProductCategory, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	category := ProductCategory{
		BusinessId:       businessId,
		Name:             input.Name,
		ParentCategoryId: input.ParentCategoryId,
		IsActive:         utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	if err := category.RemoveAllRedis(); err != nil {
		return nil, err
	}

	return &category, nil
}

func UpdateProductCategory(ctx context.Context, id int, input *NewProductCategory) (*ProductCategory, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	category, err := utils.FetchModel[ProductCategory](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&category).Updates(map[string]interface{}{
		"Name":             input.Name,
		"ParentCategoryId": input.ParentCategoryId,
	}).Error
	if err != nil {
		return nil, err
	}
	if err := RemoveRedisBoth(*category); err != nil {
		return nil, err
	}
	return category, nil
}

func DeleteProductCategory(ctx context.Context, id int) (*ProductCategory, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	result, err := utils.FetchModel[ProductCategory](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	// don't delete if category has children
	count, err := utils.ResourceCountWhere[ProductCategory](ctx, businessId, "parent_category_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("category has children")
	}

	// don't delete if category is used by a product
	count, err = utils.ResourceCountWhere[Product](ctx, businessId, "category_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("used by product")
	}

	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	if err := RemoveRedisBoth(*result); err != nil {
		return nil, err
	}

	return result, nil
}

func GetProductCategory(ctx context.Context, id int) (*ProductCategory, error) {

	return GetResource[ProductCategory](ctx, id)
}

func GetProductCategories(ctx context.Context, name *string) ([]*ProductCategory, error) {

	db := config.GetDB()
	var results []*ProductCategory

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

func ListAllProductCategories(ctx context.Context) ([]*AllProductCategory, error) {
	return ListAllResource[ProductCategory, AllProductCategory](ctx, "name")
}

func ToggleActiveProductCategory(ctx context.Context, id int, isActive bool) (*ProductCategory, error) {
	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var category ProductCategory
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("business_id = ? AND id = ?", businessId, id).First(&category).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(&category).Updates(map[string]interface{}{
		"is_active": isActive,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := toggleChildrenCategories(ctx, tx, id, isActive); err != nil {
		tx.Rollback()
		return &category, err
	}
	if err := RemoveRedisBoth(category); err != nil {
		return nil, err
	}

	return &category, tx.Commit().Error
}

// toggle children of the parent recursively, parent is assumed to have toggled
func toggleChildrenCategories(ctx context.Context, tx *gorm.DB, parentId int, isActive bool) error {
	var childrenIds []int
	if err := tx.WithContext(ctx).
		Model(&ProductCategory{}).
		Where("parent_category_id = ?", parentId).
		Select("id").
		Scan(&childrenIds).Error; err != nil {
		return err
	}

	// break when parent has no children
	if len(childrenIds) == 0 {
		return nil
	}

	if err := tx.WithContext(ctx).Model(&ProductCategory{}).
		Where("id IN ?", childrenIds).Updates(map[string]interface{}{
		"is_active": isActive,
	}).Error; err != nil {
		return err
	}

	for _, childId := range childrenIds {
		// each child becomes a parent
		if err := toggleChildrenCategories(ctx, tx, childId, isActive); err != nil {
			return err
		}
	}
	return nil
}
