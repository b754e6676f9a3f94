package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
)

type Module struct {
	ID         int       `gorm:"primary_key" json:"id"`
	BusinessId string    `gorm:"index;not null" json:"business_id" binding:"required"`
	Name       string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	Actions    string    `gorm:"not null" json:"actions" binding:"required"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewModule struct {
	Name    string `json:"name" binding:"required"`
	Actions string `json:"actions" binding:"required"`
}

func (m Module) GetBusinessId() string {
	return m.BusinessId
}

func (m Module) GetId() int {
	return m.ID
}

// get ids of roles related to this module / have access
func (module *Module) getRelatedRoleIds(ctx context.Context) ([]int, error) {
	var roleIds []int
	db := config.GetDB()

	err := db.WithContext(ctx).Model(&RoleModule{}).Select("role_id").
		Where("business_id = ? AND module_id = ?", module.BusinessId, module.ID).Scan(&roleIds).Error
	if err != nil {
		return nil, err
	}
	return roleIds, nil
}

func (input *NewModule) validate(ctx context.Context, businessId string, id int) error {
	// name
	if err := utils.ValidateUnique[Module](ctx, businessId, "name", input.Name, id); err != nil {
		return err
	}
	return nil
}

func CreateModule(ctx context.Context, input *NewModule) (*Module, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	module := Module{
		Name:       input.Name,
		BusinessId: businessId,
		Actions:    input.Actions,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&module).Error; err != nil {
		return nil, err
	}

	return &module, nil
}

func UpdateModule(ctx context.Context, id int, input *NewModule) (*Module, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	module, err := utils.FetchModel[Module](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&module).Updates(map[string]interface{}{
		"Name":    input.Name,
		"Actions": input.Actions,
	}).Error
	if err != nil {
		return nil, err
	}

	// permission caches of roles that reference the module are now stale
	roleIds, err := module.getRelatedRoleIds(ctx)
	if err != nil {
		return nil, err
	}
	for _, roleId := range roleIds {
		if err := clearRolePermissionCache(roleId); err != nil {
			return nil, err
		}
	}

	return module, nil
}

func DeleteModule(ctx context.Context, id int) (*Module, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	result, err := utils.FetchModel[Module](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	roleIds, err := result.getRelatedRoleIds(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Delete(&result).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// Delete role module
	err = tx.WithContext(ctx).Where("business_id = ? AND module_id = ?", result.BusinessId, id).Delete(&RoleModule{}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, roleId := range roleIds {
		if err := clearRolePermissionCache(roleId); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	return result, tx.Commit().Error
}

func GetModule(ctx context.Context, id int) (*Module, error) {
	return GetResource[Module](ctx, id)
}

func GetModules(ctx context.Context) ([]*Module, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var results []*Module
	err = db.WithContext(ctx).Where("business_id = ?", businessId).Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, errors.New("no modules found")
	}
	return results, nil
}
