package models

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
)

type Role struct {
	ID          int           `gorm:"primary_key" json:"id"`
	BusinessId  string        `gorm:"index;not null" json:"business_id" binding:"required"`
	Name        string        `gorm:"index;size:100;not null" json:"name" binding:"required"`
	Code        UserRole      `gorm:"type:enum('A','M','C');default:'C'" json:"code"`
	RoleModules []*RoleModule `gorm:"foreignKey:RoleId" json:"role_modules"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

type RoleModule struct {
	ID             int       `gorm:"primary_key" json:"id"`
	BusinessId     string    `gorm:"index;not null" json:"business_id"`
	RoleId         int       `gorm:"index;not null" json:"role_id"`
	ModuleId       int       `gorm:"index;not null" json:"module_id"`
	Module         Module    `gorm:"foreignKey:ModuleId" json:"module"`
	AllowedActions string    `gorm:"not null" json:"allowed_actions"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewRole struct {
	Name           string              `json:"name" binding:"required"`
	Code           UserRole            `json:"code"`
	AllowedModules []*NewAllowedModule `json:"allowed_modules"`
}

type NewAllowedModule struct {
	ModuleID       int    `json:"moduleId"`
	AllowedActions string `json:"allowedActions"`
}

func (r Role) GetBusinessId() string {
	return r.BusinessId
}

func (r Role) GetId() int {
	return r.ID
}

func extractModuleActions(s string) []string {
	return strings.Split(strings.ToLower(s), ";")
}

func rolePermissionCacheKey(roleId int) string {
	return "RolePermissions:" + fmt.Sprint(roleId)
}

func clearRolePermissionCache(roleId int) error {
	return config.RemoveRedisKey(rolePermissionCacheKey(roleId))
}

// GetPermissionsFromRole retrieves the allowed "module|action" set for a role,
// redis or db, cache result.
func GetPermissionsFromRole(ctx context.Context, roleId int) (map[string]bool, error) {

	allowedPaths := make(map[string]bool, 0)
	exists, err := config.GetRedisObject(rolePermissionCacheKey(roleId), &allowedPaths)
	if err != nil {
		return nil, err
	}
	if exists {
		return allowedPaths, nil
	}

	db := config.GetDB()
	var role Role
	if err := db.WithContext(ctx).Preload("RoleModules").Preload("RoleModules.Module").Where("id = ?", roleId).First(&role).Error; err != nil {
		return nil, err
	}

	for _, permission := range role.RoleModules {
		validActions := extractModuleActions(permission.Module.Actions)
		allowedActions := extractModuleActions(permission.AllowedActions)
		module := permission.Module.Name

		for _, action := range allowedActions {
			// check if the action is valid
			if slices.Contains(validActions, action) {
				allowedPaths[module+"|"+action] = true
			}
		}
	}

	if err := config.SetRedisObject(rolePermissionCacheKey(roleId), &allowedPaths, 0); err != nil {
		return nil, err
	}
	return allowedPaths, nil
}

func mapRoleModules(ctx context.Context, businessId string, input []*NewAllowedModule) ([]*RoleModule, error) {

	availableModuleActions := make(map[int]string, 0) // moduleId:actions
	var modules []Module
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("business_id = ?", businessId).Find(&modules).Error; err != nil {
		return nil, err
	}
	for _, m := range modules {
		availableModuleActions[m.ID] = m.Actions
	}

	var roleModules []*RoleModule
	for _, permission := range input {

		availableActionsString, ok := availableModuleActions[permission.ModuleID]
		if !ok || availableActionsString == "" {
			return nil, errors.New("module_id not found")
		}
		availableActions := extractModuleActions(availableActionsString)
		inputActions := extractModuleActions(permission.AllowedActions)
		for _, action := range inputActions {
			if !slices.Contains(availableActions, action) {
				return nil, errors.New("invalid module action")
			}
		}

		roleModules = append(roleModules, &RoleModule{
			BusinessId:     businessId,
			ModuleId:       permission.ModuleID,
			AllowedActions: permission.AllowedActions,
		})
	}
	return roleModules, nil
}

func (input *NewRole) validate(ctx context.Context, businessId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Role](ctx, businessId, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateUnique[Role](ctx, businessId, "name", input.Name, id); err != nil {
		return err
	}
	return nil
}

func CreateRole(ctx context.Context, input *NewRole) (*Role, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	roleModules, err := mapRoleModules(ctx, businessId, input.AllowedModules)
	if err != nil {
		return nil, err
	}

	code := input.Code
	if code == "" {
		code = UserRoleCashier
	}

	role := Role{
		BusinessId:  businessId,
		Name:        input.Name,
		Code:        code,
		RoleModules: roleModules,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&role).Error; err != nil {
		return nil, err
	}

	if err := role.RemoveAllRedis(); err != nil {
		return nil, err
	}

	return &role, nil
}

func UpdateRole(ctx context.Context, id int, input *NewRole) (*Role, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	role, err := utils.FetchModel[Role](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	roleModules, err := mapRoleModules(ctx, businessId, input.AllowedModules)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	err = tx.WithContext(ctx).Model(&role).Updates(map[string]interface{}{
		"Name": input.Name,
		"Code": input.Code,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// replace role modules
	if err := tx.WithContext(ctx).Where("business_id = ? AND role_id = ?", businessId, id).Delete(&RoleModule{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, rm := range roleModules {
		rm.RoleId = id
		if err := tx.WithContext(ctx).Create(rm).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := RemoveRedisBoth(*role); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := clearRolePermissionCache(id); err != nil {
		tx.Rollback()
		return nil, err
	}

	return role, tx.Commit().Error
}

func DeleteRole(ctx context.Context, id int) (*Role, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	result, err := utils.FetchModel[Role](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	// check role is not assigned
	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&User{}).Where("business_id = ? AND role_id = ?", businessId, id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("role is assigned to users")
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Delete(&result).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Where("business_id = ? AND role_id = ?", businessId, id).Delete(&RoleModule{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := RemoveRedisBoth(*result); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := clearRolePermissionCache(id); err != nil {
		tx.Rollback()
		return nil, err
	}

	return result, tx.Commit().Error
}

func GetRole(ctx context.Context, id int) (*Role, error) {
	return GetResource[Role](ctx, id, "RoleModules")
}

func GetRoles(ctx context.Context) ([]*Role, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var results []*Role
	err = db.WithContext(ctx).Preload("RoleModules").Where("business_id = ?", businessId).Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func ListAllRoles(ctx context.Context) ([]*AllRole, error) {
	return ListAllResource[Role, AllRole](ctx, "name")
}
