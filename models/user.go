package models

import (
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID         int       `gorm:"primary_key" json:"id"`
	BusinessId string    `gorm:"index" json:"business_id"`
	BranchId   int       `gorm:"index" json:"branch_id"`
	Username   string    `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	Name       string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email      *string   `gorm:"size:100;unique" json:"email"`
	Phone      string    `gorm:"size:20" json:"phone"`
	Mobile     string    `gorm:"size:20" json:"mobile"`
	ImageUrl   string    `json:"image_url"`
	Password   string    `gorm:"size:255;not null" json:"password"`
	IsActive   *bool     `gorm:"not null" json:"is_active"`
	RoleId     int       `gorm:"not null;default:0" json:"role_id"`
	Role       UserRole  `gorm:"type:enum('A','M','C');default:'C'" json:"role"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	BranchId int      `json:"branch_id"`
	Username string   `json:"username" binding:"required"`
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Mobile   string   `json:"mobile"`
	ImageUrl string   `json:"image_url"`
	Password string   `json:"password" binding:"required"`
	IsActive *bool    `json:"is_active" binding:"required"`
	RoleId   int      `json:"role_id"`
	Role     UserRole `json:"role" binding:"required"`
}

/*
caches:
	User:$username
	Token:$token
	Tokens:$username
*/

func (user User) GetBusinessId() string {
	return user.BusinessId
}

func (user User) GetId() int {
	return user.ID
}

type LoginInfo struct {
	Token        string          `json:"token"`
	Name         string          `json:"name"`
	Role         UserRole        `json:"role"`
	RoleName     string          `json:"role_name"`
	Modules      []AllowedModule `json:"modules"`
	BranchId     int             `json:"branch_id"`
	BusinessId   string          `json:"business_id"`
	BusinessName string          `json:"business_name"`
	FiscalYear   FiscalYear      `json:"fiscal_year"`
	Timezone     string          `json:"timezone"`
}

type AllowedModule struct {
	ModuleName     string `json:"module_name"`
	AllowedActions string `json:"allowed_actions"`
}

func (result *User) PrepareGive() {
	result.Password = ""
}

// destroy current session
func Logout(ctx context.Context) (bool, error) {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return false, errors.New("token is required")
	}
	err := config.RemoveRedisKey("Token:" + fmt.Sprint(token))
	if err != nil {
		return false, nil
	}
	// remove current token from tokens list
	username, ok := utils.GetUsernameFromContext(ctx)
	if !ok || username == "" {
		return false, errors.New("user not found")
	}
	if err := config.RemoveRedisSetMember("Tokens:"+username, token); err != nil {
		return false, err
	}
	return true, nil
}

func Login(ctx context.Context, username string, password string) (*LoginInfo, error) {

	db := config.GetDB()
	var err error
	var result LoginInfo

	user := User{}

	// get User info
	exists, err := config.GetRedisObject("User:"+username, &user)
	if err != nil {
		return &result, err
	}
	if !exists {
		err = db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error

		if err != nil {
			return &result, errors.New("invalid username or password")
		}
	}

	// check login credentials
	err = utils.ComparePassword(user.Password, password)

	if err != nil && err == bcrypt.ErrMismatchedHashAndPassword {
		return &result, errors.New("invalid username or password")
	}

	isActive := *user.IsActive
	if !isActive {
		return &result, errors.New("user is disabled")
	}

	// generate token & response
	token := uuid.New()
	result.Token = token.String()
	result.Name = user.Name
	result.Role = user.Role
	result.BranchId = user.BranchId
	result.BusinessId = user.BusinessId

	if user.RoleId > 0 {
		var userRole Role
		if err := db.WithContext(ctx).Model(&Role{}).
			Preload("RoleModules").Preload("RoleModules.Module").
			Where("id = ?", user.RoleId).First(&userRole, user.RoleId).Error; err != nil {
			return nil, err
		}
		result.RoleName = userRole.Name
		var allowedModules []AllowedModule
		for _, rm := range userRole.RoleModules {
			allowedModules = append(allowedModules, AllowedModule{
				ModuleName:     rm.Module.Name,
				AllowedActions: rm.AllowedActions,
			})
		}
		result.Modules = allowedModules
	}

	if user.BusinessId != "" {
		var business Business
		if err := db.WithContext(ctx).Model(&Business{}).Where("id = ?", user.BusinessId).First(&business).Error; err != nil {
			return nil, err
		}
		result.BusinessName = business.Name
		result.FiscalYear = business.FiscalYear
		result.Timezone = business.Timezone
	}

	// store session in redis
	token_lifespan, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
	if err != nil {
		return &result, err
	}

	session := utils.Session{
		Username:   user.Username,
		UserId:     user.ID,
		Name:       user.Name,
		Role:       string(user.Role),
		BusinessId: user.BusinessId,
		BranchId:   user.BranchId,
	}

	// add new token to the user's tokens set
	if err := config.AddRedisSet("Tokens:"+user.Username, token.String()); err != nil {
		return nil, err
	}
	if err := config.SetRedisObject("Token:"+token.String(), &session, time.Duration(token_lifespan)*time.Hour); err != nil {
		return &result, err
	}

	return &result, nil
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var count int64

	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return nil, errors.New("invalid email address")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return nil, errors.New("invalid phone number")
		}
	}
	if input.Mobile != "" {
		if err := utils.ValidatePhoneNumber(input.Mobile, utils.CountryCode); err != nil {
			return nil, errors.New("invalid mobile number")
		}
	}

	err = db.WithContext(ctx).Model(&User{}).Where("username = ?", input.Username).Or("email = ?", input.Email).Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("duplicate username or email")
	}

	if input.BranchId > 0 {
		if err := utils.ValidateResourceId[Branch](ctx, businessId, input.BranchId); err != nil {
			return nil, errors.New("branch not found")
		}
	}
	if input.RoleId > 0 {
		if err := utils.ValidateResourceId[Role](ctx, businessId, input.RoleId); err != nil {
			return nil, errors.New("role not found")
		}
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	input.Email = strings.ToLower(input.Email)

	user := User{
		Username:   html.EscapeString(strings.TrimSpace(input.Username)),
		BusinessId: businessId,
		BranchId:   input.BranchId,
		Name:       input.Name,
		Email:      utils.NilIfEmpty(input.Email),
		Phone:      input.Phone,
		Mobile:     input.Mobile,
		ImageUrl:   input.ImageUrl,
		Password:   string(hashedPassword),
		IsActive:   input.IsActive,
		Role:       input.Role,
		RoleId:     input.RoleId,
	}

	err = db.WithContext(ctx).Create(&user).Error
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return &user, nil
}

func UpdateUser(ctx context.Context, id int, input *NewUser) (*User, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).Where("business_id = ?", businessId).First(&user, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	var count int64
	if err = db.WithContext(ctx).Model(&User{}).
		Where("username = ? OR email = ?", input.Username, input.Email).
		Not("id = ?", id).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("duplicate email or username")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return nil, errors.New("invalid phone number")
		}
	}
	if input.Mobile != "" {
		if err := utils.ValidatePhoneNumber(input.Mobile, utils.CountryCode); err != nil {
			return nil, errors.New("invalid mobile number")
		}
	}

	if input.BranchId > 0 {
		if err := utils.ValidateResourceId[Branch](ctx, businessId, input.BranchId); err != nil {
			return nil, errors.New("branch not found")
		}
	}

	err = db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"Username": html.EscapeString(strings.TrimSpace(input.Username)),
		"Name":     input.Name,
		"Email":    utils.NilIfEmpty(strings.ToLower(input.Email)),
		"Phone":    input.Phone,
		"Mobile":   input.Mobile,
		"ImageUrl": input.ImageUrl,
		"BranchId": input.BranchId,
		"Role":     input.Role,
		"RoleId":   input.RoleId,
		"IsActive": input.IsActive,
	}).Error
	if err != nil {
		return nil, err
	}

	// sessions carry role and branch; force re-login after changes
	if err := user.DestroyAllSessions(ctx); err != nil {
		return nil, err
	}
	if err := config.RemoveRedisKey("User:" + user.Username); err != nil {
		return nil, err
	}

	user.Password = ""
	return &user, nil
}

func DeleteUser(ctx context.Context, id int) (*User, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var result User
	if err := db.WithContext(ctx).Where("business_id = ?", businessId).First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}

	if err := result.DestroyAllSessions(ctx); err != nil {
		return nil, err
	}
	if err := config.RemoveRedisKey("User:" + result.Username); err != nil {
		return nil, err
	}

	result.Password = ""
	return &result, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var result User

	if err := db.WithContext(ctx).Where("business_id = ?", businessId).First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	result.PrepareGive()

	return &result, nil
}

func GetUsers(ctx context.Context, branchId *int) ([]*User, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var results []*User

	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if branchId != nil && *branchId > 0 {
		dbCtx = dbCtx.Where("branch_id = ?", *branchId)
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}

	for i, u := range results {
		u.Password = ""
		results[i] = u
	}

	return results, nil
}

func ToggleActiveUser(ctx context.Context, id int, isActive bool) (*User, error) {
	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	user, err := ToggleActiveModel[User](ctx, businessId, id, isActive)
	if err != nil {
		return nil, err
	}
	if !isActive {
		if err := (*user).DestroyAllSessions(ctx); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (user *User) DestroyAllSessions(ctx context.Context) error {
	allTokens, err := config.GetRedisSetMembers("Tokens:" + user.Username)
	if err != nil {
		return err
	}
	for _, token := range allTokens {
		if err := config.RemoveRedisKey("Token:" + token); err != nil {
			return err
		}
	}
	if err := config.RemoveRedisKey("Tokens:" + user.Username); err != nil {
		return err
	}

	return nil
}

func ChangePassword(ctx context.Context, oldPassword string, newPassword string) (*User, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}

	var user User
	db := config.GetDB()
	if err := db.WithContext(ctx).First(&user, userId).Error; err != nil {
		return nil, err
	}
	// check oldPassword
	if err := utils.ComparePassword(user.Password, oldPassword); err != nil {
		return nil, errors.New("old password is wrong")
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	newPassword = string(hashedPassword)

	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(&user).UpdateColumn("password", newPassword).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := config.RemoveRedisKey("User:" + user.Username); err != nil {
		tx.Rollback()
		return nil, err
	}

	// destroying all session tokens
	if err := user.DestroyAllSessions(ctx); err != nil {
		tx.Rollback()
		return nil, err
	}

	return &user, tx.Commit().Error
}
