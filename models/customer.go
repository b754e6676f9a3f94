package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Customer struct {
	ID            int             `gorm:"primary_key" json:"id"`
	BusinessId    string          `gorm:"index;not null" json:"business_id"`
	Name          string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Email         string          `gorm:"size:100" json:"email"`
	Phone         string          `gorm:"size:20" json:"phone"`
	Mobile        string          `gorm:"size:20" json:"mobile"`
	Address       string          `gorm:"type:text" json:"address"`
	Notes         string          `gorm:"type:text" json:"notes"`
	LoyaltyPoints decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"loyalty_points"`
	IsActive      *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCustomer struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Mobile  string `json:"mobile"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type CustomersEdge Edge[Customer]
type CustomersConnection struct {
	PageInfo *PageInfo        `json:"pageInfo"`
	Edges    []*CustomersEdge `json:"edges"`
}

func (c Customer) GetBusinessId() string {
	return c.BusinessId
}

func (c Customer) GetId() int {
	return c.ID
}

func (c Customer) GetCursor() string {
	return c.CreatedAt.String()
}

func (input *NewCustomer) validate(ctx context.Context, businessId string, id int) error {
	if err := utils.ValidateUnique[Customer](ctx, businessId, "name", input.Name, id); err != nil {
		return err
	}
	if input.Email != "" {
		if !utils.IsValidEmail(input.Email) {
			return errors.New("invalid email address")
		}
		if err := utils.ValidateUnique[Customer](ctx, businessId, "email", input.Email, id); err != nil {
			return err
		}
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return errors.New("invalid phone number")
		}
		if err := utils.ValidateUnique[Customer](ctx, businessId, "phone", input.Phone, id); err != nil {
			return err
		}
	}
	return nil
}

func CreateCustomer(ctx context.Context, input *NewCustomer) (*Customer, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	customer := Customer{
		BusinessId: businessId,
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		Mobile:     input.Mobile,
		Address:    input.Address,
		Notes:      input.Notes,
		IsActive:   utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}

	return &customer, nil
}

func UpdateCustomer(ctx context.Context, id int, input *NewCustomer) (*Customer, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	customer, err := utils.FetchModel[Customer](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&customer).Updates(map[string]interface{}{
		"Name":    input.Name,
		"Email":   input.Email,
		"Phone":   input.Phone,
		"Mobile":  input.Mobile,
		"Address": input.Address,
		"Notes":   input.Notes,
	}).Error
	if err != nil {
		return nil, err
	}
	if err := customer.RemoveInstanceRedis(); err != nil {
		return nil, err
	}
	return customer, nil
}

func DeleteCustomer(ctx context.Context, id int) (*Customer, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	result, err := utils.FetchModel[Customer](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[SaleTransaction](ctx, businessId, "customer_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("used by sale transaction")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	if err := result.RemoveInstanceRedis(); err != nil {
		return nil, err
	}

	return result, nil
}

func GetCustomer(ctx context.Context, id int) (*Customer, error) {
	return GetResource[Customer](ctx, id)
}

func GetCustomers(ctx context.Context, name *string, phone *string) ([]*Customer, error) {

	db := config.GetDB()
	var results []*Customer

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if phone != nil && len(*phone) > 0 {
		dbCtx = dbCtx.Where("phone = ? OR mobile = ?", *phone, *phone)
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func ToggleActiveCustomer(ctx context.Context, id int, isActive bool) (*Customer, error) {
	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	return ToggleActiveModel[Customer](ctx, businessId, id, isActive)
}

func PaginateCustomers(ctx context.Context, limit int, after *string, name *string) (*CustomersConnection, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if name != nil && *name != "" {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	edges, pageInfo, err := FetchPageCompositeCursor[Customer](dbCtx, limit, after, "created_at", "<")
	if err != nil {
		return nil, err
	}
	var customersConnection CustomersConnection
	customersConnection.PageInfo = pageInfo
	for _, edge := range edges {
		customerEdge := CustomersEdge(edge)
		customersConnection.Edges = append(customersConnection.Edges, &customerEdge)
	}
	return &customersConnection, nil
}

// accrue loyalty points when a sale completes, reverse on void
func addLoyaltyPoints(tx *gorm.DB, customerId int, points decimal.Decimal) error {
	if customerId <= 0 || points.IsZero() {
		return nil
	}
	return tx.Model(&Customer{}).Where("id = ?", customerId).
		UpdateColumn("loyalty_points", gorm.Expr("loyalty_points + ?", points)).Error
}
