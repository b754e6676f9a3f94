package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
)

type Supplier struct {
	ID         int       `gorm:"primary_key" json:"id"`
	BusinessId string    `gorm:"index;not null" json:"business_id"`
	Name       string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email      string    `gorm:"size:100" json:"email"`
	Phone      string    `gorm:"size:20" json:"phone"`
	Mobile     string    `gorm:"size:20" json:"mobile"`
	Address    string    `gorm:"type:text" json:"address"`
	Notes      string    `gorm:"type:text" json:"notes"`
	IsActive   *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplier struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Mobile  string `json:"mobile"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type SuppliersEdge Edge[Supplier]
type SuppliersConnection struct {
	PageInfo *PageInfo        `json:"pageInfo"`
	Edges    []*SuppliersEdge `json:"edges"`
}

func (s Supplier) GetBusinessId() string {
	return s.BusinessId
}

func (s Supplier) GetId() int {
	return s.ID
}

func (s Supplier) GetCursor() string {
	return s.CreatedAt.String()
}

func (input *NewSupplier) validate(ctx context.Context, businessId string, id int) error {
	// validate unique name
	if err := utils.ValidateUnique[Supplier](ctx, businessId, "name", input.Name, id); err != nil {
		return err
	}
	// validate email
	if input.Email != "" {
		if !utils.IsValidEmail(input.Email) {
			return errors.New("invalid email address")
		}
		if err := utils.ValidateUnique[Supplier](ctx, businessId, "email", input.Email, id); err != nil {
			return err
		}
	}
	// validate phone
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return errors.New("invalid phone number")
		}
		if err := utils.ValidateUnique[Supplier](ctx, businessId, "phone", input.Phone, id); err != nil {
			return err
		}
	}
	return nil
}

func CreateSupplier(ctx context.Context, input *NewSupplier) (*Supplier, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	supplier := Supplier{
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
	if err := db.WithContext(ctx).Create(&supplier).Error; err != nil {
		return nil, err
	}

	return &supplier, nil
}

func UpdateSupplier(ctx context.Context, id int, input *NewSupplier) (*Supplier, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	supplier, err := utils.FetchModel[Supplier](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&supplier).Updates(map[string]interface{}{
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
	if err := supplier.RemoveInstanceRedis(); err != nil {
		return nil, err
	}
	return supplier, nil
}

func DeleteSupplier(ctx context.Context, id int) (*Supplier, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	result, err := utils.FetchModel[Supplier](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	// don't delete if used by a product or purchase order
	count, err := utils.ResourceCountWhere[Product](ctx, businessId, "supplier_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("used by product")
	}
	count, err = utils.ResourceCountWhere[PurchaseOrder](ctx, businessId, "supplier_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("used by purchase order")
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

func GetSupplier(ctx context.Context, id int) (*Supplier, error) {
	return GetResource[Supplier](ctx, id)
}

func GetSuppliers(ctx context.Context, name *string) ([]*Supplier, error) {

	db := config.GetDB()
	var results []*Supplier

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

func ToggleActiveSupplier(ctx context.Context, id int, isActive bool) (*Supplier, error) {
	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	return ToggleActiveModel[Supplier](ctx, businessId, id, isActive)
}

func PaginateSuppliers(ctx context.Context, limit int, after *string, name *string) (*SuppliersConnection, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if name != nil && *name != "" {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	edges, pageInfo, err := FetchPageCompositeCursor[Supplier](dbCtx, limit, after, "created_at", "<")
	if err != nil {
		return nil, err
	}
	var suppliersConnection SuppliersConnection
	suppliersConnection.PageInfo = pageInfo
	for _, edge := range edges {
		supplierEdge := SuppliersEdge(edge)
		suppliersConnection.Edges = append(suppliersConnection.Edges, &supplierEdge)
	}
	return &suppliersConnection, nil
}
