package models

import (
	"context"
	"errors"
	"slices"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID           int             `gorm:"primary_key" json:"id"`
	BusinessId   string          `gorm:"index;not null" json:"business_id"`
	Name         string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Description  string          `gorm:"type:text" json:"description"`
	CategoryId   int             `gorm:"index;not null;default:0" json:"category_id"`
	UnitId       int             `json:"unit_id"`
	SupplierId   int             `json:"supplier_id"`
	Sku          string          `gorm:"index;size:100;not null" json:"sku" binding:"required"`
	Barcode      string          `gorm:"index;size:100" json:"barcode"`
	SalesPrice   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sales_price"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cost_price"`
	ReorderLevel decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"reorder_level"`
	ImageUrl     string          `json:"image_url"`
	IsActive     *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	Name          string            `json:"name" binding:"required"`
	Description   string            `json:"description"`
	CategoryId    int               `json:"category_id"`
	UnitId        int               `json:"unit_id"`
	SupplierId    int               `json:"supplier_id"`
	Sku           string            `json:"sku" binding:"required"`
	Barcode       string            `json:"barcode"`
	SalesPrice    decimal.Decimal   `json:"sales_price"`
	CostPrice     decimal.Decimal   `json:"cost_price"`
	ReorderLevel  decimal.Decimal   `json:"reorder_level"`
	ImageUrl      string            `json:"image_url"`
	OpeningStocks []NewOpeningStock `json:"opening_stocks"`
}

type NewOpeningStock struct {
	BranchId int             `json:"branch_id"`
	Qty      decimal.Decimal `json:"qty"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

type ProductsEdge Edge[Product]

type ProductsConnection struct {
	PageInfo *PageInfo       `json:"pageInfo"`
	Edges    []*ProductsEdge `json:"edges"`
}

func (p Product) GetBusinessId() string {
	return p.BusinessId
}

func (p Product) GetId() int {
	return p.ID
}

func (p Product) GetCursor() string {
	return p.CreatedAt.String()
}

// validate input for both create & update. (id = 0 for create)

func (input *NewProduct) validate(ctx context.Context, businessId string, id int) error {
	if err := utils.ValidateUnique[Product](ctx, businessId, "name", input.Name, id); err != nil {
		return err
	}
	if err := utils.ValidateUnique[Product](ctx, businessId, "sku", input.Sku, id); err != nil {
		return err
	}
	// exists category
	if input.CategoryId > 0 {
		if err := utils.ValidateResourceId[ProductCategory](ctx, businessId, input.CategoryId); err != nil {
			return errors.New("product category not found")
		}
	}

	// exists supplier
	if input.SupplierId > 0 {
		if err := utils.ValidateResourceId[Supplier](ctx, businessId, input.SupplierId); err != nil {
			return errors.New("supplier not found")
		}
	}

	// exists unit
	if input.UnitId > 0 {
		if err := utils.ValidateResourceId[ProductUnit](ctx, businessId, input.UnitId); err != nil {
			return errors.New("product unit not found")
		}
	}

	if input.SalesPrice.IsNegative() || input.CostPrice.IsNegative() || input.ReorderLevel.IsNegative() {
		return errors.New("prices and reorder level cannot be negative")
	}

	// exists branch
	if len(input.OpeningStocks) > 0 {
		var branchIds []int
		for _, openingStock := range input.OpeningStocks {
			if openingStock.BranchId <= 0 {
				return errors.New("branch is required for opening stock")
			}
			if openingStock.Qty.LessThanOrEqual(decimal.Zero) {
				return errors.New("opening stock qty must be positive")
			}
			if slices.Contains(branchIds, openingStock.BranchId) {
				return errors.New("duplicate branch")
			}
			branchIds = append(branchIds, openingStock.BranchId)
		}
		if err := utils.ValidateResourcesId[Branch](ctx, businessId, branchIds); err != nil {
			return errors.New("branch not found")
		}
	}
	return nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	product := Product{
		BusinessId:   businessId,
		Name:         input.Name,
		Description:  input.Description,
		CategoryId:   input.CategoryId,
		UnitId:       input.UnitId,
		SupplierId:   input.SupplierId,
		Sku:          input.Sku,
		Barcode:      input.Barcode,
		SalesPrice:   input.SalesPrice,
		CostPrice:    input.CostPrice,
		ReorderLevel: input.ReorderLevel,
		ImageUrl:     input.ImageUrl,
		IsActive:     utils.NewTrue(),
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Create(&product).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, openingStock := range input.OpeningStocks {
		if err := ApplyStockIn(tx, ctx, businessId, openingStock.BranchId, product.ID,
			openingStock.Qty, openingStock.UnitCost,
			StockReferenceTypeOpeningStock, product.ID); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &product, nil
}

func UpdateProduct(ctx context.Context, id int, input *NewProduct) (*Product, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	// id exists
	product, err := utils.FetchModel[Product](ctx, businessId, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	err = tx.WithContext(ctx).Model(&product).Updates(map[string]interface{}{
		"Name":         input.Name,
		"Description":  input.Description,
		"CategoryId":   input.CategoryId,
		"UnitId":       input.UnitId,
		"SupplierId":   input.SupplierId,
		"Sku":          input.Sku,
		"Barcode":      input.Barcode,
		"SalesPrice":   input.SalesPrice,
		"CostPrice":    input.CostPrice,
		"ReorderLevel": input.ReorderLevel,
		"ImageUrl":     input.ImageUrl,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := RemoveRedisBoth(*product); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return product, nil
}

func DeleteProduct(ctx context.Context, id int) (*Product, error) {
	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	result, err := utils.FetchModel[Product](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[StockSummary](ctx, businessId, "product_id = ? AND current_qty > 0", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("stock on hand exists")
	}
	count, err = utils.ResourceCountWhere[SaleDetail](ctx, "", "product_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("transaction already exists")
	}
	count, err = utils.ResourceCountWhere[PurchaseOrderDetail](ctx, "", "product_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("transaction already exists")
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Delete(&result).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := RemoveRedisBoth(*result); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return result, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	return GetResource[Product](ctx, id)
}

func GetProductBySkuOrBarcode(ctx context.Context, code string) (*Product, error) {
	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var result Product
	if err := db.WithContext(ctx).
		Where("business_id = ?", businessId).
		Where("sku = ? OR barcode = ?", code, code).
		First(&result).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func GetProducts(ctx context.Context, name *string, categoryId *int) ([]*Product, error) {
	db := config.GetDB()
	var results []*Product

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if categoryId != nil && *categoryId > 0 {
		dbCtx = dbCtx.Where("category_id = ?", *categoryId)
	}

	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func GetProductIdsByCategoryId(categoryId int) ([]int, error) {

	db := config.GetDB()
	var productIds []int
	result := db.Model(&Product{}).
		Where("category_id = ?", categoryId).
		Pluck("id", &productIds)

	if result.Error != nil {
		return nil, result.Error
	}

	return productIds, nil
}

func ToggleActiveProduct(ctx context.Context, id int, isActive bool) (*Product, error) {
	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	return ToggleActiveModel[Product](ctx, businessId, id, isActive)
}

func PaginateProducts(ctx context.Context, limit int, after *string, name *string, sku *string, categoryId *int) (*ProductsConnection, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db := config.GetDB()
	dbCtx := db.WithContext(ctxWithTimeout).Model(&Product{}).Where("business_id = ?", businessId)

	if name != nil && *name != "" {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if sku != nil && *sku != "" {
		dbCtx = dbCtx.Where("sku = ?", *sku)
	}
	if categoryId != nil && *categoryId > 0 {
		dbCtx = dbCtx.Where("category_id = ?", *categoryId)
	}

	edges, pageInfo, err := FetchPageCompositeCursor[Product](dbCtx, limit, after, "created_at", "<")
	if err != nil {
		return nil, err
	}

	var productConnection ProductsConnection
	productConnection.PageInfo = pageInfo
	for _, edge := range edges {
		productEdge := ProductsEdge(edge)
		productConnection.Edges = append(productConnection.Edges, &productEdge)
	}

	return &productConnection, nil
}

func ListAllProducts(ctx context.Context, name *string) ([]*AllProduct, error) {
	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var allProducts []*AllProduct
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)

	if name != nil && *name != "" {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}

	if err := dbCtx.Model(&Product{}).Order("name").
		Find(&allProducts).Error; err != nil {
		return nil, err
	}
	return allProducts, nil
}
