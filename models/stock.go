package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// StockSummary is a derived cache of on-hand quantity per branch and product.
// stock_histories is the ledger of record; both are always written in the
// same transaction.
type StockSummary struct {
	ID         int             `gorm:"primary_key" json:"id"`
	BusinessId string          `gorm:"uniqueIndex:uniq_stock_summary;index;not null" json:"business_id"`
	BranchId   int             `gorm:"uniqueIndex:uniq_stock_summary;index;not null" json:"branch_id"`
	ProductId  int             `gorm:"uniqueIndex:uniq_stock_summary;index;not null" json:"product_id"`
	CurrentQty decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"current_qty"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s StockSummary) GetBusinessId() string {
	return s.BusinessId
}

func (s StockSummary) GetId() int {
	return s.ID
}

type StockHistory struct {
	ID            int                `gorm:"primary_key" json:"id"`
	BusinessId    string             `gorm:"index;not null" json:"business_id"`
	BranchId      int                `gorm:"index;not null" json:"branch_id"`
	ProductId     int                `gorm:"index;not null" json:"product_id"`
	StockDate     time.Time          `gorm:"not null" json:"stock_date"`
	Qty           decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"qty"`
	ClosingQty    decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"closing_qty"`
	UnitCost      decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"unit_cost"`
	MovementType  StockMovementType  `gorm:"type:enum('I','O');not null" json:"movement_type"`
	ReferenceType StockReferenceType `gorm:"type:enum('Sale','SaleVoid','PurchaseReceive','Adjustment','OpeningStock');index" json:"reference_type"`
	ReferenceId   int                `gorm:"index" json:"reference_id"`
	CreatedAt     time.Time          `gorm:"autoCreateTime" json:"created_at"`
}

// ledger rows carry a signed qty; the movement type always matches the sign
func (sh *StockHistory) BeforeSave(tx *gorm.DB) error {
	_ = tx
	if sh == nil || sh.Qty.IsZero() {
		return nil
	}
	if sh.Qty.IsNegative() {
		sh.MovementType = StockMovementTypeOut
	} else {
		sh.MovementType = StockMovementTypeIn
	}
	return nil
}

type StockHistoriesEdge Edge[StockHistory]
type StockHistoriesConnection struct {
	PageInfo *PageInfo             `json:"pageInfo"`
	Edges    []*StockHistoriesEdge `json:"edges"`
}

func (sh StockHistory) GetId() int {
	return sh.ID
}

func (sh StockHistory) GetCursor() string {
	return sh.CreatedAt.String()
}

// row-locked fetch so concurrent mutations serialize per product & branch
func firstOrCreateStockSummary(tx *gorm.DB, businessId string, branchId int, productId int) (*StockSummary, error) {
	stockSummary := StockSummary{
		BusinessId: businessId,
		BranchId:   branchId,
		ProductId:  productId,
	}
	result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("business_id = ? AND branch_id = ? AND product_id = ?",
			businessId, branchId, productId).
		FirstOrCreate(&stockSummary)
	if result.Error != nil {
		return nil, result.Error
	}
	return &stockSummary, nil
}

// ApplyStockIn increments on-hand qty and appends a ledger row in tx.
func ApplyStockIn(tx *gorm.DB, ctx context.Context, businessId string, branchId int, productId int,
	qty decimal.Decimal, unitCost decimal.Decimal, referenceType StockReferenceType, referenceId int) error {

	if qty.LessThanOrEqual(decimal.Zero) {
		return errors.New("stock in qty must be positive")
	}

	stockSummary, err := firstOrCreateStockSummary(tx, businessId, branchId, productId)
	if err != nil {
		return err
	}

	if err := tx.Exec("UPDATE stock_summaries SET current_qty = current_qty + ? WHERE id = ?",
		qty, stockSummary.ID).Error; err != nil {
		return err
	}

	history := StockHistory{
		BusinessId:    businessId,
		BranchId:      branchId,
		ProductId:     productId,
		StockDate:     time.Now().UTC(),
		Qty:           qty,
		ClosingQty:    stockSummary.CurrentQty.Add(qty),
		UnitCost:      unitCost,
		ReferenceType: referenceType,
		ReferenceId:   referenceId,
	}
	return tx.WithContext(ctx).Create(&history).Error
}

// ApplyStockOut decrements on-hand qty and appends a ledger row in tx.
// Fails with ErrInsufficientStock when the branch does not hold enough.
func ApplyStockOut(tx *gorm.DB, ctx context.Context, businessId string, branchId int, productId int,
	qty decimal.Decimal, unitCost decimal.Decimal, referenceType StockReferenceType, referenceId int) error {

	if qty.LessThanOrEqual(decimal.Zero) {
		return errors.New("stock out qty must be positive")
	}

	stockSummary, err := firstOrCreateStockSummary(tx, businessId, branchId, productId)
	if err != nil {
		return err
	}

	if stockSummary.CurrentQty.LessThan(qty) {
		return ErrInsufficientStock
	}

	if err := tx.Exec("UPDATE stock_summaries SET current_qty = current_qty - ? WHERE id = ?",
		qty, stockSummary.ID).Error; err != nil {
		return err
	}

	history := StockHistory{
		BusinessId:    businessId,
		BranchId:      branchId,
		ProductId:     productId,
		StockDate:     time.Now().UTC(),
		Qty:           qty.Neg(),
		ClosingQty:    stockSummary.CurrentQty.Sub(qty),
		UnitCost:      unitCost,
		ReferenceType: referenceType,
		ReferenceId:   referenceId,
	}
	return tx.WithContext(ctx).Create(&history).Error
}

func GetStockSummaries(ctx context.Context, branchId *int, productId *int) ([]*StockSummary, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if branchId != nil && *branchId > 0 {
		if err := utils.ValidateResourceId[Branch](ctx, businessId, *branchId); err != nil {
			return nil, errors.New("branch not found")
		}
		dbCtx = dbCtx.Where("branch_id = ?", *branchId)
	}
	if productId != nil && *productId > 0 {
		dbCtx = dbCtx.Where("product_id = ?", *productId)
	}

	var stockSummaries []*StockSummary
	if err := dbCtx.Not("current_qty = 0").Find(&stockSummaries).Error; err != nil {
		return nil, err
	}
	return stockSummaries, nil
}

func GetStockInHand(ctx context.Context, productId int, branchId *int) (decimal.Decimal, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	var stockInHand decimal.Decimal
	db := config.GetDB()

	dbCtx := db.WithContext(ctx).
		Model(&StockSummary{}).
		Select("COALESCE(SUM(current_qty), 0)").
		Where("business_id = ?", businessId).
		Where("product_id = ?", productId)
	if branchId != nil && *branchId > 0 {
		dbCtx = dbCtx.Where("branch_id = ?", *branchId)
	}

	if err := dbCtx.Scan(&stockInHand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	return stockInHand, nil
}

type LowStockProduct struct {
	ProductId    int             `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Sku          string          `json:"sku"`
	BranchId     int             `json:"branch_id"`
	CurrentQty   decimal.Decimal `json:"current_qty"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

func GetLowStockProducts(ctx context.Context, branchId *int) ([]*LowStockProduct, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).
		Model(&StockSummary{}).
		Select("stock_summaries.product_id AS product_id, products.name AS product_name, products.sku AS sku, stock_summaries.branch_id AS branch_id, stock_summaries.current_qty AS current_qty, products.reorder_level AS reorder_level").
		Joins("JOIN products ON products.id = stock_summaries.product_id").
		Where("stock_summaries.business_id = ?", businessId).
		Where("products.reorder_level > 0").
		Where("stock_summaries.current_qty <= products.reorder_level")
	if branchId != nil && *branchId > 0 {
		dbCtx = dbCtx.Where("stock_summaries.branch_id = ?", *branchId)
	}

	var results []*LowStockProduct
	if err := dbCtx.Order("products.name").Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func PaginateStockHistories(ctx context.Context, limit int, after *string,
	branchId *int, productId *int, referenceType *StockReferenceType) (*StockHistoriesConnection, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if branchId != nil && *branchId > 0 {
		dbCtx = dbCtx.Where("branch_id = ?", *branchId)
	}
	if productId != nil && *productId > 0 {
		dbCtx = dbCtx.Where("product_id = ?", *productId)
	}
	if referenceType != nil && *referenceType != "" {
		dbCtx = dbCtx.Where("reference_type = ?", *referenceType)
	}

	edges, pageInfo, err := FetchPageCompositeCursor[StockHistory](dbCtx, limit, after, "created_at", "<")
	if err != nil {
		return nil, err
	}
	var connection StockHistoriesConnection
	connection.PageInfo = pageInfo
	for _, edge := range edges {
		historyEdge := StockHistoriesEdge(edge)
		connection.Edges = append(connection.Edges, &historyEdge)
	}
	return &connection, nil
}
