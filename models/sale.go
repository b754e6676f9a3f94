package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleTransaction struct {
	ID             int             `gorm:"primary_key" json:"id"`
	BusinessId     string          `gorm:"index;not null;uniqueIndex:uk_sale_branch_seq,priority:1" json:"business_id"`
	BranchId       int             `gorm:"index;not null;uniqueIndex:uk_sale_branch_seq,priority:2" json:"branch_id"`
	SaleNumber     string          `gorm:"size:255;not null" json:"sale_number"`
	SequenceNo     int64           `gorm:"not null;default:0;uniqueIndex:uk_sale_branch_seq,priority:3" json:"sequence_no"`
	SaleDateTime   time.Time       `gorm:"not null;index" json:"sale_date_time"`
	CustomerId     int             `gorm:"index" json:"customer_id"`
	CashierId      int             `gorm:"not null" json:"cashier_id"`
	PaymentModeId  int             `gorm:"not null" json:"payment_mode_id"`
	Status         SaleStatus      `gorm:"type:enum('Completed','Voided');default:'Completed';index" json:"status"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount_amount"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_amount"`
	Total          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"paid_amount"`
	ChangeAmount   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"change_amount"`
	CogsTotal      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cogs_total"`
	Notes          string          `gorm:"type:text" json:"notes"`
	VoidedBy       *int            `json:"voided_by"`
	VoidedAt       *time.Time      `json:"voided_at"`
	VoidReason     string          `gorm:"size:255" json:"void_reason"`
	Details        []SaleDetail    `gorm:"foreignKey:SaleTransactionId" json:"details"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type SaleDetail struct {
	ID                int             `gorm:"primary_key" json:"id"`
	SaleTransactionId int             `gorm:"index;not null" json:"sale_transaction_id"`
	ProductId         int             `gorm:"index;not null" json:"product_id"`
	Name              string          `gorm:"size:100" json:"name"`
	Qty               decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"qty"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	DiscountAmount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount_amount"`
	LineTotal         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"line_total"`
	UnitCost          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_cost"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSaleTransaction struct {
	BranchId       int             `json:"branch_id"`
	CustomerId     int             `json:"customer_id"`
	PaymentModeId  int             `json:"payment_mode_id" binding:"required"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount" binding:"required"`
	Notes          string          `json:"notes"`
	Details        []NewSaleDetail `json:"details" binding:"required"`
}

type NewSaleDetail struct {
	ProductId      int             `json:"product_id" binding:"required"`
	Qty            decimal.Decimal `json:"qty" binding:"required"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// SalePosting is the outbox payload consumed by the posting workflow.
type SalePosting struct {
	SaleTransactionId int             `json:"sale_transaction_id"`
	BranchId          int             `json:"branch_id"`
	SaleNumber        string          `json:"sale_number"`
	CustomerId        int             `json:"customer_id"`
	PaymentModeId     int             `json:"payment_mode_id"`
	Total             decimal.Decimal `json:"total"`
	CogsTotal         decimal.Decimal `json:"cogs_total"`
	SaleDateTime      time.Time       `json:"sale_date_time"`
}

type SalesEdge Edge[SaleTransaction]
type SalesConnection struct {
	PageInfo *PageInfo    `json:"pageInfo"`
	Edges    []*SalesEdge `json:"edges"`
}

// loyalty points accrue at one point per hundred of sale total
var loyaltyPointUnit = decimal.NewFromInt(100)

// loyaltyPoints awards one point per full 100 of sale total, never rounding
// a partial unit up.
func loyaltyPoints(total decimal.Decimal) decimal.Decimal {
	return total.Div(loyaltyPointUnit).Floor()
}

func (s SaleTransaction) GetBusinessId() string {
	return s.BusinessId
}

func (s SaleTransaction) GetId() int {
	return s.ID
}

func (s SaleTransaction) GetCursor() string {
	return s.CreatedAt.String()
}

func (input *NewSaleTransaction) validate(ctx context.Context, businessId string) error {
	if err := utils.ValidateResourceId[Branch](ctx, businessId, input.BranchId); err != nil {
		return errors.New("branch not found")
	}
	if err := utils.ValidateResourceId[PaymentMode](ctx, businessId, input.PaymentModeId); err != nil {
		return errors.New("payment mode not found")
	}
	if input.CustomerId > 0 {
		if err := utils.ValidateResourceId[Customer](ctx, businessId, input.CustomerId); err != nil {
			return errors.New("customer not found")
		}
	}
	if len(input.Details) == 0 {
		return errors.New("at least one line is required")
	}
	if input.DiscountAmount.IsNegative() || input.TaxAmount.IsNegative() || input.PaidAmount.IsNegative() {
		return errors.New("amounts cannot be negative")
	}
	var productIds []int
	for _, detail := range input.Details {
		if detail.Qty.LessThanOrEqual(decimal.Zero) {
			return errors.New("line qty must be positive")
		}
		if detail.UnitPrice.IsNegative() || detail.DiscountAmount.IsNegative() {
			return errors.New("line amounts cannot be negative")
		}
		productIds = append(productIds, detail.ProductId)
	}
	if err := utils.ValidateResourcesId[Product](ctx, businessId, productIds); err != nil {
		return errors.New("product not found")
	}
	return nil
}

func nextSaleNumber(tx *gorm.DB, businessId string, branchId int) (string, int64, error) {
	var maxSeq *int64
	if err := tx.Model(&SaleTransaction{}).
		Select("MAX(sequence_no)").
		Where("business_id = ? AND branch_id = ?", businessId, branchId).
		Scan(&maxSeq).Error; err != nil {
		return "", 0, err
	}
	var seq int64 = 1
	if maxSeq != nil {
		seq = *maxSeq + 1
	}
	return fmt.Sprintf("SL-%d-%06d", branchId, seq), seq, nil
}

// Checkout records a completed POS sale: stock out per line, totals, loyalty
// points and the revenue/COGS posting in one transaction.
func Checkout(ctx context.Context, input *NewSaleTransaction) (*SaleTransaction, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	if input.BranchId == 0 {
		input.BranchId, err = branchIdFromContext(ctx)
		if err != nil {
			return nil, err
		}
	}
	if err := input.validate(ctx, businessId); err != nil {
		return nil, err
	}
	if err := CheckSalesTransactionLock(ctx, time.Now().UTC()); err != nil {
		return nil, err
	}

	lock, err := utils.BusinessLock(ctx, businessId, "stockLock", "sale.go", "Checkout")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = lock.Release(ctx)
	}()

	db := config.GetDB()
	tx := db.Begin()

	var saleItems []SaleDetail
	subtotal := decimal.Zero
	cogsTotal := decimal.Zero
	lineDiscounts := decimal.Zero
	for _, item := range input.Details {
		product, err := GetResource[Product](ctx, item.ProductId)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		unitPrice := item.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = product.SalesPrice
		}
		lineTotal := item.Qty.Mul(unitPrice).Sub(item.DiscountAmount)
		if lineTotal.IsNegative() {
			tx.Rollback()
			return nil, errors.New("line discount exceeds line amount")
		}
		saleItems = append(saleItems, SaleDetail{
			ProductId:      item.ProductId,
			Name:           product.Name,
			Qty:            item.Qty,
			UnitPrice:      unitPrice,
			DiscountAmount: item.DiscountAmount,
			LineTotal:      lineTotal,
			UnitCost:       product.CostPrice,
		})
		subtotal = subtotal.Add(lineTotal)
		lineDiscounts = lineDiscounts.Add(item.DiscountAmount)
		cogsTotal = cogsTotal.Add(item.Qty.Mul(product.CostPrice))
	}

	total := subtotal.Sub(input.DiscountAmount).Add(input.TaxAmount)
	if total.IsNegative() {
		tx.Rollback()
		return nil, errors.New("discount exceeds sale amount")
	}
	if input.PaidAmount.LessThan(total) {
		tx.Rollback()
		return nil, errors.New("paid amount is less than total")
	}
	changeAmount := input.PaidAmount.Sub(total)

	now := time.Now().UTC()
	saleNumber, seq, err := nextSaleNumber(tx, businessId, input.BranchId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	sale := SaleTransaction{
		BusinessId:     businessId,
		BranchId:       input.BranchId,
		SaleNumber:     saleNumber,
		SequenceNo:     seq,
		SaleDateTime:   now,
		CustomerId:     input.CustomerId,
		CashierId:      userId,
		PaymentModeId:  input.PaymentModeId,
		Status:         SaleStatusCompleted,
		Subtotal:       subtotal,
		DiscountAmount: input.DiscountAmount,
		TaxAmount:      input.TaxAmount,
		Total:          total,
		PaidAmount:     input.PaidAmount,
		ChangeAmount:   changeAmount,
		CogsTotal:      cogsTotal,
		Notes:          input.Notes,
		Details:        saleItems,
	}

	if err := tx.WithContext(ctx).Create(&sale).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, item := range sale.Details {
		if err := ApplyStockOut(tx, ctx, businessId, sale.BranchId, item.ProductId,
			item.Qty, item.UnitCost, StockReferenceTypeSale, sale.ID); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if sale.CustomerId > 0 {
		points := loyaltyPoints(total)
		if err := addLoyaltyPoints(tx, sale.CustomerId, points); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	posting := SalePosting{
		SaleTransactionId: sale.ID,
		BranchId:          sale.BranchId,
		SaleNumber:        sale.SaleNumber,
		CustomerId:        sale.CustomerId,
		PaymentModeId:     sale.PaymentModeId,
		Total:             sale.Total,
		CogsTotal:         sale.CogsTotal,
		SaleDateTime:      sale.SaleDateTime,
	}
	if err := PublishToPosting(ctx, tx, businessId, sale.BranchId, sale.SaleDateTime,
		sale.ID, AccountReferenceTypeSale, posting, nil, PubSubMessageActionCreate); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &sale, nil
}

// VoidSale reverses a completed sale: stock back in per line, loyalty points
// reversed, and a reversing posting emitted.
func VoidSale(ctx context.Context, id int, reason string) (*SaleTransaction, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}

	lock, err := utils.BusinessLock(ctx, businessId, "stockLock", "sale.go", "VoidSale")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = lock.Release(ctx)
	}()

	db := config.GetDB()
	tx := db.Begin()

	var sale SaleTransaction
	if err := tx.WithContext(ctx).Preload("Details").
		Where("business_id = ?", businessId).
		First(&sale, id).Error; err != nil {
		tx.Rollback()
		return nil, utils.ErrorRecordNotFound
	}

	if sale.Status != SaleStatusCompleted {
		tx.Rollback()
		return nil, errors.New("only completed sales can be voided")
	}
	if err := CheckSalesTransactionLock(ctx, sale.SaleDateTime); err != nil {
		tx.Rollback()
		return nil, err
	}

	now := time.Now().UTC()

	for _, item := range sale.Details {
		if err := ApplyStockIn(tx, ctx, businessId, sale.BranchId, item.ProductId,
			item.Qty, item.UnitCost, StockReferenceTypeSaleVoid, sale.ID); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if sale.CustomerId > 0 {
		points := loyaltyPoints(sale.Total)
		if err := addLoyaltyPoints(tx, sale.CustomerId, points.Neg()); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.WithContext(ctx).Model(&sale).Updates(map[string]interface{}{
		"Status":     SaleStatusVoided,
		"VoidedBy":   userId,
		"VoidedAt":   now,
		"VoidReason": reason,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	posting := SalePosting{
		SaleTransactionId: sale.ID,
		BranchId:          sale.BranchId,
		SaleNumber:        sale.SaleNumber,
		CustomerId:        sale.CustomerId,
		PaymentModeId:     sale.PaymentModeId,
		Total:             sale.Total,
		CogsTotal:         sale.CogsTotal,
		SaleDateTime:      sale.SaleDateTime,
	}
	if err := PublishToPosting(ctx, tx, businessId, sale.BranchId, now,
		sale.ID, AccountReferenceTypeSaleVoid, posting, nil, PubSubMessageActionCreate); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &sale, nil
}

func GetSaleTransaction(ctx context.Context, id int) (*SaleTransaction, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var result SaleTransaction
	if err := db.WithContext(ctx).Preload("Details").
		Where("business_id = ?", businessId).
		First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func PaginateSaleTransactions(ctx context.Context, limit int, after *string,
	branchId *int, status *SaleStatus, saleNumber *string,
	fromDate *time.Time, toDate *time.Time) (*SalesConnection, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("Details").Where("business_id = ?", businessId)
	if branchId != nil && *branchId > 0 {
		dbCtx = dbCtx.Where("branch_id = ?", *branchId)
	}
	if status != nil && *status != "" {
		dbCtx = dbCtx.Where("status = ?", *status)
	}
	if saleNumber != nil && *saleNumber != "" {
		dbCtx = dbCtx.Where("sale_number LIKE ?", "%"+*saleNumber+"%")
	}
	if fromDate != nil {
		dbCtx = dbCtx.Where("sale_date_time >= ?", *fromDate)
	}
	if toDate != nil {
		dbCtx = dbCtx.Where("sale_date_time <= ?", *toDate)
	}

	edges, pageInfo, err := FetchPageCompositeCursor[SaleTransaction](dbCtx, limit, after, "created_at", "<")
	if err != nil {
		return nil, err
	}
	var connection SalesConnection
	connection.PageInfo = pageInfo
	for _, edge := range edges {
		saleEdge := SalesEdge(edge)
		connection.Edges = append(connection.Edges, &saleEdge)
	}
	return &connection, nil
}
