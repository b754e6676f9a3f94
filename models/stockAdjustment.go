package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/shopspring/decimal"
)

type StockAdjustment struct {
	ID             int              `gorm:"primary_key" json:"id"`
	BusinessId     string           `gorm:"index;not null" json:"business_id"`
	BranchId       int              `gorm:"index;not null" json:"branch_id"`
	ProductId      int              `gorm:"index;not null" json:"product_id"`
	AdjustmentType AdjustmentType   `gorm:"type:enum('Increase','Decrease');not null" json:"adjustment_type"`
	Qty            decimal.Decimal  `gorm:"type:decimal(20,4);not null" json:"qty"`
	UnitCost       decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"unit_cost"`
	Reason         string           `gorm:"size:255;not null" json:"reason"`
	Note           string           `gorm:"type:text" json:"note"`
	Status         AdjustmentStatus `gorm:"type:enum('Pending','Approved','Rejected');default:'Pending';index" json:"status"`
	RequestedBy    int              `gorm:"not null" json:"requested_by"`
	ReviewedBy     *int             `json:"reviewed_by"`
	ReviewedAt     *time.Time       `json:"reviewed_at"`
	ReviewNote     string           `gorm:"type:text" json:"review_note"`
	CreatedAt      time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewStockAdjustment struct {
	BranchId       int             `json:"branch_id"`
	ProductId      int             `json:"product_id" binding:"required"`
	AdjustmentType AdjustmentType  `json:"adjustment_type" binding:"required"`
	Qty            decimal.Decimal `json:"qty" binding:"required"`
	Reason         string          `json:"reason" binding:"required"`
	Note           string          `json:"note"`
}

// AdjustmentPosting is the outbox payload the posting workflow turns into a
// journal entry.
type AdjustmentPosting struct {
	AdjustmentId   int             `json:"adjustment_id"`
	BranchId       int             `json:"branch_id"`
	ProductId      int             `json:"product_id"`
	AdjustmentType AdjustmentType  `json:"adjustment_type"`
	Qty            decimal.Decimal `json:"qty"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	TotalValue     decimal.Decimal `json:"total_value"`
	ReviewedAt     time.Time       `json:"reviewed_at"`
}

type StockAdjustmentsEdge Edge[StockAdjustment]
type StockAdjustmentsConnection struct {
	PageInfo *PageInfo               `json:"pageInfo"`
	Edges    []*StockAdjustmentsEdge `json:"edges"`
}

func (adj StockAdjustment) GetBusinessId() string {
	return adj.BusinessId
}

func (adj StockAdjustment) GetId() int {
	return adj.ID
}

func (adj StockAdjustment) GetCursor() string {
	return adj.CreatedAt.String()
}

func (input *NewStockAdjustment) validate(ctx context.Context, businessId string) error {
	if err := utils.ValidateResourceId[Branch](ctx, businessId, input.BranchId); err != nil {
		return errors.New("branch not found")
	}
	if err := utils.ValidateResourceId[Product](ctx, businessId, input.ProductId); err != nil {
		return errors.New("product not found")
	}
	if input.Qty.LessThanOrEqual(decimal.Zero) {
		return errors.New("qty must be positive")
	}
	return nil
}

func CreateStockAdjustment(ctx context.Context, input *NewStockAdjustment) (*StockAdjustment, error) {

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

	product, err := GetResource[Product](ctx, input.ProductId)
	if err != nil {
		return nil, err
	}

	adjustment := StockAdjustment{
		BusinessId:     businessId,
		BranchId:       input.BranchId,
		ProductId:      input.ProductId,
		AdjustmentType: input.AdjustmentType,
		Qty:            input.Qty,
		UnitCost:       product.CostPrice,
		Reason:         input.Reason,
		Note:           input.Note,
		Status:         AdjustmentStatusPending,
		RequestedBy:    userId,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&adjustment).Error; err != nil {
		return nil, err
	}

	return &adjustment, nil
}

// canReview enforces the reviewer rules: a pending adjustment only, and the
// requester may not review their own request unless they are an admin. With
// STRICT_ADJUSTMENT_REVIEW enabled no one reviews their own request.
func (adj *StockAdjustment) canReview(ctx context.Context) error {
	if adj.Status != AdjustmentStatusPending {
		return errors.New("adjustment has already been reviewed")
	}

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return errors.New("user id is required")
	}
	if adj.RequestedBy == userId {
		if config.StrictAdjustmentReview() {
			return errors.New("requester cannot review their own adjustment")
		}
		isAdmin, _ := utils.GetIsAdminFromContext(ctx)
		if !isAdmin {
			return errors.New("requester cannot review their own adjustment")
		}
	}
	return nil
}

func ApproveStockAdjustment(ctx context.Context, id int) (*StockAdjustment, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	userId, _ := utils.GetUserIdFromContext(ctx)

	lock, err := utils.BusinessLock(ctx, businessId, "stockLock", "stockAdjustment.go", "ApproveStockAdjustment")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = lock.Release(ctx)
	}()

	db := config.GetDB()
	tx := db.Begin()

	var adjustment StockAdjustment
	if err := tx.WithContext(ctx).
		Where("business_id = ?", businessId).
		First(&adjustment, id).Error; err != nil {
		tx.Rollback()
		return nil, utils.ErrorRecordNotFound
	}

	if err := adjustment.canReview(ctx); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := CheckAccountingTransactionLock(ctx, time.Now().UTC()); err != nil {
		tx.Rollback()
		return nil, err
	}

	now := time.Now().UTC()

	switch adjustment.AdjustmentType {
	case AdjustmentTypeIncrease:
		err = ApplyStockIn(tx, ctx, businessId, adjustment.BranchId, adjustment.ProductId,
			adjustment.Qty, adjustment.UnitCost, StockReferenceTypeAdjustment, adjustment.ID)
	case AdjustmentTypeDecrease:
		err = ApplyStockOut(tx, ctx, businessId, adjustment.BranchId, adjustment.ProductId,
			adjustment.Qty, adjustment.UnitCost, StockReferenceTypeAdjustment, adjustment.ID)
	default:
		err = errors.New("invalid adjustment type")
	}
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// status transition is guarded so two concurrent reviews cannot both post
	result := tx.WithContext(ctx).Model(&adjustment).
		Where("status = ?", AdjustmentStatusPending).
		Updates(map[string]interface{}{
			"Status":     AdjustmentStatusApproved,
			"ReviewedBy": userId,
			"ReviewedAt": now,
		})
	if result.Error != nil {
		tx.Rollback()
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, errors.New("adjustment has already been reviewed")
	}
	adjustment.Status = AdjustmentStatusApproved
	adjustment.ReviewedBy = &userId
	adjustment.ReviewedAt = &now

	posting := AdjustmentPosting{
		AdjustmentId:   adjustment.ID,
		BranchId:       adjustment.BranchId,
		ProductId:      adjustment.ProductId,
		AdjustmentType: adjustment.AdjustmentType,
		Qty:            adjustment.Qty,
		UnitCost:       adjustment.UnitCost,
		TotalValue:     adjustment.Qty.Mul(adjustment.UnitCost),
		ReviewedAt:     now,
	}
	if err := PublishToPosting(ctx, tx, businessId, adjustment.BranchId, now,
		adjustment.ID, AccountReferenceTypeStockAdjustment, posting, nil, PubSubMessageActionCreate); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &adjustment, nil
}

func RejectStockAdjustment(ctx context.Context, id int, reviewNote string) (*StockAdjustment, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	userId, _ := utils.GetUserIdFromContext(ctx)

	db := config.GetDB()
	tx := db.Begin()

	var adjustment StockAdjustment
	if err := tx.WithContext(ctx).
		Where("business_id = ?", businessId).
		First(&adjustment, id).Error; err != nil {
		tx.Rollback()
		return nil, utils.ErrorRecordNotFound
	}

	if err := adjustment.canReview(ctx); err != nil {
		tx.Rollback()
		return nil, err
	}

	now := time.Now().UTC()
	result := tx.WithContext(ctx).Model(&adjustment).
		Where("status = ?", AdjustmentStatusPending).
		Updates(map[string]interface{}{
			"Status":     AdjustmentStatusRejected,
			"ReviewedBy": userId,
			"ReviewedAt": now,
			"ReviewNote": reviewNote,
		})
	if result.Error != nil {
		tx.Rollback()
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, errors.New("adjustment has already been reviewed")
	}
	adjustment.Status = AdjustmentStatusRejected
	adjustment.ReviewedBy = &userId
	adjustment.ReviewedAt = &now
	adjustment.ReviewNote = reviewNote

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &adjustment, nil
}

func GetStockAdjustment(ctx context.Context, id int) (*StockAdjustment, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var result StockAdjustment
	if err := db.WithContext(ctx).Where("business_id = ?", businessId).First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func PaginateStockAdjustments(ctx context.Context, limit int, after *string,
	branchId *int, status *AdjustmentStatus) (*StockAdjustmentsConnection, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if branchId != nil && *branchId > 0 {
		dbCtx = dbCtx.Where("branch_id = ?", *branchId)
	}
	if status != nil && *status != "" {
		dbCtx = dbCtx.Where("status = ?", *status)
	}

	edges, pageInfo, err := FetchPageCompositeCursor[StockAdjustment](dbCtx, limit, after, "created_at", "<")
	if err != nil {
		return nil, err
	}
	var connection StockAdjustmentsConnection
	connection.PageInfo = pageInfo
	for _, edge := range edges {
		adjustmentEdge := StockAdjustmentsEdge(edge)
		connection.Edges = append(connection.Edges, &adjustmentEdge)
	}
	return &connection, nil
}
