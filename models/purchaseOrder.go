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

type PurchaseOrder struct {
	ID                   int                   `gorm:"primary_key" json:"id"`
	BusinessId           string                `gorm:"index;not null;uniqueIndex:uk_po_branch_seq,priority:1" json:"business_id"`
	BranchId             int                   `gorm:"index;not null;uniqueIndex:uk_po_branch_seq,priority:2" json:"branch_id"`
	SupplierId           int                   `gorm:"index;not null" json:"supplier_id" binding:"required"`
	OrderNumber          string                `gorm:"size:255;not null" json:"order_number"`
	SequenceNo           int64                 `gorm:"not null;default:0;uniqueIndex:uk_po_branch_seq,priority:3" json:"sequence_no"`
	OrderDate            time.Time             `gorm:"not null" json:"order_date"`
	ExpectedDeliveryDate *time.Time            `gorm:"default:null" json:"expected_delivery_date"`
	Notes                string                `gorm:"type:text" json:"notes"`
	Status               PurchaseOrderStatus   `gorm:"type:enum('Draft','Ordered','Received','Cancelled');default:'Draft';index" json:"status"`
	OrderTotal           decimal.Decimal       `gorm:"type:decimal(20,4);default:0" json:"order_total"`
	ReceivedAt           *time.Time            `json:"received_at"`
	CreatedBy            int                   `gorm:"not null" json:"created_by"`
	Details              []PurchaseOrderDetail `gorm:"foreignKey:PurchaseOrderId" json:"details"`
	CreatedAt            time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
}

type PurchaseOrderDetail struct {
	ID              int             `gorm:"primary_key" json:"id"`
	PurchaseOrderId int             `gorm:"index;not null" json:"purchase_order_id"`
	ProductId       int             `gorm:"index;not null" json:"product_id"`
	Name            string          `gorm:"size:100" json:"name"`
	Qty             decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"qty"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_cost"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPurchaseOrder struct {
	BranchId             int                      `json:"branch_id"`
	SupplierId           int                      `json:"supplier_id" binding:"required"`
	OrderDate            time.Time                `json:"order_date"`
	ExpectedDeliveryDate *time.Time               `json:"expected_delivery_date"`
	Notes                string                   `json:"notes"`
	Details              []NewPurchaseOrderDetail `json:"details" binding:"required"`
}

type NewPurchaseOrderDetail struct {
	ProductId int             `json:"product_id" binding:"required"`
	Qty       decimal.Decimal `json:"qty" binding:"required"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// PurchasePosting is the outbox payload for the posting workflow.
type PurchasePosting struct {
	PurchaseOrderId int             `json:"purchase_order_id"`
	BranchId        int             `json:"branch_id"`
	OrderNumber     string          `json:"order_number"`
	SupplierId      int             `json:"supplier_id"`
	OrderTotal      decimal.Decimal `json:"order_total"`
	ReceivedAt      time.Time       `json:"received_at"`
}

type PurchaseOrdersEdge Edge[PurchaseOrder]
type PurchaseOrdersConnection struct {
	PageInfo *PageInfo             `json:"pageInfo"`
	Edges    []*PurchaseOrdersEdge `json:"edges"`
}

func (po PurchaseOrder) GetBusinessId() string {
	return po.BusinessId
}

func (po PurchaseOrder) GetId() int {
	return po.ID
}

func (po PurchaseOrder) GetCursor() string {
	return po.CreatedAt.String()
}

func (input *NewPurchaseOrder) validate(ctx context.Context, businessId string) error {
	if err := utils.ValidateResourceId[Branch](ctx, businessId, input.BranchId); err != nil {
		return errors.New("branch not found")
	}
	if err := utils.ValidateResourceId[Supplier](ctx, businessId, input.SupplierId); err != nil {
		return errors.New("supplier not found")
	}
	if len(input.Details) == 0 {
		return errors.New("at least one line is required")
	}
	var productIds []int
	for _, detail := range input.Details {
		if detail.Qty.LessThanOrEqual(decimal.Zero) {
			return errors.New("line qty must be positive")
		}
		if detail.UnitCost.IsNegative() {
			return errors.New("unit cost cannot be negative")
		}
		productIds = append(productIds, detail.ProductId)
	}
	if err := utils.ValidateResourcesId[Product](ctx, businessId, productIds); err != nil {
		return errors.New("product not found")
	}
	return nil
}

// per-branch sequence; rows are created inside a serialized tx so max+1 is safe
func nextPurchaseOrderNumber(tx *gorm.DB, businessId string, branchId int) (string, int64, error) {
	var maxSeq *int64
	if err := tx.Model(&PurchaseOrder{}).
		Select("MAX(sequence_no)").
		Where("business_id = ? AND branch_id = ?", businessId, branchId).
		Scan(&maxSeq).Error; err != nil {
		return "", 0, err
	}
	var seq int64 = 1
	if maxSeq != nil {
		seq = *maxSeq + 1
	}
	return fmt.Sprintf("PO-%d-%06d", branchId, seq), seq, nil
}

func mapPurchaseOrderDetails(ctx context.Context, input []NewPurchaseOrderDetail) ([]PurchaseOrderDetail, decimal.Decimal, error) {
	details := make([]PurchaseOrderDetail, 0, len(input))
	orderTotal := decimal.Zero
	for _, d := range input {
		product, err := GetResource[Product](ctx, d.ProductId)
		if err != nil {
			return nil, decimal.Zero, err
		}
		unitCost := d.UnitCost
		if unitCost.IsZero() {
			unitCost = product.CostPrice
		}
		amount := d.Qty.Mul(unitCost)
		details = append(details, PurchaseOrderDetail{
			ProductId: d.ProductId,
			Name:      product.Name,
			Qty:       d.Qty,
			UnitCost:  unitCost,
			Amount:    amount,
		})
		orderTotal = orderTotal.Add(amount)
	}
	return details, orderTotal, nil
}

func CreatePurchaseOrder(ctx context.Context, input *NewPurchaseOrder) (*PurchaseOrder, error) {

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

	details, orderTotal, err := mapPurchaseOrderDetails(ctx, input.Details)
	if err != nil {
		return nil, err
	}

	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now().UTC()
	}

	lock, err := utils.BusinessLock(ctx, businessId, "purchaseOrderLock", "purchaseOrder.go", "CreatePurchaseOrder")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = lock.Release(ctx)
	}()

	db := config.GetDB()
	tx := db.Begin()

	orderNumber, seq, err := nextPurchaseOrderNumber(tx, businessId, input.BranchId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	purchaseOrder := PurchaseOrder{
		BusinessId:           businessId,
		BranchId:             input.BranchId,
		SupplierId:           input.SupplierId,
		OrderNumber:          orderNumber,
		SequenceNo:           seq,
		OrderDate:            orderDate,
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		Notes:                input.Notes,
		Status:               PurchaseOrderStatusDraft,
		OrderTotal:           orderTotal,
		CreatedBy:            userId,
		Details:              details,
	}

	if err := tx.WithContext(ctx).Create(&purchaseOrder).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &purchaseOrder, nil
}

func UpdatePurchaseOrder(ctx context.Context, id int, input *NewPurchaseOrder) (*PurchaseOrder, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
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

	db := config.GetDB()
	var purchaseOrder PurchaseOrder
	if err := db.WithContext(ctx).Where("business_id = ?", businessId).First(&purchaseOrder, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if purchaseOrder.Status != PurchaseOrderStatusDraft {
		return nil, errors.New("only draft orders can be edited")
	}

	details, orderTotal, err := mapPurchaseOrderDetails(ctx, input.Details)
	if err != nil {
		return nil, err
	}

	tx := db.Begin()

	if err := tx.WithContext(ctx).Model(&purchaseOrder).Updates(map[string]interface{}{
		"SupplierId":           input.SupplierId,
		"OrderDate":            input.OrderDate,
		"ExpectedDeliveryDate": input.ExpectedDeliveryDate,
		"Notes":                input.Notes,
		"OrderTotal":           orderTotal,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// replace lines
	if err := tx.WithContext(ctx).Where("purchase_order_id = ?", id).Delete(&PurchaseOrderDetail{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	for i := range details {
		details[i].PurchaseOrderId = id
	}
	if err := tx.WithContext(ctx).Create(&details).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	purchaseOrder.Details = details
	return &purchaseOrder, nil
}

// MarkPurchaseOrderOrdered confirms a draft with the supplier.
func MarkPurchaseOrderOrdered(ctx context.Context, id int) (*PurchaseOrder, error) {
	return changePurchaseOrderStatus(ctx, id,
		[]PurchaseOrderStatus{PurchaseOrderStatusDraft}, PurchaseOrderStatusOrdered)
}

func CancelPurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error) {
	return changePurchaseOrderStatus(ctx, id,
		[]PurchaseOrderStatus{PurchaseOrderStatusDraft, PurchaseOrderStatusOrdered}, PurchaseOrderStatusCancelled)
}

func changePurchaseOrderStatus(ctx context.Context, id int, from []PurchaseOrderStatus, to PurchaseOrderStatus) (*PurchaseOrder, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var purchaseOrder PurchaseOrder
	if err := db.WithContext(ctx).Where("business_id = ?", businessId).First(&purchaseOrder, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	allowed := false
	for _, s := range from {
		if purchaseOrder.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("cannot change status from %s to %s", purchaseOrder.Status, to)
	}

	if err := db.WithContext(ctx).Model(&purchaseOrder).Update("Status", to).Error; err != nil {
		return nil, err
	}
	return &purchaseOrder, nil
}

// ReceivePurchaseOrder books the goods in: stock per line, received_at stamp
// and the accounts-payable posting, all in one transaction.
func ReceivePurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	lock, err := utils.BusinessLock(ctx, businessId, "stockLock", "purchaseOrder.go", "ReceivePurchaseOrder")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = lock.Release(ctx)
	}()

	db := config.GetDB()
	tx := db.Begin()

	var purchaseOrder PurchaseOrder
	if err := tx.WithContext(ctx).Preload("Details").
		Where("business_id = ?", businessId).
		First(&purchaseOrder, id).Error; err != nil {
		tx.Rollback()
		return nil, utils.ErrorRecordNotFound
	}

	if purchaseOrder.Status != PurchaseOrderStatusOrdered {
		tx.Rollback()
		return nil, errors.New("only ordered purchase orders can be received")
	}
	if err := CheckPurchaseTransactionLock(ctx, time.Now().UTC()); err != nil {
		tx.Rollback()
		return nil, err
	}

	now := time.Now().UTC()

	for _, detail := range purchaseOrder.Details {
		if err := ApplyStockIn(tx, ctx, businessId, purchaseOrder.BranchId, detail.ProductId,
			detail.Qty, detail.UnitCost, StockReferenceTypePurchaseReceive, purchaseOrder.ID); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.WithContext(ctx).Model(&purchaseOrder).Updates(map[string]interface{}{
		"Status":     PurchaseOrderStatusReceived,
		"ReceivedAt": now,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	posting := PurchasePosting{
		PurchaseOrderId: purchaseOrder.ID,
		BranchId:        purchaseOrder.BranchId,
		OrderNumber:     purchaseOrder.OrderNumber,
		SupplierId:      purchaseOrder.SupplierId,
		OrderTotal:      purchaseOrder.OrderTotal,
		ReceivedAt:      now,
	}
	if err := PublishToPosting(ctx, tx, businessId, purchaseOrder.BranchId, now,
		purchaseOrder.ID, AccountReferenceTypePurchaseReceive, posting, nil, PubSubMessageActionCreate); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &purchaseOrder, nil
}

func DeletePurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var purchaseOrder PurchaseOrder
	if err := db.WithContext(ctx).Where("business_id = ?", businessId).First(&purchaseOrder, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if purchaseOrder.Status != PurchaseOrderStatusDraft {
		return nil, errors.New("only draft orders can be deleted")
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Where("purchase_order_id = ?", id).Delete(&PurchaseOrderDetail{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(&purchaseOrder).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &purchaseOrder, nil
}

func GetPurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var result PurchaseOrder
	if err := db.WithContext(ctx).Preload("Details").
		Where("business_id = ?", businessId).
		First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func PaginatePurchaseOrders(ctx context.Context, limit int, after *string,
	branchId *int, status *PurchaseOrderStatus, orderNumber *string) (*PurchaseOrdersConnection, error) {

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
	if orderNumber != nil && *orderNumber != "" {
		dbCtx = dbCtx.Where("order_number LIKE ?", "%"+*orderNumber+"%")
	}

	edges, pageInfo, err := FetchPageCompositeCursor[PurchaseOrder](dbCtx, limit, after, "created_at", "<")
	if err != nil {
		return nil, err
	}
	var connection PurchaseOrdersConnection
	connection.PageInfo = pageInfo
	for _, edge := range edges {
		orderEdge := PurchaseOrdersEdge(edge)
		connection.Edges = append(connection.Edges, &orderEdge)
	}
	return &connection, nil
}
