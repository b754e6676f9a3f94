package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

// DailySummary is a small, query-friendly aggregate table used by dashboards.
//
// Grain: (business_id, branch_id, summary_date).
// NOTE: derived data, rebuildable from sale_transactions at any time.
type DailySummary struct {
	BusinessId  string    `gorm:"primaryKey;size:64;index:idx_ds_biz_date,priority:1" json:"business_id"`
	BranchId    int       `gorm:"primaryKey" json:"branch_id"`
	SummaryDate time.Time `gorm:"primaryKey;type:date;index:idx_ds_biz_date,priority:2" json:"summary_date"`

	TotalSales       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_sales"`
	TotalDiscount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_discount"`
	TotalTax         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_tax"`
	TotalCogs        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_cogs"`
	TransactionCount int64           `gorm:"default:0" json:"transaction_count"`
	ItemsSold        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"items_sold"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type dailySummaryRow struct {
	BranchId         int
	TotalSales       decimal.Decimal
	TotalDiscount    decimal.Decimal
	TotalTax         decimal.Decimal
	TotalCogs        decimal.Decimal
	TransactionCount int64
	ItemsSold        decimal.Decimal
}

// RebuildDailySummary recomputes one day's rows for a business from completed
// sales and upserts them. Safe to run repeatedly.
func RebuildDailySummary(ctx context.Context, businessId string, date time.Time) error {

	// the business day runs midnight to midnight in the business timezone
	timezone := ""
	if business, err := GetBusinessById(ctx, businessId); err == nil {
		timezone = business.Timezone
	}
	dayStart, err := utils.ConvertToDate(date, timezone)
	if err != nil {
		dayStart = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	}
	dayEnd := dayStart.Add(24 * time.Hour)

	db := config.GetDB()

	var rows []dailySummaryRow
	if err := db.WithContext(ctx).Model(&SaleTransaction{}).
		Select(`branch_id,
			COALESCE(SUM(total), 0) AS total_sales,
			COALESCE(SUM(discount_amount), 0) AS total_discount,
			COALESCE(SUM(tax_amount), 0) AS total_tax,
			COALESCE(SUM(cogs_total), 0) AS total_cogs,
			COUNT(*) AS transaction_count`).
		Where("business_id = ? AND status = ? AND sale_date_time >= ? AND sale_date_time < ?",
			businessId, SaleStatusCompleted, dayStart, dayEnd).
		Group("branch_id").
		Scan(&rows).Error; err != nil {
		return err
	}

	for i, row := range rows {
		var itemsSold decimal.NullDecimal
		if err := db.WithContext(ctx).Model(&SaleDetail{}).
			Select("SUM(sale_details.qty)").
			Joins("JOIN sale_transactions ON sale_transactions.id = sale_details.sale_transaction_id").
			Where("sale_transactions.business_id = ? AND sale_transactions.branch_id = ? AND sale_transactions.status = ?",
				businessId, row.BranchId, SaleStatusCompleted).
			Where("sale_transactions.sale_date_time >= ? AND sale_transactions.sale_date_time < ?", dayStart, dayEnd).
			Scan(&itemsSold).Error; err != nil {
			return err
		}
		if itemsSold.Valid {
			rows[i].ItemsSold = itemsSold.Decimal
		}
	}

	for _, row := range rows {
		summary := DailySummary{
			BusinessId:       businessId,
			BranchId:         row.BranchId,
			SummaryDate:      dayStart,
			TotalSales:       row.TotalSales,
			TotalDiscount:    row.TotalDiscount,
			TotalTax:         row.TotalTax,
			TotalCogs:        row.TotalCogs,
			TransactionCount: row.TransactionCount,
			ItemsSold:        row.ItemsSold,
		}
		if err := db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "business_id"}, {Name: "branch_id"}, {Name: "summary_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_sales", "total_discount", "total_tax", "total_cogs",
				"transaction_count", "items_sold", "updated_at"}),
		}).Create(&summary).Error; err != nil {
			return err
		}
	}
	return nil
}

// RebuildDailySummariesForAll runs the roll-up for every active business.
func RebuildDailySummariesForAll(ctx context.Context, date time.Time) error {
	db := config.GetDB()
	var businessIds []string
	if err := db.WithContext(ctx).Model(&Business{}).
		Where("is_active = ?", true).
		Pluck("id", &businessIds).Error; err != nil {
		return err
	}
	for _, businessId := range businessIds {
		if err := RebuildDailySummary(ctx, businessId, date); err != nil {
			config.GetLogger().Errorf("daily summary rebuild failed for %s: %v", businessId, err)
		}
	}
	return nil
}

// GetDailySummaries lists summaries for a branch over a date range.
func GetDailySummaries(ctx context.Context, branchId int, fromDate time.Time, toDate time.Time) ([]*DailySummary, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId).
		Where("summary_date BETWEEN ? AND ?", fromDate, toDate)
	if branchId > 0 {
		dbCtx = dbCtx.Where("branch_id = ?", branchId)
	}

	var results []*DailySummary
	if err := dbCtx.Order("summary_date").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
