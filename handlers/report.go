package handlers

import (
	"fmt"
	"net/http"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/models"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

func GetDailySummariesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		branchId := 0
		if v := queryInt(c, "branch_id"); v != nil {
			branchId = *v
		}
		fromDate := queryDate(c, "from_date")
		toDate := queryDate(c, "to_date")
		if fromDate == nil || toDate == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from_date and to_date are required"})
			return
		}
		summaries, err := models.GetDailySummaries(c.Request.Context(), branchId, *fromDate, *toDate)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summaries)
	}
}

type rebuildSummaryRequest struct {
	Date string `json:"date" binding:"required"`
}

// RebuildDailySummaryHandler recomputes the rollup for one date, used to
// backfill after voids or late postings. The nightly cron covers yesterday
// only.
func RebuildDailySummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req rebuildSummaryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, err)
			return
		}
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		businessId, ok := utils.GetBusinessIdFromContext(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if err := models.RebuildDailySummary(c.Request.Context(), businessId, date); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"rebuilt": req.Date})
	}
}

func ExportDailySummariesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		branchId := 0
		if v := queryInt(c, "branch_id"); v != nil {
			branchId = *v
		}
		fromDate := queryDate(c, "from_date")
		toDate := queryDate(c, "to_date")
		if fromDate == nil || toDate == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from_date and to_date are required"})
			return
		}
		summaries, err := models.GetDailySummaries(c.Request.Context(), branchId, *fromDate, *toDate)
		if err != nil {
			respondError(c, err)
			return
		}

		f := excelize.NewFile()
		if _, err := f.NewSheet("Sheet1"); err != nil {
			respondError(c, err)
			return
		}
		f.SetCellValue("Sheet1", "A1", "Date")
		f.SetCellValue("Sheet1", "B1", "Branch")
		f.SetCellValue("Sheet1", "C1", "Transactions")
		f.SetCellValue("Sheet1", "D1", "Sales")
		f.SetCellValue("Sheet1", "E1", "Discount")
		f.SetCellValue("Sheet1", "F1", "Tax")
		f.SetCellValue("Sheet1", "G1", "Cogs")
		f.SetCellValue("Sheet1", "H1", "ItemsSold")
		for i, s := range summaries {
			row := fmt.Sprint(i + 2)
			f.SetCellValue("Sheet1", "A"+row, s.SummaryDate.Format("2006-01-02"))
			f.SetCellValue("Sheet1", "B"+row, s.BranchId)
			f.SetCellValue("Sheet1", "C"+row, s.TransactionCount)
			f.SetCellValue("Sheet1", "D"+row, s.TotalSales.InexactFloat64())
			f.SetCellValue("Sheet1", "E"+row, s.TotalDiscount.InexactFloat64())
			f.SetCellValue("Sheet1", "F"+row, s.TotalTax.InexactFloat64())
			f.SetCellValue("Sheet1", "G"+row, s.TotalCogs.InexactFloat64())
			f.SetCellValue("Sheet1", "H"+row, s.ItemsSold.InexactFloat64())
		}

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename=sales-by-day.xlsx")
		if err := f.Write(c.Writer); err != nil {
			c.Status(http.StatusInternalServerError)
		}
	}
}

func ExportStockOnHandHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		summaries, err := models.GetStockSummaries(c.Request.Context(), queryInt(c, "branch_id"), nil)
		if err != nil {
			respondError(c, err)
			return
		}
		products, err := models.ListAllProducts(c.Request.Context(), nil)
		if err != nil {
			respondError(c, err)
			return
		}
		productNames := make(map[int]string, len(products))
		for _, p := range products {
			productNames[p.ID] = p.Name
		}

		f := excelize.NewFile()
		if _, err := f.NewSheet("Sheet1"); err != nil {
			respondError(c, err)
			return
		}
		f.SetCellValue("Sheet1", "A1", "Branch")
		f.SetCellValue("Sheet1", "B1", "Product")
		f.SetCellValue("Sheet1", "C1", "Qty")
		for i, s := range summaries {
			row := fmt.Sprint(i + 2)
			f.SetCellValue("Sheet1", "A"+row, s.BranchId)
			f.SetCellValue("Sheet1", "B"+row, productNames[s.ProductId])
			f.SetCellValue("Sheet1", "C"+row, s.CurrentQty.InexactFloat64())
		}

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename=stock-on-hand.xlsx")
		if err := f.Write(c.Writer); err != nil {
			c.Status(http.StatusInternalServerError)
		}
	}
}
