package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/bms_backend/models"
	"bitbucket.org/mmdatafocus/bms_backend/realtime"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/gin-gonic/gin"
)

func CheckoutHandler(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewSaleTransaction
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		sale, err := models.Checkout(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		if businessId, ok := utils.GetBusinessIdFromContext(c.Request.Context()); ok {
			hub.Publish(realtime.NewEnvelope(realtime.EventSaleCreated, businessId, sale.BranchId, sale))
			hub.Publish(realtime.NewEnvelope(realtime.EventStockChanged, businessId, sale.BranchId, gin.H{
				"branch_id":   sale.BranchId,
				"sale_number": sale.SaleNumber,
			}))
		}
		c.JSON(http.StatusCreated, sale)
	}
}

type voidSaleRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func VoidSaleHandler(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var req voidSaleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, err)
			return
		}
		sale, err := models.VoidSale(c.Request.Context(), id, req.Reason)
		if err != nil {
			respondError(c, err)
			return
		}
		if businessId, ok := utils.GetBusinessIdFromContext(c.Request.Context()); ok {
			hub.Publish(realtime.NewEnvelope(realtime.EventSaleVoided, businessId, sale.BranchId, sale))
			hub.Publish(realtime.NewEnvelope(realtime.EventStockChanged, businessId, sale.BranchId, gin.H{
				"branch_id":   sale.BranchId,
				"sale_number": sale.SaleNumber,
			}))
		}
		c.JSON(http.StatusOK, sale)
	}
}

func GetSaleTransactionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		sale, err := models.GetSaleTransaction(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sale)
	}
}

func PaginateSaleTransactionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var status *models.SaleStatus
		if v := c.Query("status"); v != "" {
			s := models.SaleStatus(v)
			status = &s
		}
		connection, err := models.PaginateSaleTransactions(c.Request.Context(), queryLimit(c), queryAfter(c),
			queryInt(c, "branch_id"), status, queryString(c, "sale_number"),
			queryDate(c, "from_date"), queryDate(c, "to_date"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, connection)
	}
}

func GetReceiptHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		html, err := models.RenderReceipt(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
	}
}
