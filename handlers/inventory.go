package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/bms_backend/models"
	"bitbucket.org/mmdatafocus/bms_backend/realtime"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/gin-gonic/gin"
)

func GetStockSummariesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		summaries, err := models.GetStockSummaries(c.Request.Context(), queryInt(c, "branch_id"), queryInt(c, "product_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summaries)
	}
}

func GetLowStockProductsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := models.GetLowStockProducts(c.Request.Context(), queryInt(c, "branch_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func PaginateStockHistoriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var referenceType *models.StockReferenceType
		if v := c.Query("reference_type"); v != "" {
			rt := models.StockReferenceType(v)
			referenceType = &rt
		}
		connection, err := models.PaginateStockHistories(c.Request.Context(), queryLimit(c), queryAfter(c),
			queryInt(c, "branch_id"), queryInt(c, "product_id"), referenceType)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, connection)
	}
}

func CreateStockAdjustmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewStockAdjustment
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		adjustment, err := models.CreateStockAdjustment(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, adjustment)
	}
}

func ApproveStockAdjustmentHandler(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		adjustment, err := models.ApproveStockAdjustment(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		if businessId, ok := utils.GetBusinessIdFromContext(c.Request.Context()); ok {
			hub.Publish(realtime.NewEnvelope(realtime.EventStockAdjustmentReviewed, businessId, adjustment.BranchId, adjustment))
			hub.Publish(realtime.NewEnvelope(realtime.EventStockChanged, businessId, adjustment.BranchId, gin.H{
				"branch_id":  adjustment.BranchId,
				"product_id": adjustment.ProductId,
			}))
		}
		c.JSON(http.StatusOK, adjustment)
	}
}

type rejectAdjustmentRequest struct {
	ReviewNote string `json:"review_note" binding:"required"`
}

func RejectStockAdjustmentHandler(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var req rejectAdjustmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, err)
			return
		}
		adjustment, err := models.RejectStockAdjustment(c.Request.Context(), id, req.ReviewNote)
		if err != nil {
			respondError(c, err)
			return
		}
		if businessId, ok := utils.GetBusinessIdFromContext(c.Request.Context()); ok {
			hub.Publish(realtime.NewEnvelope(realtime.EventStockAdjustmentReviewed, businessId, adjustment.BranchId, adjustment))
		}
		c.JSON(http.StatusOK, adjustment)
	}
}

func GetStockAdjustmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		adjustment, err := models.GetStockAdjustment(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, adjustment)
	}
}

func PaginateStockAdjustmentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var status *models.AdjustmentStatus
		if v := c.Query("status"); v != "" {
			s := models.AdjustmentStatus(v)
			status = &s
		}
		connection, err := models.PaginateStockAdjustments(c.Request.Context(), queryLimit(c), queryAfter(c),
			queryInt(c, "branch_id"), status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, connection)
	}
}
