package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/bms_backend/models"
	"bitbucket.org/mmdatafocus/bms_backend/realtime"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/gin-gonic/gin"
)

func CreatePurchaseOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewPurchaseOrder
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		order, err := models.CreatePurchaseOrder(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func UpdatePurchaseOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var input models.NewPurchaseOrder
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		order, err := models.UpdatePurchaseOrder(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func MarkPurchaseOrderOrderedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		order, err := models.MarkPurchaseOrderOrdered(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func CancelPurchaseOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		order, err := models.CancelPurchaseOrder(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func ReceivePurchaseOrderHandler(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		order, err := models.ReceivePurchaseOrder(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		if businessId, ok := utils.GetBusinessIdFromContext(c.Request.Context()); ok {
			hub.Publish(realtime.NewEnvelope(realtime.EventStockChanged, businessId, order.BranchId, gin.H{
				"branch_id":    order.BranchId,
				"order_number": order.OrderNumber,
			}))
		}
		c.JSON(http.StatusOK, order)
	}
}

func DeletePurchaseOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		order, err := models.DeletePurchaseOrder(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func GetPurchaseOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		order, err := models.GetPurchaseOrder(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func PaginatePurchaseOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var status *models.PurchaseOrderStatus
		if v := c.Query("status"); v != "" {
			s := models.PurchaseOrderStatus(v)
			status = &s
		}
		connection, err := models.PaginatePurchaseOrders(c.Request.Context(), queryLimit(c), queryAfter(c),
			queryInt(c, "branch_id"), status, queryString(c, "order_number"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, connection)
	}
}
