package handlers

import (
	"bitbucket.org/mmdatafocus/bms_backend/middlewares"
	"bitbucket.org/mmdatafocus/bms_backend/models"
	"bitbucket.org/mmdatafocus/bms_backend/realtime"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the REST surface. Session tokens come from the
// "token" header; POS terminals authenticate with a device JWT instead.
func RegisterRoutes(r *gin.Engine, hub *realtime.Hub) {

	r.POST("/auth/login", LoginHandler())
	r.POST("/pubsub", PubSubPushHandler())

	api := r.Group("/api", middlewares.SessionMiddleware(), middlewares.RequireSession())
	{
		api.POST("/auth/logout", LogoutHandler())
		api.POST("/auth/change-password", ChangePasswordHandler())

		api.GET("/business", GetBusinessHandler())

		api.GET("/branches", GetBranchesHandler())
		api.GET("/branches/all", ListAllBranchesHandler())
		api.GET("/branches/:id", GetBranchHandler())

		api.GET("/categories", GetProductCategoriesHandler())
		api.GET("/categories/all", ListAllProductCategoriesHandler())
		api.GET("/units", GetProductUnitsHandler())
		api.GET("/units/all", ListAllProductUnitsHandler())
		api.GET("/payment-modes", GetPaymentModesHandler())
		api.GET("/payment-modes/all", ListAllPaymentModesHandler())

		api.GET("/products", PaginateProductsHandler())
		api.GET("/products/all", ListAllProductsHandler())
		api.GET("/products/:id", GetProductHandler())
		api.GET("/products/code/:code", GetProductByCodeHandler())

		api.GET("/suppliers", PaginateSuppliersHandler())
		api.GET("/suppliers/:id", GetSupplierHandler())

		api.GET("/customers", PaginateCustomersHandler())
		api.GET("/customers/list", GetCustomersHandler())
		api.GET("/customers/:id", GetCustomerHandler())
		api.POST("/customers", CreateCustomerHandler())
		api.PUT("/customers/:id", UpdateCustomerHandler())

		api.GET("/stock/summaries", GetStockSummariesHandler())
		api.GET("/stock/low", GetLowStockProductsHandler())
		api.GET("/stock/histories", PaginateStockHistoriesHandler())

		api.POST("/adjustments", CreateStockAdjustmentHandler())
		api.GET("/adjustments", PaginateStockAdjustmentsHandler())
		api.GET("/adjustments/:id", GetStockAdjustmentHandler())

		api.POST("/sales", CheckoutHandler(hub))
		api.GET("/sales", PaginateSaleTransactionsHandler())
		api.GET("/sales/:id", GetSaleTransactionHandler())
		api.GET("/sales/:id/receipt", GetReceiptHandler())

		api.POST("/attendance/clock-in", ClockInHandler(hub))
		api.POST("/attendance/clock-out", ClockOutHandler(hub))
		api.GET("/attendance", GetAttendancesHandler())

		api.POST("/messages", SendMessageHandler(hub))
		api.GET("/messages/unread-count", GetUnreadMessageCountHandler())
		api.GET("/messages/conversation/:id", PaginateConversationHandler())
		api.POST("/messages/conversation/:id/read", MarkConversationReadHandler())

		api.POST("/uploads/product-image", UploadProductImageHandler())
	}

	// Managers and admins: approvals, purchasing, accounting, reports.
	manage := r.Group("/api", middlewares.SessionMiddleware(), middlewares.RequireSession(),
		middlewares.RequireRole(string(models.UserRoleAdmin), string(models.UserRoleManager)))
	{
		manage.POST("/adjustments/:id/approve", ApproveStockAdjustmentHandler(hub))
		manage.POST("/adjustments/:id/reject", RejectStockAdjustmentHandler(hub))

		manage.POST("/sales/:id/void", VoidSaleHandler(hub))

		manage.POST("/purchase-orders", CreatePurchaseOrderHandler())
		manage.PUT("/purchase-orders/:id", UpdatePurchaseOrderHandler())
		manage.POST("/purchase-orders/:id/order", MarkPurchaseOrderOrderedHandler())
		manage.POST("/purchase-orders/:id/cancel", CancelPurchaseOrderHandler())
		manage.POST("/purchase-orders/:id/receive", ReceivePurchaseOrderHandler(hub))
		manage.DELETE("/purchase-orders/:id", DeletePurchaseOrderHandler())
		manage.GET("/purchase-orders", PaginatePurchaseOrdersHandler())
		manage.GET("/purchase-orders/:id", GetPurchaseOrderHandler())

		manage.POST("/suppliers", CreateSupplierHandler())
		manage.PUT("/suppliers/:id", UpdateSupplierHandler())
		manage.DELETE("/suppliers/:id", DeleteSupplierHandler())
		manage.POST("/suppliers/:id/toggle-active", ToggleActiveSupplierHandler())

		manage.DELETE("/customers/:id", DeleteCustomerHandler())
		manage.POST("/customers/:id/toggle-active", ToggleActiveCustomerHandler())

		manage.POST("/products", CreateProductHandler())
		manage.PUT("/products/:id", UpdateProductHandler())
		manage.DELETE("/products/:id", DeleteProductHandler())
		manage.POST("/products/:id/toggle-active", ToggleActiveProductHandler())

		manage.POST("/categories", CreateProductCategoryHandler())
		manage.PUT("/categories/:id", UpdateProductCategoryHandler())
		manage.DELETE("/categories/:id", DeleteProductCategoryHandler())
		manage.POST("/categories/:id/toggle-active", ToggleActiveProductCategoryHandler())

		manage.POST("/units", CreateProductUnitHandler())
		manage.PUT("/units/:id", UpdateProductUnitHandler())
		manage.DELETE("/units/:id", DeleteProductUnitHandler())
		manage.POST("/units/:id/toggle-active", ToggleActiveProductUnitHandler())

		manage.GET("/accounts", GetAccountsHandler())
		manage.GET("/accounts/all", ListAllAccountsHandler())
		manage.GET("/accounts/:id", GetAccountHandler())

		manage.POST("/journals", CreateJournalHandler())
		manage.GET("/journals", PaginateJournalsHandler())
		manage.GET("/journals/:id", GetJournalHandler())

		manage.GET("/reports/daily-summaries", GetDailySummariesHandler())
		manage.POST("/reports/daily-summaries/rebuild", RebuildDailySummaryHandler())
		manage.GET("/reports/daily-summaries/export", ExportDailySummariesHandler())
		manage.GET("/reports/stock-on-hand/export", ExportStockOnHandHandler())

		manage.GET("/histories", GetHistoriesHandler())
	}

	admin := r.Group("/api", middlewares.SessionMiddleware(), middlewares.RequireSession(),
		middlewares.RequireRole(string(models.UserRoleAdmin)))
	{
		admin.POST("/business", CreateBusinessHandler())
		admin.PUT("/business", UpdateBusinessHandler())

		admin.POST("/branches", CreateBranchHandler())
		admin.PUT("/branches/:id", UpdateBranchHandler())
		admin.DELETE("/branches/:id", DeleteBranchHandler())
		admin.POST("/branches/:id/toggle-active", ToggleActiveBranchHandler())

		admin.POST("/users", CreateUserHandler())
		admin.PUT("/users/:id", UpdateUserHandler())
		admin.DELETE("/users/:id", DeleteUserHandler())
		admin.GET("/users", GetUsersHandler())
		admin.GET("/users/:id", GetUserHandler())
		admin.POST("/users/:id/toggle-active", ToggleActiveUserHandler())

		admin.POST("/roles", CreateRoleHandler())
		admin.PUT("/roles/:id", UpdateRoleHandler())
		admin.DELETE("/roles/:id", DeleteRoleHandler())
		admin.GET("/roles", GetRolesHandler())
		admin.GET("/roles/all", ListAllRolesHandler())
		admin.GET("/roles/:id", GetRoleHandler())
		admin.GET("/modules", GetModulesHandler())

		admin.POST("/payment-modes", CreatePaymentModeHandler())
		admin.PUT("/payment-modes/:id", UpdatePaymentModeHandler())
		admin.DELETE("/payment-modes/:id", DeletePaymentModeHandler())
		admin.POST("/payment-modes/:id/toggle-active", ToggleActivePaymentModeHandler())

		admin.POST("/accounts", CreateAccountHandler())
		admin.PUT("/accounts/:id", UpdateAccountHandler())
		admin.DELETE("/accounts/:id", DeleteAccountHandler())
		admin.POST("/accounts/:id/toggle-active", ToggleActiveAccountHandler())

		admin.POST("/devices", RegisterDeviceHandler())

		admin.POST("/internal/ops/outbox/replay", OutboxReplayHandler())
		admin.GET("/internal/ops/outbox/stuck", StuckOutboxRecordsHandler())
	}

	// POS terminals: device JWT carries business and branch, no user session.
	device := r.Group("/device", middlewares.DeviceMiddleware())
	{
		device.GET("/products/code/:code", GetProductByCodeHandler())
		device.GET("/products", PaginateProductsHandler())
		device.POST("/sales", CheckoutHandler(hub))
		device.GET("/sales/:id/receipt", GetReceiptHandler())
		device.GET("/ws", WebSocketHandler(hub))
	}

	r.GET("/ws", middlewares.SessionMiddleware(), middlewares.RequireSession(), WebSocketHandler(hub))
}
