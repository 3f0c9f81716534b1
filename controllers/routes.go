package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/oneair/oneair-store-api/middleware"
)

// RegisterAdminRoutes mounts the admin console API on a group that has already authenticated the caller
func RegisterAdminRoutes(admin *gin.RouterGroup) {
	read := admin.Group("", middleware.RequireRole(middleware.ReadRoles...))
	{
		read.GET("/orders", ListOrders)
		read.GET("/orders/stats", GetOrderStats)
		read.GET("/orders/alerts", StreamOrderAlerts)
		read.GET("/orders/:id", GetOrder)
		read.GET("/products/:id", GetProduct)
	}

	write := admin.Group("", middleware.RequireRole(middleware.WriteRoles...))
	{
		write.PATCH("/orders/:id/status", UpdateOrderStatus)
		write.PATCH("/orders/:id", UpdateOrder)
		write.DELETE("/orders/:id", DeleteOrder)
		write.POST("/orders/bulk/cancel", BulkCancelOrders)
		write.POST("/orders/bulk/delete", BulkDeleteOrders)
		write.POST("/products/:id/image", UploadProductImage)
	}

	settings := admin.Group("", middleware.RequireRole(middleware.SettingsRoles...))
	{
		settings.GET("/settings", GetSettings)
		settings.PUT("/settings", UpdateSettings)
	}
}
