package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oneair/oneair-store-api/models"
	"github.com/oneair/oneair-store-api/services"
)

// UpdateOrderStatusRequest represents the request body for changing an order's status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// BulkOrdersRequest carries the ids checked in the orders table
type BulkOrdersRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// ListOrders handles GET /api/v1/admin/orders - lists orders newest first, filtered by search and status
func ListOrders(c *gin.Context) {
	var filter services.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBindError(c, err)
		return
	}

	orders, err := services.GetOrderManager().ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, err, "ORDER_NOT_FOUND")
		return
	}

	filtered := services.FilterOrders(orders, filter)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    filtered,
		"meta": gin.H{
			"total":    len(orders),
			"filtered": len(filtered),
		},
	})
}

// GetOrderStats handles GET /api/v1/admin/orders/stats - counters shown above the orders table
func GetOrderStats(c *gin.Context) {
	orders, err := services.GetOrderManager().ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, err, "ORDER_NOT_FOUND")
		return
	}

	labels := make(map[models.OrderStatus]string, len(models.OrderStatuses))
	for _, status := range models.OrderStatuses {
		labels[status] = status.Label()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    services.ComputeStats(orders),
		"labels":  labels,
	})
}

// GetOrder handles GET /api/v1/admin/orders/:id - returns one order with its items
func GetOrder(c *gin.Context) {
	order, err := services.GetOrderManager().GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "ORDER_NOT_FOUND")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrderStatus handles PATCH /api/v1/admin/orders/:id/status
func UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := services.GetOrderManager().ChangeStatus(c.Request.Context(), c.Param("id"), models.OrderStatus(strings.TrimSpace(req.Status)))
	if err != nil {
		respondError(c, err, "ORDER_NOT_FOUND")
		return
	}

	slog.Info("order status updated by admin",
		slog.String("order_id", result.Order.ID),
		slog.String("actor", actor(c)),
		slog.String("status", string(result.Order.Status)))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// UpdateOrder handles PATCH /api/v1/admin/orders/:id - the edit form
func UpdateOrder(c *gin.Context) {
	var req services.OrderEdit
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if req.CustomerName == nil && req.Phone == nil && req.ShippingAddress == nil && req.Notes == nil && req.Status == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "No fields to update",
			},
		})
		return
	}

	result, err := services.GetOrderManager().EditFields(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "ORDER_NOT_FOUND")
		return
	}

	slog.Info("order edited by admin",
		slog.String("order_id", result.Order.ID),
		slog.String("actor", actor(c)))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// DeleteOrder handles DELETE /api/v1/admin/orders/:id
func DeleteOrder(c *gin.Context) {
	result, err := services.GetOrderManager().DeleteOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "ORDER_NOT_FOUND")
		return
	}

	slog.Info("order deleted by admin",
		slog.String("order_id", result.OrderID),
		slog.String("actor", actor(c)))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// BulkCancelOrders handles POST /api/v1/admin/orders/bulk/cancel
func BulkCancelOrders(c *gin.Context) {
	bulkOrders(c, "cancel", services.GetOrderManager().BulkCancel)
}

// BulkDeleteOrders handles POST /api/v1/admin/orders/bulk/delete
func BulkDeleteOrders(c *gin.Context) {
	bulkOrders(c, "delete", services.GetOrderManager().BulkDelete)
}

func bulkOrders(c *gin.Context, action string, run func(ctx context.Context, ids []string) (*services.BulkResult, error)) {
	var req BulkOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := run(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, err, "ORDER_NOT_FOUND")
		return
	}

	slog.Info("bulk order action by admin",
		slog.String("action", action),
		slog.String("actor", actor(c)),
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", result.Failed))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}
