package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oneair/oneair-store-api/services"
)

// GetProduct handles GET /api/v1/admin/products/:id - returns the product with a temporary image URL
func GetProduct(c *gin.Context) {
	product, err := services.GetImageService().GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "PRODUCT_NOT_FOUND")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// UploadProductImage handles POST /api/v1/admin/products/:id/image - replaces the product photo
func UploadProductImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "An image file is required in the 'image' field",
			},
		})
		return
	}

	product, err := services.GetImageService().UploadProductImage(c.Request.Context(), c.Param("id"), fileHeader)
	if err != nil {
		respondError(c, err, "PRODUCT_NOT_FOUND")
		return
	}

	slog.Info("product image uploaded",
		slog.String("product_id", product.ID),
		slog.String("actor", actor(c)))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}
