package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oneair/oneair-store-api/services"
)

// GetSettings handles GET /api/v1/admin/settings
func GetSettings(c *gin.Context) {
	settings, err := services.GetSettingsService().Get(c.Request.Context())
	if err != nil {
		respondError(c, err, "SETTINGS_NOT_FOUND")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    settings,
	})
}

// UpdateSettings handles PUT /api/v1/admin/settings - store identity and notification switches
func UpdateSettings(c *gin.Context) {
	var req services.SettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	settings, err := services.GetSettingsService().Update(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "SETTINGS_NOT_FOUND")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    settings,
	})
}
