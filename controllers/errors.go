package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oneair/oneair-store-api/middleware"
	"github.com/oneair/oneair-store-api/repository"
	"github.com/oneair/oneair-store-api/services"
	"github.com/oneair/oneair-store-api/utils"
)

// respondError writes the error envelope matching err
func respondError(c *gin.Context, err error, notFoundCode string) {
	status, code := http.StatusInternalServerError, "DATABASE_ERROR"

	var uploadErr *utils.FileUploadError
	switch {
	case errors.As(err, &uploadErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    uploadErr.Code,
				"message": uploadErr.Message,
			},
		})
		return
	case errors.Is(err, repository.ErrNotFound):
		status, code = http.StatusNotFound, notFoundCode
	case errors.Is(err, services.ErrInvalidTransition):
		status, code = http.StatusBadRequest, "INVALID_TRANSITION"
	case errors.Is(err, repository.ErrValidation):
		status, code = http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, repository.ErrConflict):
		status, code = http.StatusConflict, "STATUS_CONFLICT"
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Any("error", err))
		message = "Failed to process request"
	}

	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// actor returns the subject of the caller's token for audit logging
func actor(c *gin.Context) string {
	userID, _ := middleware.GetUserID(c)
	return userID
}
