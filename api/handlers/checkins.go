package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"checkin/api/middleware"
	"checkin/services"

	"github.com/gin-gonic/gin"
)

type CheckInHandler struct {
	checkIns *services.CheckInService
}

func NewCheckInHandler(checkIns *services.CheckInService) *CheckInHandler {
	return &CheckInHandler{checkIns: checkIns}
}

// Start - обработчик начала чекина
func (h *CheckInHandler) Start(c *gin.Context) {
	userID := c.GetInt64("user_id")

	checkIn, err := h.checkIns.Start(c.Request.Context(), userID)
	middleware.RecordCheckInOperation("start", err)
	if err != nil {
		if errors.Is(err, services.ErrActiveCheckIn) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You already have an active check-in"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create check-in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "checkIn": checkIn})
}

// Checkout - обработчик завершения чекина
func (h *CheckInHandler) Checkout(c *gin.Context) {
	userID := c.GetInt64("user_id")

	checkInID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid check-in ID"})
		return
	}

	checkIn, err := h.checkIns.Checkout(c.Request.Context(), checkInID, userID)
	middleware.RecordCheckInOperation("checkout", err)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCheckInNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Check-in not found"})
		case errors.Is(err, services.ErrCheckInClosed):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Check-in already completed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkIn": checkIn})
}

// Current возвращает открытый чекин пользователя или null
func (h *CheckInHandler) Current(c *gin.Context) {
	userID := c.GetInt64("user_id")

	checkIn, err := h.checkIns.Current(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkIn": checkIn})
}

// Stats возвращает статистику чекинов пользователя
func (h *CheckInHandler) Stats(c *gin.Context) {
	userID := c.GetInt64("user_id")

	stats, err := h.checkIns.Stats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
