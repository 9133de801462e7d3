package handlers

import (
	"net/http"

	"checkin/services"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	leaderboard *services.LeaderboardService
}

func NewLeaderboardHandler(leaderboard *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// Get возвращает таблицу лидеров за daily или weekly окно
func (h *LeaderboardHandler) Get(c *gin.Context) {
	userID := c.GetInt64("user_id")

	timeframe := c.DefaultQuery("timeframe", services.TimeframeDaily)
	if timeframe != services.TimeframeDaily && timeframe != services.TimeframeWeekly {
		c.JSON(http.StatusBadRequest, gin.H{"error": "timeframe must be 'daily' or 'weekly'"})
		return
	}

	leaderboard, err := h.leaderboard.Compute(c.Request.Context(), userID, timeframe)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": leaderboard})
}
