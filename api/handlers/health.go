package handlers

import (
	"net/http"
	"time"

	"checkin/db"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	db *db.Manager
}

func NewHealthHandler(manager *db.Manager) *HealthHandler {
	return &HealthHandler{db: manager}
}

// Get - проба доступности базы данных
func (h *HealthHandler) Get(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":    "error",
			"database":  "disconnected",
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
