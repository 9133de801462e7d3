package handlers

import (
	"fmt"
	"net/http"

	"checkin/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	users *services.UserService
}

func NewAdminHandler(users *services.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

// DeleteUsers - массовое удаление пользователей по никнеймам вместе
// с их заявками, чекинами и токенами
func (h *AdminHandler) DeleteUsers(c *gin.Context) {
	var req struct {
		Usernames []string `json:"usernames"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Usernames == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "usernames must be an array"})
		return
	}

	deleted, err := h.users.DeleteUsers(c.Request.Context(), req.Usernames)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"deletedCount": deleted,
		"message":      fmt.Sprintf("Successfully deleted %d users and their associated data", deleted),
	})
}
