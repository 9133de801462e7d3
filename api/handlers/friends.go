package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"checkin/models"
	"checkin/services"

	"github.com/gin-gonic/gin"
)

type FriendHandler struct {
	friends *services.FriendService
}

func NewFriendHandler(friends *services.FriendService) *FriendHandler {
	return &FriendHandler{friends: friends}
}

// List - обработчик списка друзей
func (h *FriendHandler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")

	friends, err := h.friends.ListFriends(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}

	c.JSON(http.StatusOK, friends)
}

// CreateRequest - обработчик отправки заявки в друзья
func (h *FriendHandler) CreateRequest(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req struct {
		FriendID int64 `json:"friendId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Friend ID is required"})
		return
	}

	request, err := h.friends.SendRequest(c.Request.Context(), userID, req.FriendID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfFriend):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot add yourself as friend"})
		case errors.Is(err, services.ErrRelationExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Friend request already exists or users are already friends"})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create friend request"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "friendRequest": request})
}

// Respond - обработчик ответа на заявку (принять или отклонить)
func (h *FriendHandler) Respond(c *gin.Context) {
	userID := c.GetInt64("user_id")

	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	status := strings.ToLower(req.Status)
	if status != models.FriendStatusAccepted && status != models.FriendStatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	request, err := h.friends.Respond(c.Request.Context(), requestID, userID, status)
	if err != nil {
		if errors.Is(err, services.ErrRequestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Friend request not found or already processed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update friend request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "friendRequest": request})
}

// Requests возвращает входящие и исходящие pending-заявки
func (h *FriendHandler) Requests(c *gin.Context) {
	userID := c.GetInt64("user_id")
	ctx := c.Request.Context()

	received, err := h.friends.PendingRequests(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friend requests"})
		return
	}

	sent, err := h.friends.SentRequests(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friend requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"receivedRequests": received,
		"sentRequests":     sent,
	})
}

// SentRequests возвращает только исходящие pending-заявки
func (h *FriendHandler) SentRequests(c *gin.Context) {
	userID := c.GetInt64("user_id")

	requests, err := h.friends.SentRequests(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sent friend requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// Search - поиск пользователей с аннотацией отношения
func (h *FriendHandler) Search(c *gin.Context) {
	userID := c.GetInt64("user_id")

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	users, err := h.friends.Search(c.Request.Context(), userID, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}
