package handlers

import (
	"net/http"

	"checkin/services"

	"github.com/gin-gonic/gin"
)

type ShitChatHandler struct {
	shitChat *services.ShitChatService
}

func NewShitChatHandler(shitChat *services.ShitChatService) *ShitChatHandler {
	return &ShitChatHandler{shitChat: shitChat}
}

// Get всегда отвечает 200 - у сервиса контента нет сценария отказа
func (h *ShitChatHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.shitChat.Get(c.Request.Context()))
}
