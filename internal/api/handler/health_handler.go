package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/socialverse/pkg/response"
)

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (h *Handler) Health(c *gin.Context) {
	response.OK(c, gin.H{"message": "SocialVerse 2060 API is running", "status": "ok"})
}

// Relay 实时通知（websocket）
// @Summary 订阅 commentAdded 事件
// @Tags 系统
// @Success 101 {string} string "Switching Protocols"
// @Router /ws [get]
func (h *Handler) Relay(c *gin.Context) {
	h.hub.ServeWS(c.Writer, c.Request)
}
