package handler

import (
	"net/http"

	"anoa.com/collabhub/internal/modules/chat/dto"
	chat "anoa.com/collabhub/internal/modules/chat/service"
	commonDto "anoa.com/collabhub/pkg/dto"
	"anoa.com/collabhub/pkg/response"
	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	service chat.ChatService
}

func NewChatHandler(service chat.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) GetChat(c *gin.Context) {
	var query commonDto.LimitQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	messages, err := h.service.GetChat(c.Request.Context(), c.Param("id"), query.Limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

func (h *ChatHandler) PostChat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.service.PostChat(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
