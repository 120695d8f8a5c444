package handler

import (
	"net/http"

	"anoa.com/collabhub/internal/modules/collaboration/dto"
	collaboration "anoa.com/collabhub/internal/modules/collaboration/service"
	commonDto "anoa.com/collabhub/pkg/dto"
	"anoa.com/collabhub/pkg/response"
	"github.com/gin-gonic/gin"
)

type CollaborationHandler struct {
	service collaboration.CollaborationService
}

func NewCollaborationHandler(service collaboration.CollaborationService) *CollaborationHandler {
	return &CollaborationHandler{service: service}
}

func (h *CollaborationHandler) RequestCollaboration(c *gin.Context) {
	var body dto.CollaborationRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.service.Request(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *CollaborationHandler) ListRequests(c *gin.Context) {
	requests, err := h.service.ListRequests(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (h *CollaborationHandler) Respond(c *gin.Context) {
	var req dto.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	status, err := h.service.Respond(c.Request.Context(), c.Param("id"), req.Decision)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, commonDto.StatusResponse{Status: status})
}
