package handler

import (
	"net/http"

	"anoa.com/collabhub/internal/modules/system/dto"
	system "anoa.com/collabhub/internal/modules/system/service"
	"anoa.com/collabhub/pkg/response"
	"github.com/gin-gonic/gin"
)

const rootMessage = "Collaborative Project Management Backend Running"

type SystemHandler struct {
	service system.SystemService
}

func NewSystemHandler(service system.SystemService) *SystemHandler {
	return &SystemHandler{service: service}
}

func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, dto.RootResponse{Message: rootMessage})
}

func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *SystemHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Status(c.Request.Context()))
}

func (h *SystemHandler) Schema(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Schema())
}

func (h *SystemHandler) Seed(c *gin.Context) {
	result, err := h.service.Seed(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
