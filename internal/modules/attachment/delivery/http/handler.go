package handler

import (
	"net/http"

	"anoa.com/collabhub/internal/modules/attachment/dto"
	attachment "anoa.com/collabhub/internal/modules/attachment/service"
	"anoa.com/collabhub/pkg/response"
	"github.com/gin-gonic/gin"
)

type AttachmentHandler struct {
	service attachment.AttachmentService
}

func NewAttachmentHandler(service attachment.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{service: service}
}

func (h *AttachmentHandler) UploadAttachment(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	var form dto.UploadForm
	if err := c.ShouldBind(&form); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.UploadAttachment(c.Request.Context(), form.Folder, file)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
