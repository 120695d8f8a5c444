package handler

import (
	"net/http"

	"anoa.com/collabhub/internal/modules/project/dto"
	project "anoa.com/collabhub/internal/modules/project/service"
	commonDto "anoa.com/collabhub/pkg/dto"
	"anoa.com/collabhub/pkg/response"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	service project.ProjectService
}

func NewProjectHandler(service project.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	var filter dto.ProjectFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	projects, err := h.service.ListProjects(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req dto.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.service.CreateProject(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	result, err := h.service.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var req dto.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.service.UpdateProject(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	var query dto.DeleteQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.service.DeleteProject(c.Request.Context(), c.Param("id"), query.UserID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, commonDto.DeletedResponse{Deleted: true})
}

func (h *ProjectHandler) JoinProject(c *gin.Context) {
	var query dto.MemberQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.service.JoinProject(c.Request.Context(), c.Param("id"), query.UserID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, commonDto.JoinedResponse{Joined: true})
}

func (h *ProjectHandler) LeaveProject(c *gin.Context) {
	var query dto.MemberQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.service.LeaveProject(c.Request.Context(), c.Param("id"), query.UserID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, commonDto.LeftResponse{Left: true})
}

func (h *ProjectHandler) ListMembers(c *gin.Context) {
	members, err := h.service.ListMembers(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}
