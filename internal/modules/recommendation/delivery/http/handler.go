package handler

import (
	"net/http"

	recommendation "anoa.com/collabhub/internal/modules/recommendation/service"
	commonDto "anoa.com/collabhub/pkg/dto"
	"anoa.com/collabhub/pkg/response"
	"github.com/gin-gonic/gin"
)

type RecommendationHandler struct {
	service recommendation.RecommendationService
}

func NewRecommendationHandler(service recommendation.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var query commonDto.LimitQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	projects, err := h.service.Recommend(c.Request.Context(), c.Param("id"), query.Limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, projects)
}
