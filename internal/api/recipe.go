package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartchef/backend/internal/service"
	"github.com/smartchef/backend/internal/types"
)

// RecipeHandler ranks catalog recipes for explicit item lists
type RecipeHandler struct {
	recommender service.IRecommendationService
}

func NewRecipeHandler(recommender service.IRecommendationService) *RecipeHandler {
	return &RecipeHandler{recommender: recommender}
}

// Recommend handles POST /recommend
func (h *RecipeHandler) Recommend(c *gin.Context) {
	var req types.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "items are required", err)
		return
	}

	items := service.NormalizeItems(req.Items)
	c.JSON(http.StatusOK, types.RecommendResponse{
		Items:   items,
		Recipes: h.recommender.Recommend(c.Request.Context(), items),
	})
}
