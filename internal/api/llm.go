package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartchef/backend/internal/service"
	"github.com/smartchef/backend/internal/types"
)

// LLMHandler serves generated recipes
type LLMHandler struct {
	generator service.IRecipeGenerator
	recipes   service.RecipeStore
	logger    *zap.Logger
}

// NewLLMHandler creates a new LLMHandler instance. recipes may be nil, in
// which case generated recipes are not retrievable later.
func NewLLMHandler(generator service.IRecipeGenerator, recipes service.RecipeStore, logger *zap.Logger) *LLMHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMHandler{
		generator: generator,
		recipes:   recipes,
		logger:    logger.Named("llm-handler"),
	}
}

// GenerateRecipe handles POST /ai-recipe. Generation problems never surface
// as errors: the response carries the fallback recipe instead.
func (h *LLMHandler) GenerateRecipe(c *gin.Context) {
	var req types.AIRecipeRequest
	// An empty body, chunked or not, means "use the default items".
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result := h.generator.Run(c.Request.Context(), req.Items, req.Prefs)
	resp := types.AIRecipeResponse{
		Recipe:   result.Recipe,
		Fallback: result.Fallback,
		Attempts: result.Attempts,
	}

	if h.recipes != nil {
		stored := &types.StoredRecipe{
			Items:    result.Items,
			Recipe:   result.Recipe,
			Fallback: result.Fallback,
		}
		if err := h.recipes.Save(c.Request.Context(), stored); err != nil {
			h.logger.Warn("failed to store generated recipe", zap.Error(err))
		} else {
			resp.ID = stored.ID
		}
	}

	c.JSON(http.StatusOK, resp)
}

// GetRecipe handles GET /ai-recipe/:id
func (h *LLMHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid recipe id", err)
		return
	}
	if h.recipes == nil {
		respondError(c, http.StatusNotFound, "Recipe not found", nil)
		return
	}

	rec, err := h.recipes.Get(c.Request.Context(), id)
	if errors.Is(err, service.ErrRecipeNotFound) {
		respondError(c, http.StatusNotFound, "Recipe not found", nil)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load recipe", err)
		return
	}

	c.JSON(http.StatusOK, rec)
}
