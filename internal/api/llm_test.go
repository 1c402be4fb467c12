package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smartchef/backend/internal/api"
	"github.com/smartchef/backend/internal/mocks"
	"github.com/smartchef/backend/internal/service"
	"github.com/smartchef/backend/internal/types"
)

const generatedRecipe = `Sure! {"title":"Banana Apple Salad","ingredients":["1 apple","1 banana"],"steps":["Chop the fruit.","Toss and serve."],"notes":[]}`

func llmRouter(llm service.TextGenerator, store service.RecipeStore) *gin.Engine {
	gen := service.NewRecipeGenerator(llm, service.GenerateOptions{MaxRetries: 1, Backoff: time.Millisecond}, nil, nil)
	h := api.NewLLMHandler(gen, store, nil)

	r := gin.New()
	r.POST("/ai-recipe", h.GenerateRecipe)
	r.GET("/ai-recipe/:id", h.GetRecipe)
	return r
}

func TestGenerateRecipe(t *testing.T) {
	llm := new(mocks.MockTextGenerator)
	llm.On("Complete", mock.Anything, mock.MatchedBy(func(req service.CompletionRequest) bool {
		return strings.Contains(req.User, "Items: apple, banana")
	})).Return(generatedRecipe, nil).Once()
	store := service.NewMemoryRecipeStore(time.Hour)
	r := llmRouter(llm, store)

	w := doJSON(t, r, http.MethodPost, "/ai-recipe", types.AIRecipeRequest{
		Items: []string{"Banana", "apple"},
		Prefs: types.Preferences{"vegan": true},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.AIRecipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Fallback)
	assert.Equal(t, 1, resp.Attempts)
	assert.Equal(t, "Banana Apple Salad", resp.Recipe.Title)
	assert.NotEqual(t, uuid.Nil, resp.ID)

	w = doJSON(t, r, http.MethodGet, "/ai-recipe/"+resp.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stored types.StoredRecipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.Equal(t, resp.Recipe, stored.Recipe)
	assert.Equal(t, []string{"apple", "banana"}, stored.Items)
	llm.AssertExpectations(t)
}

func TestGenerateRecipe_FallsBackInsteadOfFailing(t *testing.T) {
	llm := new(mocks.MockTextGenerator)
	llm.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("upstream down")).Twice()
	r := llmRouter(llm, service.NewMemoryRecipeStore(time.Hour))

	w := doJSON(t, r, http.MethodPost, "/ai-recipe", types.AIRecipeRequest{Items: []string{"bread", "cheese"}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.AIRecipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Fallback)
	assert.Equal(t, 2, resp.Attempts)
	assert.Equal(t, service.FallbackRecipe([]string{"bread", "cheese"}), resp.Recipe)
	llm.AssertExpectations(t)
}

func TestGenerateRecipe_EmptyBodyUsesDefaults(t *testing.T) {
	tests := []struct {
		name          string
		contentLength int64
	}{
		{"no body", 0},
		{"empty chunked body", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := new(mocks.MockTextGenerator)
			llm.On("Complete", mock.Anything, mock.MatchedBy(func(req service.CompletionRequest) bool {
				return strings.Contains(req.User, "Items: bread, cheese, tomato")
			})).Return("not json", nil).Twice()
			r := llmRouter(llm, nil)

			req := httptest.NewRequest(http.MethodPost, "/ai-recipe", strings.NewReader(""))
			req.Header.Set("Content-Type", "application/json")
			req.ContentLength = tt.contentLength
			if tt.contentLength < 0 {
				req.TransferEncoding = []string{"chunked"}
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, http.StatusOK, w.Code)

			var resp types.AIRecipeResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.True(t, resp.Fallback)
			assert.Equal(t, uuid.Nil, resp.ID)
			assert.Equal(t, "Bread Quick Snack", resp.Recipe.Title)
			llm.AssertExpectations(t)
		})
	}
}

func TestGenerateRecipe_InvalidBody(t *testing.T) {
	llm := new(mocks.MockTextGenerator)
	r := llmRouter(llm, nil)

	req := httptest.NewRequest(http.MethodPost, "/ai-recipe", strings.NewReader(`{"items": "bread"`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestGenerateRecipe_StoreFailureStillResponds(t *testing.T) {
	llm := new(mocks.MockTextGenerator)
	llm.On("Complete", mock.Anything, mock.Anything).Return(generatedRecipe, nil).Once()
	store := new(mocks.MockRecipeStore)
	store.On("Save", mock.Anything, mock.Anything).Return(errors.New("redis gone"))
	r := llmRouter(llm, store)

	w := doJSON(t, r, http.MethodPost, "/ai-recipe", types.AIRecipeRequest{Items: []string{"apple", "banana"}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.AIRecipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uuid.Nil, resp.ID)
	assert.False(t, resp.Fallback)
	store.AssertExpectations(t)
}

func TestGetRecipe_Errors(t *testing.T) {
	store := new(mocks.MockRecipeStore)
	missing := uuid.New()
	broken := uuid.New()
	store.On("Get", mock.Anything, missing).Return(nil, service.ErrRecipeNotFound)
	store.On("Get", mock.Anything, broken).Return(nil, errors.New("connection reset"))
	r := llmRouter(new(mocks.MockTextGenerator), store)

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"malformed id", "not-a-uuid", http.StatusBadRequest},
		{"unknown id", missing.String(), http.StatusNotFound},
		{"store failure", broken.String(), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodGet, "/ai-recipe/"+tt.id, nil)
			assert.Equal(t, tt.status, w.Code)
		})
	}

}
