package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartchef/backend/internal/api"
	"github.com/smartchef/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// staticCatalog serves a fixed catalog
type staticCatalog []types.CatalogEntry

func (s staticCatalog) Load(ctx context.Context) ([]types.CatalogEntry, error) {
	return s, nil
}

var testCatalog = staticCatalog{
	{Title: "Tomato Cheese Toast", Ingredients: []string{"bread", "cheese", "tomato", "butter"}, Steps: "Toast bread; add cheese and tomato; grill."},
	{Title: "Simple Omelette", Ingredients: []string{"egg", "salt", "pepper", "butter"}, Steps: "Beat eggs; cook in butter; season."},
	{Title: "Fruit Bowl", Ingredients: []string{"apple", "banana", "orange"}, Steps: "Chop fruit; mix."},
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	r := gin.New()
	r.GET("/health", api.HealthCheck)

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.WithinDuration(t, time.Now().UTC(), resp.Time, 5*time.Second)
	assert.Contains(t, w.Body.String(), "Z\"")
}
