package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartchef/backend/internal/api"
	"github.com/smartchef/backend/internal/model"
	"github.com/smartchef/backend/internal/service"
	"github.com/smartchef/backend/internal/testhelpers"
)

func TestScanHistory(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	scans := service.NewScanService(db)
	ctx := context.Background()

	first, err := scans.Record(ctx, "uploads/a.jpg", []string{"apple"}, 1)
	require.NoError(t, err)
	_, err = scans.Record(ctx, "uploads/b.jpg", []string{"pizza"}, 0)
	require.NoError(t, err)

	h := api.NewScanHandler(scans)
	r := gin.New()
	r.GET("/scans", h.ListScans)
	r.GET("/scans/:id", h.GetScan)
	r.GET("/labels", h.TopLabels)

	w := doJSON(t, r, http.MethodGet, "/scans?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Scans []model.Scan `json:"scans"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Scans, 1)

	w = doJSON(t, r, http.MethodGet, "/scans", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Scans, 2)

	w = doJSON(t, r, http.MethodGet, "/scans/"+first.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got model.Scan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, model.StringArray{"apple"}, got.Labels)

	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, "/scans/"+uuid.NewString(), nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodGet, "/scans/nope", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodGet, "/scans?limit=0", nil).Code)

	w = doJSON(t, r, http.MethodGet, "/labels", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var labels struct {
		Labels []model.LabelStat `json:"labels"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &labels))
	require.Len(t, labels.Labels, 2)
	assert.Equal(t, "apple", labels.Labels[0].Label)
}
