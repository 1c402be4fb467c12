package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smartchef/backend/internal/service"
)

const defaultScanLimit = 20

// ScanHandler exposes the scan history
type ScanHandler struct {
	scans service.IScanService
}

func NewScanHandler(scans service.IScanService) *ScanHandler {
	return &ScanHandler{scans: scans}
}

func queryLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultScanLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		respondError(c, http.StatusBadRequest, "limit must be a positive integer", nil)
		return 0, false
	}
	return n, true
}

// ListScans handles GET /scans?limit=N, newest first
func (h *ScanHandler) ListScans(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	scans, err := h.scans.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list scans", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scans": scans})
}

// GetScan handles GET /scans/:id
func (h *ScanHandler) GetScan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid scan id", err)
		return
	}

	scan, err := h.scans.Get(c.Request.Context(), id)
	if errors.Is(err, service.ErrScanNotFound) {
		respondError(c, http.StatusNotFound, "Scan not found", nil)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load scan", err)
		return
	}
	c.JSON(http.StatusOK, scan)
}

// TopLabels handles GET /labels?limit=N
func (h *ScanHandler) TopLabels(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	stats, err := h.scans.TopLabels(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list labels", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"labels": stats})
}
