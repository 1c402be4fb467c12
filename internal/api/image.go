package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartchef/backend/internal/service"
	"github.com/smartchef/backend/internal/types"
)

// multipartOverhead covers form boundaries and headers around the file part.
const multipartOverhead = 64 << 10

// ImageHandler handles photo uploads
type ImageHandler struct {
	detector    service.Detector
	images      service.ImageStore
	recommender service.IRecommendationService
	scans       service.IScanService
	maxBytes    int64
	logger      *zap.Logger
}

// NewImageHandler creates an ImageHandler. scans may be nil.
func NewImageHandler(
	detector service.Detector,
	images service.ImageStore,
	recommender service.IRecommendationService,
	scans service.IScanService,
	maxBytes int64,
	logger *zap.Logger,
) *ImageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageHandler{
		detector:    detector,
		images:      images,
		recommender: recommender,
		scans:       scans,
		maxBytes:    maxBytes,
		logger:      logger.Named("image-handler"),
	}
}

// Upload handles POST /upload: store the photo, detect food, rank local recipes.
func (h *ImageHandler) Upload(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusBadRequest, "file too large", nil)
			return
		}
		respondError(c, http.StatusBadRequest, "file is required", err)
		return
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		respondError(c, http.StatusBadRequest, "file too large", nil)
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read file", err)
		return
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read file", err)
		return
	}
	if len(data) == 0 {
		respondError(c, http.StatusBadRequest, "file is empty", nil)
		return
	}

	ctx := c.Request.Context()
	name := service.UploadName(fh.Filename)

	location, err := h.images.Save(ctx, name, fh.Header.Get("Content-Type"), bytes.NewReader(data))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to store image", err)
		return
	}

	labels, err := h.detector.Detect(ctx, data, name)
	if err != nil {
		respondError(c, http.StatusBadGateway, "detection failed", err)
		return
	}
	if labels == nil {
		labels = []string{}
	}

	resp := types.UploadResponse{
		Image:   location,
		Labels:  labels,
		Recipes: h.recommender.Recommend(ctx, labels),
	}

	if h.scans != nil {
		scan, err := h.scans.Record(ctx, location, labels, len(resp.Recipes))
		if err != nil {
			h.logger.Warn("failed to record scan", zap.String("image", location), zap.Error(err))
		} else {
			resp.ScanID = &scan.ID
		}
	}

	c.JSON(http.StatusOK, resp)
}
