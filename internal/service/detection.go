package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/smartchef/backend/internal/metrics"
)

// ErrDetectorUnavailable wraps transport and status failures of the detector.
var ErrDetectorUnavailable = errors.New("detector unavailable")

// DefaultFoodClasses are the food labels of the COCO detection set.
var DefaultFoodClasses = []string{
	"apple", "banana", "broccoli", "cake", "carrot",
	"donut", "hot dog", "orange", "pizza", "sandwich",
}

// Detection is one labelled box from the inference sidecar.
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type detectResponse struct {
	Detections []Detection `json:"detections"`
}

// HTTPDetector posts images to an object detection endpoint.
type HTTPDetector struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewHTTPDetector creates a detector for endpoint.
func NewHTTPDetector(endpoint string, timeout time.Duration, logger *zap.Logger) *HTTPDetector {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPDetector{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.Named("detector"),
	}
}

// Detect uploads the image as multipart field "file" and returns the raw labels.
func (d *HTTPDetector) Detect(ctx context.Context, image []byte, filename string) ([]string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetectorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		d.logger.Warn("detector rejected image", zap.Int("status", resp.StatusCode), zap.ByteString("body", msg))
		return nil, fmt.Errorf("%w: status %d", ErrDetectorUnavailable, resp.StatusCode)
	}

	var out detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode detections: %w", err)
	}

	labels := make([]string, 0, len(out.Detections))
	for _, det := range out.Detections {
		labels = append(labels, det.Label)
	}
	return labels, nil
}

// FoodDetector keeps only allowlisted food labels from another detector.
type FoodDetector struct {
	next    Detector
	allowed map[string]struct{}
	metrics *metrics.Collector
}

// NewFoodDetector wraps next with the given allowlist.
func NewFoodDetector(next Detector, classes []string, m *metrics.Collector) *FoodDetector {
	allowed := make(map[string]struct{}, len(classes))
	for _, c := range NormalizeItems(classes) {
		allowed[c] = struct{}{}
	}
	return &FoodDetector{next: next, allowed: allowed, metrics: m}
}

// Detect returns the sorted, deduplicated food labels found in image.
func (f *FoodDetector) Detect(ctx context.Context, image []byte, filename string) ([]string, error) {
	labels, err := f.next.Detect(ctx, image, filename)
	f.metrics.ObserveDetection(err)
	if err != nil {
		return nil, err
	}

	food := make([]string, 0, len(labels))
	for _, l := range NormalizeItems(labels) {
		if _, ok := f.allowed[l]; ok {
			food = append(food, l)
		}
	}
	return food, nil
}

// LoadFoodClasses reads one label per line. An empty path yields DefaultFoodClasses.
func LoadFoodClasses(path string) ([]string, error) {
	if path == "" {
		return append([]string(nil), DefaultFoodClasses...), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open food classes: %w", err)
	}
	defer f.Close()

	var classes []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" && !strings.HasPrefix(line, "#") {
			classes = append(classes, strings.ToLower(line))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read food classes: %w", err)
	}
	return classes, nil
}
