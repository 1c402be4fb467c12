package types

import (
	"time"

	"github.com/google/uuid"
)

// AIRecipeRequest represents the request body for generating a recipe
type AIRecipeRequest struct {
	Items []string    `json:"items"`
	Prefs Preferences `json:"prefs"`
}

// AIRecipeResponse wraps a generated recipe
type AIRecipeResponse struct {
	ID       uuid.UUID `json:"id"`
	Recipe   Recipe    `json:"recipe"`
	Fallback bool      `json:"fallback"`
	Attempts int       `json:"attempts"`
}

// RecommendRequest represents the request body for local recommendations
type RecommendRequest struct {
	Items []string `json:"items" binding:"required"`
}

// RecommendResponse lists ranked catalog recipes for the given items
type RecommendResponse struct {
	Items   []string          `json:"items"`
	Recipes []ScoredCandidate `json:"recipes"`
}

// UploadResponse is returned after an image has been scanned
type UploadResponse struct {
	Image   string            `json:"image"`
	Labels  []string          `json:"labels"`
	Recipes []ScoredCandidate `json:"recipes"`
	ScanID  *uuid.UUID        `json:"scan_id,omitempty"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	OK   bool      `json:"ok"`
	Time time.Time `json:"time"`
}

// ErrorResponse is the JSON error envelope used by every handler
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
