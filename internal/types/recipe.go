package types

import (
	"time"

	"github.com/google/uuid"
)

// Recipe is the validated structured recipe returned by the generator.
// Bounds are enforced with go-playground/validator; min/max count runes for
// strings and elements for slices.
type Recipe struct {
	Title       string   `json:"title" validate:"min=3,max=80"`
	Ingredients []string `json:"ingredients" validate:"min=2,max=20"`
	Steps       []string `json:"steps" validate:"min=2,max=10"`
	Notes       []string `json:"notes" validate:"max=5"`
}

// Preferences is passed into the generation prompt untouched.
type Preferences map[string]any

// CatalogEntry is one row of the recipe catalog.
type CatalogEntry struct {
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
	Steps       string   `json:"steps"`
	Tags        string   `json:"tags"`
}

// ScoredCandidate is a catalog entry ranked against a query.
type ScoredCandidate struct {
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
	Steps       string   `json:"steps"`
	Tags        string   `json:"tags"`
	Score       float64  `json:"score"`
}

// StoredRecipe is a generated recipe kept for later retrieval.
type StoredRecipe struct {
	ID        uuid.UUID `json:"id"`
	Items     []string  `json:"items"`
	Recipe    Recipe    `json:"recipe"`
	Fallback  bool      `json:"fallback"`
	CreatedAt time.Time `json:"created_at"`
}
