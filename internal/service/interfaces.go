package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/smartchef/backend/internal/model"
	"github.com/smartchef/backend/internal/types"
)

// CompletionRequest is one call to a text generation provider.
type CompletionRequest struct {
	System      string
	User        string
	Model       string
	Temperature float64
	// JSONMode asks the provider to emit a single JSON object.
	JSONMode bool
}

// TextGenerator turns a prompt into raw text. Output is usually, but not
// always, valid JSON.
type TextGenerator interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Detector turns an image into object labels.
type Detector interface {
	Detect(ctx context.Context, image []byte, filename string) ([]string, error)
}

// ImageStore persists uploaded images and returns where they can be fetched.
type ImageStore interface {
	Save(ctx context.Context, name string, contentType string, r io.Reader) (string, error)
}

// CatalogSource yields the current recipe catalog.
type CatalogSource interface {
	Load(ctx context.Context) ([]types.CatalogEntry, error)
}

// RecipeStore keeps generated recipes for later retrieval.
type RecipeStore interface {
	Save(ctx context.Context, rec *types.StoredRecipe) error
	Get(ctx context.Context, id uuid.UUID) (*types.StoredRecipe, error)
}

// IRecipeGenerator is the generator as seen by the HTTP layer.
type IRecipeGenerator interface {
	Run(ctx context.Context, items []string, prefs types.Preferences) GenerationResult
}

// IRecommendationService ranks catalog entries for an item list.
type IRecommendationService interface {
	Recommend(ctx context.Context, items []string) []types.ScoredCandidate
}

// IScanService records and lists image scans and label counts.
type IScanService interface {
	Record(ctx context.Context, image string, labels []string, recipeCount int) (*model.Scan, error)
	List(ctx context.Context, limit int) ([]model.Scan, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Scan, error)
	TopLabels(ctx context.Context, limit int) ([]model.LabelStat, error)
}
