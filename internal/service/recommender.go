package service

import (
	"context"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/smartchef/backend/internal/metrics"
	"github.com/smartchef/backend/internal/types"
)

const (
	// DefaultRecommendLimit caps the ranked list.
	DefaultRecommendLimit = 10

	matchWeight   = 1.0
	missingWeight = 0.7
)

// Recommend scores every catalog entry against items and returns the
// positive ones, best first. Ties keep catalog order.
func Recommend(items []string, catalog []types.CatalogEntry, limit int) []types.ScoredCandidate {
	if limit <= 0 {
		limit = DefaultRecommendLimit
	}
	query := make(map[string]struct{})
	for _, it := range NormalizeItems(items) {
		query[it] = struct{}{}
	}

	out := make([]types.ScoredCandidate, 0)
	if len(query) == 0 {
		return out
	}

	for _, entry := range catalog {
		ingredients := NormalizeItems(entry.Ingredients)
		if len(ingredients) == 0 {
			continue
		}
		score := Score(query, ingredients)
		if score <= 0 {
			continue
		}
		out = append(out, types.ScoredCandidate{
			Title:       entry.Title,
			Ingredients: ingredients,
			Steps:       entry.Steps,
			Tags:        entry.Tags,
			Score:       math.Round(score*100) / 100,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Score rewards shared ingredients and penalizes ones the query lacks.
func Score(query map[string]struct{}, ingredients []string) float64 {
	var have, missing int
	for _, ing := range ingredients {
		if _, ok := query[ing]; ok {
			have++
		} else {
			missing++
		}
	}
	return matchWeight*float64(have) - missingWeight*float64(missing)
}

// RecommendationService ranks the current catalog for each request.
type RecommendationService struct {
	catalog CatalogSource
	limit   int
	logger  *zap.Logger
	metrics *metrics.Collector
}

// NewRecommendationService creates a RecommendationService
func NewRecommendationService(catalog CatalogSource, logger *zap.Logger, m *metrics.Collector) *RecommendationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecommendationService{
		catalog: catalog,
		limit:   DefaultRecommendLimit,
		logger:  logger.Named("recommender"),
		metrics: m,
	}
}

// Recommend loads the catalog and ranks it. Load failures give an empty list.
func (s *RecommendationService) Recommend(ctx context.Context, items []string) []types.ScoredCandidate {
	entries, err := s.catalog.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load catalog", zap.Error(err))
		return []types.ScoredCandidate{}
	}
	ranked := Recommend(items, entries, s.limit)
	s.metrics.ObserveRecommendation(len(ranked))
	return ranked
}
