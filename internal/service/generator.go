package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/smartchef/backend/internal/metrics"
	"github.com/smartchef/backend/internal/types"
)

const systemPrompt = "You are a concise home-cook recipe generator. Return STRICT JSON only, " +
	"no markdown, no commentary. Use only the listed items plus common pantry staples " +
	"(water, salt, pepper, oil, olive oil, butter, sugar, flour, garlic, onion powder). " +
	"Prefer 4-6 steps, simple techniques, 12-15 minute prep/cook. " +
	"If not enough items for a real dish, make a snack or toast variation."

const userPromptTemplate = "Items: %s\nPreferences: %s\n\n" +
	"Output JSON with EXACT keys: title (string), ingredients (string[]), steps (string[]), notes (string[]). " +
	"Keep ingredient quantities realistic; if an item is already a whole food (e.g., 'bread'), " +
	"don't duplicate it unnecessarily."

// Attempt outcomes reported to metrics and logs.
const (
	OutcomeOK            = "ok"
	OutcomeParseError    = "parse_error"
	OutcomeInvalid       = "invalid"
	OutcomeUpstreamError = "upstream_error"
)

// GenerateOptions tunes a single generation.
type GenerateOptions struct {
	Model       string
	Temperature float64
	// MaxRetries is the number of attempts after the first one.
	MaxRetries int
	// Backoff is the fixed wait between attempts.
	Backoff time.Duration
}

// DefaultGenerateOptions returns one retry, temperature 0.3 and a 300ms backoff.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Temperature: 0.3,
		MaxRetries:  1,
		Backoff:     300 * time.Millisecond,
	}
}

// GenerationResult describes how a recipe was obtained.
type GenerationResult struct {
	Items    []string
	Recipe   types.Recipe
	Attempts int
	Fallback bool
	// LastErr is the failure of the final attempt when Fallback is set.
	LastErr error
}

// RecipeGenerator wraps an unreliable TextGenerator so that callers always
// receive a recipe within bounds.
type RecipeGenerator struct {
	llm     TextGenerator
	opts    GenerateOptions
	logger  *zap.Logger
	metrics *metrics.Collector
}

// NewRecipeGenerator creates a generator with the given default options.
func NewRecipeGenerator(llm TextGenerator, opts GenerateOptions, logger *zap.Logger, m *metrics.Collector) *RecipeGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeGenerator{
		llm:     llm,
		opts:    opts,
		logger:  logger.Named("recipe-generator"),
		metrics: m,
	}
}

// Generate returns a recipe for items using opts. It never fails.
func (g *RecipeGenerator) Generate(ctx context.Context, items []string, prefs types.Preferences, opts GenerateOptions) types.Recipe {
	return g.RunWithOptions(ctx, items, prefs, opts).Recipe
}

// Run generates with the generator's default options.
func (g *RecipeGenerator) Run(ctx context.Context, items []string, prefs types.Preferences) GenerationResult {
	return g.RunWithOptions(ctx, items, prefs, g.opts)
}

// RunWithOptions tries the text generator up to 1+MaxRetries times and falls
// back to a canned recipe when no attempt yields a valid one. Upstream errors
// count as failed attempts. A cancelled context ends the loop early.
func (g *RecipeGenerator) RunWithOptions(ctx context.Context, items []string, prefs types.Preferences, opts GenerateOptions) GenerationResult {
	start := time.Now()
	norm := itemsOrDefault(items)
	req := CompletionRequest{
		System:      systemPrompt,
		User:        BuildUserPrompt(norm, prefs),
		Model:       opts.Model,
		Temperature: opts.Temperature,
		JSONMode:    true,
	}

	maxAttempts := 1 + max(opts.MaxRetries, 0)
	res := GenerationResult{Items: norm}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 && !sleepCtx(ctx, opts.Backoff) {
			break
		}
		if ctx.Err() != nil {
			res.LastErr = ctx.Err()
			break
		}
		res.Attempts = attempt

		rec, outcome, err := g.attempt(ctx, req)
		g.metrics.ObserveGenerationAttempt(outcome)
		if err == nil {
			res.Recipe = rec
			g.metrics.ObserveGeneration(false, time.Since(start))
			g.logger.Debug("recipe generated", zap.Int("attempt", attempt), zap.Strings("items", norm))
			return res
		}

		res.LastErr = err
		g.logger.Warn("recipe generation attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
	}

	if res.LastErr == nil && ctx.Err() != nil {
		res.LastErr = ctx.Err()
	}
	res.Recipe = FallbackRecipe(norm)
	res.Fallback = true
	g.metrics.ObserveGeneration(true, time.Since(start))
	g.logger.Info("using fallback recipe", zap.Strings("items", norm), zap.Int("attempts", res.Attempts))
	return res
}

func (g *RecipeGenerator) attempt(ctx context.Context, req CompletionRequest) (types.Recipe, string, error) {
	raw, err := g.llm.Complete(ctx, req)
	if err != nil {
		return types.Recipe{}, OutcomeUpstreamError, fmt.Errorf("text generation failed: %w", err)
	}
	rec, err := decodeRecipe(raw)
	switch {
	case err == nil:
		return rec, OutcomeOK, nil
	case errors.Is(err, ErrInvalidRecipe):
		return rec, OutcomeInvalid, err
	default:
		return rec, OutcomeParseError, err
	}
}

// BuildUserPrompt embeds the sorted items and the serialized preferences.
func BuildUserPrompt(items []string, prefs types.Preferences) string {
	prefsJSON := []byte("{}")
	if len(prefs) > 0 {
		if data, err := json.Marshal(prefs); err == nil {
			prefsJSON = data
		}
	}
	return fmt.Sprintf(userPromptTemplate, strings.Join(items, ", "), prefsJSON)
}

// sleepCtx waits for d and reports false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
