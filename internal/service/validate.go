package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/smartchef/backend/internal/types"
)

var (
	// ErrMalformedRecipe means the generator output was not a JSON recipe object.
	ErrMalformedRecipe = errors.New("malformed recipe output")
	// ErrInvalidRecipe means the output parsed but broke the field bounds.
	ErrInvalidRecipe = errors.New("recipe out of bounds")
)

var recipeValidator = validator.New(validator.WithRequiredStructEnabled())

// ParseRecipe extracts a recipe from raw generator output. Markdown code
// fences and text around the outermost JSON object are ignored.
func ParseRecipe(raw string) (types.Recipe, error) {
	var rec types.Recipe

	text := strings.TrimSpace(raw)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return rec, fmt.Errorf("%w: no JSON object found", ErrMalformedRecipe)
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), &rec); err != nil {
		return rec, fmt.Errorf("%w: %v", ErrMalformedRecipe, err)
	}
	if rec.Notes == nil {
		rec.Notes = []string{}
	}
	return rec, nil
}

// ValidateRecipe checks the title, ingredient, step and note bounds.
func ValidateRecipe(rec types.Recipe) error {
	if err := recipeValidator.Struct(rec); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s(%s=%s)", fe.Field(), fe.Tag(), fe.Param()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidRecipe, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidRecipe, err)
	}
	return nil
}

// decodeRecipe runs both stages and returns the first failure.
func decodeRecipe(raw string) (types.Recipe, error) {
	rec, err := ParseRecipe(raw)
	if err != nil {
		return rec, err
	}
	if err := ValidateRecipe(rec); err != nil {
		return rec, err
	}
	return rec, nil
}
