package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartchef/backend/internal/types"
)

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestValidateRecipeBounds(t *testing.T) {
	base := func() types.Recipe {
		return types.Recipe{
			Title:       "Toast",
			Ingredients: []string{"bread", "butter"},
			Steps:       []string{"Toast.", "Butter."},
			Notes:       []string{},
		}
	}

	tests := []struct {
		name   string
		mutate func(r *types.Recipe)
		valid  bool
	}{
		{"baseline", func(r *types.Recipe) {}, true},
		{"title 3 chars", func(r *types.Recipe) { r.Title = "Pie" }, true},
		{"title 2 chars", func(r *types.Recipe) { r.Title = "Pi" }, false},
		{"title 80 chars", func(r *types.Recipe) { r.Title = strings.Repeat("a", 80) }, true},
		{"title 81 chars", func(r *types.Recipe) { r.Title = strings.Repeat("a", 81) }, false},
		{"title counts runes", func(r *types.Recipe) { r.Title = strings.Repeat("é", 80) }, true},
		{"one ingredient", func(r *types.Recipe) { r.Ingredients = []string{"bread"} }, false},
		{"20 ingredients", func(r *types.Recipe) { r.Ingredients = repeat("x", 20) }, true},
		{"21 ingredients", func(r *types.Recipe) { r.Ingredients = repeat("x", 21) }, false},
		{"one step", func(r *types.Recipe) { r.Steps = []string{"Eat."} }, false},
		{"10 steps", func(r *types.Recipe) { r.Steps = repeat("x", 10) }, true},
		{"11 steps", func(r *types.Recipe) { r.Steps = repeat("x", 11) }, false},
		{"nil notes", func(r *types.Recipe) { r.Notes = nil }, true},
		{"5 notes", func(r *types.Recipe) { r.Notes = repeat("n", 5) }, true},
		{"6 notes", func(r *types.Recipe) { r.Notes = repeat("n", 6) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base()
			tt.mutate(&r)
			err := ValidateRecipe(r)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidRecipe), "got %v", err)
			}
		})
	}
}

func TestParseRecipe(t *testing.T) {
	t.Run("plain object", func(t *testing.T) {
		rec, err := ParseRecipe(`{"title":"Toast","ingredients":["a","b"],"steps":["x","y"]}`)
		require.NoError(t, err)
		assert.Equal(t, "Toast", rec.Title)
		assert.Equal(t, []string{}, rec.Notes)
	})

	t.Run("code fence and chatter", func(t *testing.T) {
		rec, err := ParseRecipe("Sure! Here it is:\n```json\n{\"title\":\"Toast\",\"ingredients\":[\"a\",\"b\"],\"steps\":[\"x\",\"y\"],\"notes\":[\"n\"]}\n```")
		require.NoError(t, err)
		assert.Equal(t, []string{"n"}, rec.Notes)
	})

	for _, raw := range []string{"", "no braces", "} backwards {", `{"title": }`, `{"title": 5}`} {
		_, err := ParseRecipe(raw)
		assert.True(t, errors.Is(err, ErrMalformedRecipe), "input %q gave %v", raw, err)
	}
}

func TestFallbackRecipe(t *testing.T) {
	t.Run("without bread", func(t *testing.T) {
		rec := FallbackRecipe([]string{"tomato", "egg", "Egg"})
		assert.Equal(t, "Egg Quick Snack", rec.Title)
		assert.Equal(t, []string{"egg", "tomato", "1 tbsp oil or butter", "Salt and pepper"}, rec.Ingredients)
		assert.Len(t, rec.Steps, 4)
		assert.Equal(t, []string{"Fallback recipe due to JSON validation error."}, rec.Notes)
		assert.NoError(t, ValidateRecipe(rec))
	})

	t.Run("bread goes first", func(t *testing.T) {
		rec := FallbackRecipe([]string{"apple", "bread"})
		assert.Equal(t, "Apple Quick Snack", rec.Title)
		assert.Equal(t, []string{"2 slices bread", "apple", "1 tbsp oil or butter", "Salt and pepper"}, rec.Ingredients)
	})

	t.Run("multi word title", func(t *testing.T) {
		rec := FallbackRecipe([]string{"hot dog"})
		assert.Equal(t, "Hot Dog Quick Snack", rec.Title)
		assert.Len(t, rec.Ingredients, 3)
	})

	t.Run("many items capped", func(t *testing.T) {
		items := make([]string, 30)
		for i := range items {
			items[i] = strings.Repeat("z", i+1)
		}
		rec := FallbackRecipe(items)
		assert.Len(t, rec.Ingredients, 20)
		assert.Equal(t, "Salt and pepper", rec.Ingredients[19])
		assert.NoError(t, ValidateRecipe(rec))
	})

	t.Run("whitespace run in first item", func(t *testing.T) {
		rec := FallbackRecipe([]string{"a" + strings.Repeat(" ", 200) + "b"})
		assert.Equal(t, "A B Quick Snack", rec.Title)
		assert.NoError(t, ValidateRecipe(rec))
	})

	t.Run("whitespace run in raw title input", func(t *testing.T) {
		title := fallbackTitle("a" + strings.Repeat(" ", 200))
		assert.Equal(t, "A Quick Snack", title)
	})

	t.Run("long first item clipped", func(t *testing.T) {
		rec := FallbackRecipe([]string{strings.Repeat("a", 120)})
		assert.LessOrEqual(t, len([]rune(rec.Title)), 80)
		assert.NoError(t, ValidateRecipe(rec))
	})
}
