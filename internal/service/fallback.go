package service

import (
	"strings"
	"unicode"

	"github.com/smartchef/backend/internal/types"
)

const (
	fallbackSuffix   = " Quick Snack"
	fallbackNote     = "Fallback recipe due to JSON validation error."
	maxTitleRunes    = 80
	maxFallbackItems = 20
)

var fallbackSteps = []string{
	"Preheat a non-stick pan to medium heat.",
	"Assemble items (layer on bread or mix in a bowl).",
	"Cook or toast 3-6 min until lightly browned and warmed through.",
	"Season to taste and serve.",
}

var pantryLines = []string{"1 tbsp oil or butter", "Salt and pepper"}

// FallbackRecipe builds the canned recipe used when generation keeps failing.
// It depends only on the normalized items, so equal inputs give equal output.
func FallbackRecipe(items []string) types.Recipe {
	items = itemsOrDefault(items)

	hasBread := false
	for _, it := range items {
		if it == "bread" {
			hasBread = true
			break
		}
	}

	ingredients := make([]string, 0, len(items)+len(pantryLines)+1)
	first := items[0]
	if hasBread {
		ingredients = append(ingredients, "2 slices bread")
	} else {
		ingredients = append(ingredients, first)
	}
	for _, it := range items {
		if it == "bread" || (!hasBread && it == first) {
			continue
		}
		ingredients = append(ingredients, it)
	}
	if room := maxFallbackItems - len(pantryLines); len(ingredients) > room {
		ingredients = ingredients[:room]
	}
	ingredients = append(ingredients, pantryLines...)

	return types.Recipe{
		Title:       fallbackTitle(first),
		Ingredients: ingredients,
		Steps:       append([]string(nil), fallbackSteps...),
		Notes:       []string{fallbackNote},
	}
}

func fallbackTitle(item string) string {
	title := []rune(titleCase(strings.Join(strings.Fields(item), " ")) + fallbackSuffix)
	if len(title) > maxTitleRunes {
		title = title[:maxTitleRunes]
	}
	return strings.TrimSpace(string(title))
}

// titleCase upper-cases the first letter of each word and lowers the rest.
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
