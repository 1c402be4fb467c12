package service

import (
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/smartchef/backend/internal/types"
)

// RandomPantry draws between 2 and max distinct fruit and vegetable names.
func RandomPantry(faker *gofakeit.Faker, max int) []string {
	if max < 2 {
		max = 2
	}
	want := faker.Number(2, max)
	seen := make(map[string]struct{}, want)
	items := make([]string, 0, want)
	for tries := 0; len(items) < want && tries < want*10; tries++ {
		var item string
		if faker.Bool() {
			item = faker.Fruit()
		} else {
			item = faker.Vegetable()
		}
		item = strings.ToLower(strings.TrimSpace(item))
		if _, dup := seen[item]; dup || item == "" {
			continue
		}
		seen[item] = struct{}{}
		items = append(items, item)
	}
	return NormalizeItems(items)
}

// CatalogEntryFromRecipe turns a generated recipe into a catalog row keyed by
// the items it was generated from.
func CatalogEntryFromRecipe(items []string, rec types.Recipe, tags string) types.CatalogEntry {
	return types.CatalogEntry{
		Title:       rec.Title,
		Ingredients: NormalizeItems(items),
		Steps:       strings.Join(rec.Steps, "; "),
		Tags:        tags,
	}
}
