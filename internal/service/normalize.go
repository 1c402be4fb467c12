package service

import (
	"sort"
	"strings"
)

// DefaultItems stands in for an empty ingredient list so the prompt is always well formed.
var DefaultItems = []string{"bread", "cheese", "tomato"}

// NormalizeItems lowercases, trims, deduplicates and sorts ingredient names.
// Inner whitespace runs collapse to one space and blank entries are dropped.
// The result is never nil.
func NormalizeItems(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		name := strings.ToLower(strings.Join(strings.Fields(item), " "))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// itemsOrDefault normalizes items and substitutes DefaultItems when nothing is left.
func itemsOrDefault(items []string) []string {
	norm := NormalizeItems(items)
	if len(norm) == 0 {
		return append([]string(nil), DefaultItems...)
	}
	return norm
}
