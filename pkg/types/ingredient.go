package types

import "strings"

// Ingredient represents a canonical ingredient from the catalog.
// Identity is immutable; UsageCount is maintained by the CRUD subsystem as
// recipes are created and edited.
type Ingredient struct {
	ID          int64
	Name        string // canonical, lowercase
	DisplayName string
	Aliases     []string
	Category    string
	IsCommon    bool
	UsageCount  int
}

// MatchesAlias reports whether the normalized name appears as a substring of
// any alias, case-insensitively. This is the lowest-priority resolution rule.
func (i *Ingredient) MatchesAlias(normalized string) bool {
	if normalized == "" {
		return false
	}
	for _, alias := range i.Aliases {
		if strings.Contains(strings.ToLower(alias), normalized) {
			return true
		}
	}
	return false
}

// IngredientSuggestion is an autocomplete entry. Suggestions are filtered and
// sorted by commonality and usage, never ranked by the scoring pipeline.
type IngredientSuggestion struct {
	ID          int64
	Name        string
	DisplayName string
	Category    string
	IsCommon    bool
	UsageCount  int
}

// NormalizeIngredientName canonicalizes a raw ingredient name for resolution
// and cache keying: trimmed and lowercased.
func NormalizeIngredientName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
