// Package matcher implements ingredient-overlap matching between a resolved
// ingredient set and the recipe catalog.
//
// Matching works on canonical ingredient IDs, never raw strings. A recipe's
// match percentage is always computed against its full distinct ingredient
// count, so a recipe only partially covered by the query scores below 100
// even in "any" mode.
package matcher

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mealforge/recipesearch/internal/storage"
	"github.com/mealforge/recipesearch/pkg/types"
)

// Match is one qualifying recipe with its overlap statistics
type Match struct {
	Recipe             *types.Recipe
	MatchedIngredients []string // canonical names, sorted
	MatchedCount       int
	TotalIngredients   int     // distinct ingredients in the recipe
	MatchPercent       float64 // MatchedCount / TotalIngredients * 100
}

// Matcher finds recipes overlapping a queried ingredient set
type Matcher struct {
	storage storage.Storage
}

// New creates a new Matcher
func New(st storage.Storage) *Matcher {
	return &Matcher{storage: st}
}

// Match returns every visible recipe that qualifies under the requested
// match mode, with cuisine, difficulty, dietary, and minimum-percentage
// filters applied. Results come back in recipe ID order; ranking happens
// downstream.
func (m *Matcher) Match(ctx context.Context, ingredientIDs []int64, opts *types.SearchOptions) ([]Match, error) {
	queried := dedupeIDs(ingredientIDs)
	if len(queried) == 0 {
		return nil, types.ErrNoIngredients
	}

	links, err := m.storage.LinksByIngredients(ctx, queried, opts.Scope)
	if err != nil {
		return nil, fmt.Errorf("load ingredient links: %w", err)
	}
	if len(links) == 0 {
		return nil, nil
	}

	// Group matched ingredients per recipe
	matchedNames := make(map[int64]map[int64]string)
	for _, l := range links {
		names, ok := matchedNames[l.RecipeID]
		if !ok {
			names = make(map[int64]string)
			matchedNames[l.RecipeID] = names
		}
		names[l.IngredientID] = l.IngredientName
	}

	recipeIDs := make([]int64, 0, len(matchedNames))
	for id := range matchedNames {
		recipeIDs = append(recipeIDs, id)
	}

	counts, err := m.storage.IngredientCounts(ctx, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("load ingredient counts: %w", err)
	}

	recipes, err := m.storage.GetRecipes(ctx, recipeIDs, opts.Scope)
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}

	var matches []Match
	for _, r := range recipes {
		names := matchedNames[r.ID]
		total := counts[r.ID]
		if total == 0 {
			continue
		}

		if !qualifies(opts.MatchMode, len(names), len(queried), total) {
			continue
		}

		percent := float64(len(names)) / float64(total) * 100
		if percent < opts.MinMatchPercent {
			continue
		}
		if !passesFilters(r, opts) {
			continue
		}

		sorted := make([]string, 0, len(names))
		for _, n := range names {
			sorted = append(sorted, n)
		}
		sort.Strings(sorted)

		matches = append(matches, Match{
			Recipe:             r,
			MatchedIngredients: sorted,
			MatchedCount:       len(names),
			TotalIngredients:   total,
			MatchPercent:       percent,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Recipe.ID < matches[j].Recipe.ID
	})
	return matches, nil
}

// qualifies applies the match-mode gate.
//
// Exact mode requires the matched set to equal the queried set AND the
// recipe to have no ingredients beyond those queried.
func qualifies(mode types.MatchMode, matched, queried, total int) bool {
	switch mode {
	case types.MatchAll:
		return matched == queried
	case types.MatchExact:
		return matched == queried && total == queried
	default: // MatchAny
		return matched >= 1
	}
}

// passesFilters applies cuisine, difficulty, and dietary tag filters.
// Dietary filtering passes a recipe when its tag set intersects the
// restriction list under case-insensitive substring containment.
func passesFilters(r *types.Recipe, opts *types.SearchOptions) bool {
	if opts.Cuisine != "" && !strings.EqualFold(r.Cuisine, opts.Cuisine) {
		return false
	}
	if opts.Difficulty != "" && !strings.EqualFold(r.Difficulty, opts.Difficulty) {
		return false
	}
	if len(opts.DietaryTags) > 0 {
		hit := false
		for _, tag := range opts.DietaryTags {
			if r.HasTagContaining(tag) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// dedupeIDs removes duplicate ingredient IDs preserving order
func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
