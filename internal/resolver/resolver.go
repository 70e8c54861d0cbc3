// Package resolver maps free-text ingredient names to canonical catalog
// ingredients.
//
// Resolution tries three rules per name, in priority order: exact canonical
// name, exact display name (case-insensitive), then substring match against
// the alias set. Names that resolve to nothing are dropped silently - a
// request full of unknown ingredients is a valid "no results" case, not an
// error.
package resolver

import (
	"context"
	"fmt"

	"github.com/mealforge/recipesearch/internal/storage"
	"github.com/mealforge/recipesearch/pkg/types"
)

// MatchSource records which resolution rule produced a hit
type MatchSource string

const (
	SourceName        MatchSource = "name"
	SourceDisplayName MatchSource = "display_name"
	SourceAlias       MatchSource = "alias"
)

// ResolvedIngredient pairs a canonical ingredient with the query string and
// rule that found it
type ResolvedIngredient struct {
	Query      string // normalized raw name
	Ingredient types.Ingredient
	Source     MatchSource
}

// Resolver resolves raw ingredient names against the catalog
type Resolver struct {
	storage storage.Storage
}

// New creates a new Resolver
func New(st storage.Storage) *Resolver {
	return &Resolver{storage: st}
}

// Resolve maps each raw name to zero or more catalog ingredients and
// deduplicates by ingredient ID, keeping the highest-priority hit. The
// result preserves the order names were first resolved in.
func (r *Resolver) Resolve(ctx context.Context, names []string) ([]ResolvedIngredient, error) {
	seen := make(map[int64]struct{})
	var resolved []ResolvedIngredient

	for _, raw := range names {
		normalized := types.NormalizeIngredientName(raw)
		if normalized == "" {
			continue
		}

		hits, err := r.resolveOne(ctx, normalized)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", normalized, err)
		}

		for _, hit := range hits {
			if _, dup := seen[hit.Ingredient.ID]; dup {
				continue
			}
			seen[hit.Ingredient.ID] = struct{}{}
			resolved = append(resolved, hit)
		}
	}

	return resolved, nil
}

// resolveOne applies the resolution rules for a single normalized name
func (r *Resolver) resolveOne(ctx context.Context, normalized string) ([]ResolvedIngredient, error) {
	// Rule 1: exact canonical name
	ing, err := r.storage.FindIngredientByName(ctx, normalized)
	if err == nil {
		return []ResolvedIngredient{{Query: normalized, Ingredient: *ing, Source: SourceName}}, nil
	}
	if err != storage.ErrNotFound {
		return nil, err
	}

	// Rule 2: exact display name, case-insensitive
	ing, err = r.storage.FindIngredientByDisplayName(ctx, normalized)
	if err == nil {
		return []ResolvedIngredient{{Query: normalized, Ingredient: *ing, Source: SourceDisplayName}}, nil
	}
	if err != storage.ErrNotFound {
		return nil, err
	}

	// Rule 3: substring match against aliases; may hit several ingredients
	matches, err := r.storage.FindIngredientsByAlias(ctx, normalized)
	if err != nil {
		return nil, err
	}

	hits := make([]ResolvedIngredient, 0, len(matches))
	for _, m := range matches {
		hits = append(hits, ResolvedIngredient{Query: normalized, Ingredient: *m, Source: SourceAlias})
	}
	return hits, nil
}

// Suggest returns autocomplete suggestions for a partial ingredient name,
// common ingredients first, then by usage count. Not scored by the ranking
// pipeline.
func (r *Resolver) Suggest(ctx context.Context, partial string, limit int) ([]types.IngredientSuggestion, error) {
	partial = types.NormalizeIngredientName(partial)
	if partial == "" {
		return nil, types.ErrEmptyQuery
	}
	return r.storage.SuggestIngredients(ctx, partial, limit)
}

// IDs extracts the ingredient IDs from a resolved set
func IDs(resolved []ResolvedIngredient) []int64 {
	ids := make([]int64, len(resolved))
	for i, ri := range resolved {
		ids[i] = ri.Ingredient.ID
	}
	return ids
}

// Names extracts the canonical ingredient names from a resolved set
func Names(resolved []ResolvedIngredient) []string {
	names := make([]string, len(resolved))
	for i, ri := range resolved {
		names[i] = ri.Ingredient.Name
	}
	return names
}
