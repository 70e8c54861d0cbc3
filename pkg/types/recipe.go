package types

import (
	"strings"
	"time"
)

// Difficulty levels used by the recipe catalog
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Recipe is the search projection of a recipe. It carries only the fields
// the ranking pipeline reads; the full recipe record is owned by the CRUD
// subsystem and never mutated here.
type Recipe struct {
	// Identification
	ID   int64
	Name string

	// Content used by lexical matching and embedding documents
	Description string
	Cuisine     string
	Difficulty  string
	Tags        []string

	// Visibility
	IsPublic       bool
	IsSystemRecipe bool
	OwnerID        string // UUID issued by the auth collaborator; empty for system recipes

	// Quality and popularity signals
	SystemRating     float64 // 0-5, editorial rating
	AvgUserRating    float64 // 0-5
	TotalUserRatings int
	LikeCount        int

	CreatedAt time.Time

	// HasEmbedding reports whether a precomputed vector exists for this recipe.
	HasEmbedding bool
}

// HasTagContaining reports whether any recipe tag contains the given
// fragment, case-insensitively. Dietary restrictions are matched by
// containment rather than equality so "vegan" matches a "vegan-friendly" tag.
func (r *Recipe) HasTagContaining(fragment string) bool {
	fragment = strings.ToLower(strings.TrimSpace(fragment))
	if fragment == "" {
		return false
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), fragment) {
			return true
		}
	}
	return false
}

// Validate checks if the recipe projection is well formed
func (r *Recipe) Validate() error {
	if r.ID == 0 {
		return ErrInvalidRecipeID
	}
	if r.Name == "" {
		return ErrEmptyRecipeName
	}
	if r.SystemRating < 0 || r.SystemRating > 5 {
		return ErrInvalidRating
	}
	if r.AvgUserRating < 0 || r.AvgUserRating > 5 {
		return ErrInvalidRating
	}
	return nil
}
