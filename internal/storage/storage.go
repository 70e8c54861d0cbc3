package storage

import (
	"context"
	"time"

	"github.com/mealforge/recipesearch/pkg/types"
)

// Storage defines the interface for querying the recipe catalog. The search
// pipeline only reads; the upsert methods are the seam the external CRUD
// subsystem (and tests) write through.
type Storage interface {
	// Ingredient catalog
	UpsertIngredient(ctx context.Context, ing *types.Ingredient) error
	FindIngredientByName(ctx context.Context, name string) (*types.Ingredient, error)
	FindIngredientByDisplayName(ctx context.Context, name string) (*types.Ingredient, error)
	FindIngredientsByAlias(ctx context.Context, fragment string) ([]*types.Ingredient, error)
	SuggestIngredients(ctx context.Context, partial string, limit int) ([]types.IngredientSuggestion, error)

	// Recipe projections
	UpsertRecipe(ctx context.Context, r *types.Recipe) error
	GetRecipe(ctx context.Context, recipeID int64) (*types.Recipe, error)
	GetRecipes(ctx context.Context, recipeIDs []int64, scope types.Scope) ([]*types.Recipe, error)

	// Recipe-ingredient links
	SetRecipeIngredients(ctx context.Context, recipeID int64, links []RecipeIngredient) error
	LinksByIngredients(ctx context.Context, ingredientIDs []int64, scope types.Scope) ([]LinkRow, error)
	IngredientCounts(ctx context.Context, recipeIDs []int64) (map[int64]int, error)
	RecipeIngredientNames(ctx context.Context, recipeID int64) ([]string, error)

	// Embedding vectors
	UpsertRecipeEmbedding(ctx context.Context, emb *RecipeEmbedding) error
	GetRecipeEmbedding(ctx context.Context, recipeID int64) (*RecipeEmbedding, error)
	ListRecipesMissingEmbedding(ctx context.Context, limit int) ([]*types.Recipe, error)

	// Search operations
	SearchVector(ctx context.Context, queryVector []float32, limit int, filters *SearchFilters) ([]VectorResult, error)
	SearchText(ctx context.Context, query string, limit int, filters *SearchFilters) ([]TextResult, error)

	// Database operations
	Stats(ctx context.Context) (*StoreStats, error)
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// StoreStats summarizes catalog size for status reporting
type StoreStats struct {
	RecipeCount     int
	IngredientCount int
	EmbeddingCount  int
	LinkCount       int
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// RecipeIngredient is the many-to-many edge between a recipe and a canonical
// ingredient. Search only reads it to compute overlap; amounts and ordering
// belong to the CRUD subsystem.
type RecipeIngredient struct {
	RecipeID     int64
	IngredientID int64
	Amount       float64
	Unit         string
	GroupName    string
	Position     int
}

// LinkRow is a joined link row carrying the canonical ingredient name,
// used to build per-recipe matched-ingredient sets.
type LinkRow struct {
	RecipeID       int64
	IngredientID   int64
	IngredientName string
}

// RecipeEmbedding is a precomputed vector for one recipe
type RecipeEmbedding struct {
	RecipeID  int64
	Vector    []byte // Serialized float32 array
	Dimension int
	Provider  string
	Model     string
	CreatedAt time.Time
}

// SearchFilters narrows vector and text search candidates. Scope is always
// applied; the zero Scope restricts results to public and system recipes.
type SearchFilters struct {
	Scope         types.Scope
	Cuisine       string
	Difficulty    string
	DietaryTags   []string // case-insensitive substring containment against recipe tags
	MinSimilarity float64  // vector search only
}

// VectorResult represents a result from vector similarity search
type VectorResult struct {
	RecipeID   int64
	Similarity float64 // cosine similarity in [0,1]
}

// TextResult represents a result from lexical substring search.
// Rows come back in database order; the fusion stage assigns rank.
type TextResult struct {
	RecipeID int64
}
