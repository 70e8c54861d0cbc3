package storage

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealforge/recipesearch/pkg/types"
)

func TestSerializeDeserializeVector(t *testing.T) {
	vec := []float32{0.5, -1.25, 3.75, 0}
	data := SerializeVector(vec)
	assert.Len(t, data, len(vec)*4)

	got := DeserializeVector(data)
	assert.Equal(t, vec, got)
}

func TestDeserializeVector_Empty(t *testing.T) {
	assert.Empty(t, DeserializeVector(nil))
	assert.Empty(t, DeserializeVector([]byte{}))
}

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{1, 0, 0}
	assert.InDelta(t, 1.0, CosineSimilarity(a, b), 1e-6)

	// Orthogonal vectors
	c := []float32{0, 1, 0}
	assert.InDelta(t, 0.0, CosineSimilarity(a, c), 1e-6)

	// Opposite vectors clamp to zero rather than going negative
	d := []float32{-1, 0, 0}
	assert.Equal(t, 0.0, CosineSimilarity(a, d))

	// Zero vector or mismatched dimensions yield zero
	assert.Equal(t, 0.0, CosineSimilarity(a, []float32{0, 0, 0}))
	assert.Equal(t, 0.0, CosineSimilarity(a, []float32{1, 0}))
}

func TestCosineSimilarity_Magnitude(t *testing.T) {
	// Cosine ignores magnitude
	a := []float32{3, 4}
	b := []float32{6, 8}
	assert.InDelta(t, 1.0, CosineSimilarity(a, b), 1e-6)

	angled := []float32{1, 1}
	sim := CosineSimilarity([]float32{1, 0}, angled)
	assert.InDelta(t, 1/math.Sqrt2, sim, 1e-6)
}

func seedEmbeddedRecipe(t *testing.T, s *SQLiteStorage, r *types.Recipe, vec []float32) *types.Recipe {
	t.Helper()
	seedRecipe(t, s, r)
	require.NoError(t, s.UpsertRecipeEmbedding(context.Background(), &RecipeEmbedding{
		RecipeID:  r.ID,
		Vector:    SerializeVector(vec),
		Dimension: len(vec),
		Provider:  "local",
		Model:     "test",
	}))
	return r
}

func TestSearchVector(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	close1 := seedEmbeddedRecipe(t, storage, &types.Recipe{Name: "Closest", IsPublic: true}, []float32{1, 0})
	close2 := seedEmbeddedRecipe(t, storage, &types.Recipe{Name: "Near", IsPublic: true}, []float32{0.9, 0.4})
	seedEmbeddedRecipe(t, storage, &types.Recipe{Name: "Far", IsPublic: true}, []float32{0, 1})

	results, err := storage.SearchVector(ctx, []float32{1, 0}, 10, &SearchFilters{MinSimilarity: 0.5})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, close1.ID, results[0].RecipeID)
	assert.Equal(t, close2.ID, results[1].RecipeID)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
}

func TestSearchVector_ScopeFiltering(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	seedEmbeddedRecipe(t, storage, &types.Recipe{Name: "Mine", OwnerID: "owner-1"}, []float32{1, 0})
	pub := seedEmbeddedRecipe(t, storage, &types.Recipe{Name: "Everyone", IsPublic: true}, []float32{1, 0})

	results, err := storage.SearchVector(ctx, []float32{1, 0}, 10, &SearchFilters{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, pub.ID, results[0].RecipeID)

	results, err = storage.SearchVector(ctx, []float32{1, 0}, 10, &SearchFilters{
		Scope: types.Scope{RequesterID: "owner-1"},
	})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchVector_Limit(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		seedEmbeddedRecipe(t, storage, &types.Recipe{Name: "R", IsPublic: true}, []float32{1, 0})
	}

	results, err := storage.SearchVector(ctx, []float32{1, 0}, 3, &SearchFilters{})
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearchText(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	pasta := seedRecipe(t, storage, &types.Recipe{
		Name:        "Spaghetti Carbonara",
		Description: "Classic Roman pasta",
		Cuisine:     "italian",
		IsPublic:    true,
	})
	seedRecipe(t, storage, &types.Recipe{
		Name:     "Miso Soup",
		Cuisine:  "japanese",
		IsPublic: true,
	})

	// Case-insensitive match on name
	results, err := storage.SearchText(ctx, "SPAGHETTI", 10, &SearchFilters{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, pasta.ID, results[0].RecipeID)

	// Match on description
	results, err = storage.SearchText(ctx, "roman", 10, &SearchFilters{})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = storage.SearchText(ctx, "nothing matches this", 10, &SearchFilters{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchText_Filters(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	seedRecipe(t, storage, &types.Recipe{
		Name:     "Vegan Curry",
		Cuisine:  "indian",
		Tags:     []string{"vegan", "spicy"},
		IsPublic: true,
	})
	seedRecipe(t, storage, &types.Recipe{
		Name:     "Butter Curry",
		Cuisine:  "indian",
		Tags:     []string{"vegetarian"},
		IsPublic: true,
	})

	// Dietary tag filter keeps only recipes whose tags contain the value
	results, err := storage.SearchText(ctx, "curry", 10, &SearchFilters{
		DietaryTags: []string{"vegan"},
	})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	// Cuisine filter
	results, err = storage.SearchText(ctx, "curry", 10, &SearchFilters{Cuisine: "indian"})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = storage.SearchText(ctx, "curry", 10, &SearchFilters{Cuisine: "thai"})
	require.NoError(t, err)
	assert.Empty(t, results)
}
