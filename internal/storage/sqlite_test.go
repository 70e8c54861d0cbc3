package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealforge/recipesearch/pkg/types"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	// Use in-memory database for testing
	storage, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NotNil(t, storage)
	return storage
}

func seedIngredient(t *testing.T, s *SQLiteStorage, name string, aliases ...string) *types.Ingredient {
	t.Helper()
	ing := &types.Ingredient{
		Name:        name,
		DisplayName: name,
		Aliases:     aliases,
	}
	require.NoError(t, s.UpsertIngredient(context.Background(), ing))
	return ing
}

func seedRecipe(t *testing.T, s *SQLiteStorage, r *types.Recipe) *types.Recipe {
	t.Helper()
	require.NoError(t, s.UpsertRecipe(context.Background(), r))
	return r
}

func linkRecipe(t *testing.T, s *SQLiteStorage, recipeID int64, ingredientIDs ...int64) {
	t.Helper()
	links := make([]RecipeIngredient, len(ingredientIDs))
	for i, id := range ingredientIDs {
		links[i] = RecipeIngredient{RecipeID: recipeID, IngredientID: id, Position: i}
	}
	require.NoError(t, s.SetRecipeIngredients(context.Background(), recipeID, links))
}

func TestNewSQLiteStorage(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	assert.NotNil(t, storage)
	assert.NotNil(t, storage.db)
}

func TestClose(t *testing.T) {
	storage := setupTestDB(t)
	err := storage.Close()
	assert.NoError(t, err)
}

func TestUpsertIngredient(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	ing := &types.Ingredient{
		Name:        "  Chicken Breast ",
		DisplayName: "Chicken Breast",
		Aliases:     []string{"chicken", "poultry"},
		Category:    "protein",
	}

	err := storage.UpsertIngredient(ctx, ing)
	require.NoError(t, err)
	assert.Greater(t, ing.ID, int64(0))
	assert.Equal(t, "chicken breast", ing.Name) // normalized

	// Upsert with the same canonical name updates in place
	update := &types.Ingredient{
		Name:        "chicken breast",
		DisplayName: "Chicken Breast",
		Aliases:     []string{"chicken"},
		IsCommon:    true,
	}
	err = storage.UpsertIngredient(ctx, update)
	require.NoError(t, err)
	assert.Equal(t, ing.ID, update.ID)

	found, err := storage.FindIngredientByName(ctx, "chicken breast")
	require.NoError(t, err)
	assert.True(t, found.IsCommon)
	assert.Equal(t, []string{"chicken"}, found.Aliases)
}

func TestFindIngredientByName_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	_, err := storage.FindIngredientByName(context.Background(), "unobtainium")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindIngredientByDisplayName(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	ing := &types.Ingredient{Name: "scallion", DisplayName: "Green Onion"}
	require.NoError(t, storage.UpsertIngredient(ctx, ing))

	// Case-insensitive match on display name
	found, err := storage.FindIngredientByDisplayName(ctx, "green onion")
	require.NoError(t, err)
	assert.Equal(t, ing.ID, found.ID)

	found, err = storage.FindIngredientByDisplayName(ctx, "GREEN ONION")
	require.NoError(t, err)
	assert.Equal(t, ing.ID, found.ID)
}

func TestFindIngredientsByAlias(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	seedIngredient(t, storage, "cilantro", "coriander", "chinese parsley")
	seedIngredient(t, storage, "parsley", "flat-leaf parsley")

	matches, err := storage.FindIngredientsByAlias(ctx, "coriander")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "cilantro", matches[0].Name)

	// "parsley" appears inside aliases of both ingredients
	matches, err = storage.FindIngredientsByAlias(ctx, "parsley")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	// A fragment spanning a comma boundary in the stored column must not match
	matches, err = storage.FindIngredientsByAlias(ctx, "coriander,chinese")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSuggestIngredients(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	rare := &types.Ingredient{Name: "galangal", DisplayName: "Galangal", UsageCount: 2}
	require.NoError(t, storage.UpsertIngredient(ctx, rare))
	common := &types.Ingredient{Name: "garlic", DisplayName: "Garlic", IsCommon: true, UsageCount: 1}
	require.NoError(t, storage.UpsertIngredient(ctx, common))

	suggestions, err := storage.SuggestIngredients(ctx, "ga", 10)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	// Common ingredients sort first regardless of usage count
	assert.Equal(t, "garlic", suggestions[0].Name)
	assert.Equal(t, "galangal", suggestions[1].Name)
}

func TestUpsertRecipe(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	recipe := &types.Recipe{
		Name:         "Garlic Chicken",
		Description:  "Pan-fried chicken with garlic",
		Cuisine:      "Italian",
		Difficulty:   "Easy",
		Tags:         []string{"Dinner", "High-Protein"},
		IsPublic:     true,
		SystemRating: 4.2,
	}

	err := storage.UpsertRecipe(ctx, recipe)
	require.NoError(t, err)
	assert.Greater(t, recipe.ID, int64(0))
	assert.False(t, recipe.CreatedAt.IsZero())

	got, err := storage.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Garlic Chicken", got.Name)
	assert.Equal(t, "italian", got.Cuisine)           // lowercased
	assert.Equal(t, "easy", got.Difficulty)           // lowercased
	assert.Equal(t, []string{"dinner", "high-protein"}, got.Tags)
	assert.False(t, got.HasEmbedding)

	// Update in place
	recipe.SystemRating = 4.8
	require.NoError(t, storage.UpsertRecipe(ctx, recipe))
	got, err = storage.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.8, got.SystemRating, 1e-9)
}

func TestGetRecipe_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	_, err := storage.GetRecipe(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetRecipes_ScopeFiltering(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	public := seedRecipe(t, storage, &types.Recipe{Name: "Public Pasta", IsPublic: true})
	system := seedRecipe(t, storage, &types.Recipe{Name: "System Soup", IsSystemRecipe: true})
	private := seedRecipe(t, storage, &types.Recipe{Name: "Secret Sauce", OwnerID: "owner-1"})

	ids := []int64{public.ID, system.ID, private.ID}

	// Anonymous sees public and system only
	visible, err := storage.GetRecipes(ctx, ids, types.Anonymous())
	require.NoError(t, err)
	assert.Len(t, visible, 2)

	// The owner additionally sees their private recipe
	visible, err = storage.GetRecipes(ctx, ids, types.Scope{RequesterID: "owner-1"})
	require.NoError(t, err)
	assert.Len(t, visible, 3)

	// A different identity does not
	visible, err = storage.GetRecipes(ctx, ids, types.Scope{RequesterID: "owner-2"})
	require.NoError(t, err)
	assert.Len(t, visible, 2)
}

func TestSetRecipeIngredients(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	garlic := seedIngredient(t, storage, "garlic")
	onion := seedIngredient(t, storage, "onion")
	chili := seedIngredient(t, storage, "chili")
	recipe := seedRecipe(t, storage, &types.Recipe{Name: "Base", IsPublic: true})

	linkRecipe(t, storage, recipe.ID, garlic.ID, onion.ID)

	names, err := storage.RecipeIngredientNames(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"garlic", "onion"}, names)

	// Usage counts track the link table
	found, err := storage.FindIngredientByName(ctx, "garlic")
	require.NoError(t, err)
	assert.Equal(t, 1, found.UsageCount)

	// Replacing links drops the old set and recounts
	linkRecipe(t, storage, recipe.ID, chili.ID)

	names, err = storage.RecipeIngredientNames(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"chili"}, names)

	found, err = storage.FindIngredientByName(ctx, "garlic")
	require.NoError(t, err)
	assert.Equal(t, 0, found.UsageCount)
}

func TestLinksByIngredients(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	garlic := seedIngredient(t, storage, "garlic")
	onion := seedIngredient(t, storage, "onion")

	public := seedRecipe(t, storage, &types.Recipe{Name: "Public", IsPublic: true})
	private := seedRecipe(t, storage, &types.Recipe{Name: "Private", OwnerID: "owner-1"})
	linkRecipe(t, storage, public.ID, garlic.ID, onion.ID)
	linkRecipe(t, storage, private.ID, garlic.ID)

	// Anonymous never sees links of private recipes
	links, err := storage.LinksByIngredients(ctx, []int64{garlic.ID, onion.ID}, types.Anonymous())
	require.NoError(t, err)
	assert.Len(t, links, 2)
	for _, l := range links {
		assert.Equal(t, public.ID, l.RecipeID)
	}

	links, err = storage.LinksByIngredients(ctx, []int64{garlic.ID, onion.ID}, types.Scope{RequesterID: "owner-1"})
	require.NoError(t, err)
	assert.Len(t, links, 3)
}

func TestIngredientCounts(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	a := seedIngredient(t, storage, "a")
	b := seedIngredient(t, storage, "b")
	c := seedIngredient(t, storage, "c")

	r1 := seedRecipe(t, storage, &types.Recipe{Name: "R1", IsPublic: true})
	r2 := seedRecipe(t, storage, &types.Recipe{Name: "R2", IsPublic: true})
	linkRecipe(t, storage, r1.ID, a.ID, b.ID, c.ID)
	linkRecipe(t, storage, r2.ID, a.ID)

	counts, err := storage.IngredientCounts(ctx, []int64{r1.ID, r2.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, counts[r1.ID])
	assert.Equal(t, 1, counts[r2.ID])
}

func TestRecipeEmbeddings(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	recipe := seedRecipe(t, storage, &types.Recipe{Name: "Vec", IsPublic: true})

	_, err := storage.GetRecipeEmbedding(ctx, recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	emb := &RecipeEmbedding{
		RecipeID:  recipe.ID,
		Vector:    SerializeVector([]float32{0.1, 0.2, 0.3}),
		Dimension: 3,
		Provider:  "local",
		Model:     "test-model",
	}
	require.NoError(t, storage.UpsertRecipeEmbedding(ctx, emb))

	got, err := storage.GetRecipeEmbedding(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Dimension)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, DeserializeVector(got.Vector))

	// HasEmbedding flips once a vector is stored
	loaded, err := storage.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.True(t, loaded.HasEmbedding)
}

func TestListRecipesMissingEmbedding(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	withVec := seedRecipe(t, storage, &types.Recipe{Name: "Has", IsPublic: true})
	without := seedRecipe(t, storage, &types.Recipe{Name: "Missing", IsPublic: true})

	require.NoError(t, storage.UpsertRecipeEmbedding(ctx, &RecipeEmbedding{
		RecipeID:  withVec.ID,
		Vector:    SerializeVector([]float32{1}),
		Dimension: 1,
	}))

	missing, err := storage.ListRecipesMissingEmbedding(ctx, 10)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, without.ID, missing[0].ID)
}

func TestStats(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	garlic := seedIngredient(t, storage, "garlic")
	recipe := seedRecipe(t, storage, &types.Recipe{Name: "R", IsPublic: true})
	linkRecipe(t, storage, recipe.ID, garlic.ID)

	stats, err := storage.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.RecipeCount)
	assert.Equal(t, 1, stats.IngredientCount)
	assert.Equal(t, 1, stats.LinkCount)
	assert.Equal(t, 0, stats.EmbeddingCount)
}

func TestTransactionCommitAndRollback(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()

	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.UpsertIngredient(ctx, &types.Ingredient{Name: "committed", DisplayName: "Committed"}))
	require.NoError(t, tx.Commit())

	_, err = storage.FindIngredientByName(ctx, "committed")
	assert.NoError(t, err)

	tx, err = storage.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.UpsertIngredient(ctx, &types.Ingredient{Name: "discarded", DisplayName: "Discarded"}))
	require.NoError(t, tx.Rollback())

	_, err = storage.FindIngredientByName(ctx, "discarded")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecipeCreatedAtPreserved(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	recipe := seedRecipe(t, storage, &types.Recipe{Name: "Old", IsPublic: true, CreatedAt: created})

	got, err := storage.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(created))
}
