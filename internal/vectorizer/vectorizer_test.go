package vectorizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealforge/recipesearch/internal/embedder"
	"github.com/mealforge/recipesearch/internal/storage"
	"github.com/mealforge/recipesearch/pkg/types"
)

func setupVectorizer(t *testing.T) (*Vectorizer, *storage.SQLiteStorage) {
	st, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	emb, err := embedder.NewLocalProvider(nil)
	require.NoError(t, err)

	return New(st, emb), st
}

func seedRecipeWithIngredients(t *testing.T, st *storage.SQLiteStorage, r *types.Recipe, ingredients ...string) *types.Recipe {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, st.UpsertRecipe(ctx, r))

	links := make([]storage.RecipeIngredient, len(ingredients))
	for i, name := range ingredients {
		ing := &types.Ingredient{Name: name, DisplayName: name}
		require.NoError(t, st.UpsertIngredient(ctx, ing))
		links[i] = storage.RecipeIngredient{RecipeID: r.ID, IngredientID: ing.ID, Position: i}
	}
	require.NoError(t, st.SetRecipeIngredients(ctx, r.ID, links))
	return r
}

func TestRun_EmbedsMissingRecipes(t *testing.T) {
	v, st := setupVectorizer(t)
	ctx := context.Background()

	r1 := seedRecipeWithIngredients(t, st, &types.Recipe{Name: "Garlic Chicken", IsPublic: true}, "garlic", "chicken")
	r2 := seedRecipeWithIngredients(t, st, &types.Recipe{Name: "Miso Soup", IsPublic: true}, "miso", "tofu")

	stats, err := v.Run(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.RecipesEmbedded)
	assert.Equal(t, 0, stats.RecipesFailed)
	assert.Empty(t, stats.ErrorMessages)

	for _, r := range []*types.Recipe{r1, r2} {
		emb, err := st.GetRecipeEmbedding(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, embedder.LocalDimension, emb.Dimension)
		assert.Equal(t, embedder.ProviderLocal, emb.Provider)
		assert.Len(t, storage.DeserializeVector(emb.Vector), embedder.LocalDimension)
	}
}

func TestRun_IdempotentOnSecondPass(t *testing.T) {
	v, st := setupVectorizer(t)
	ctx := context.Background()

	seedRecipeWithIngredients(t, st, &types.Recipe{Name: "Stew", IsPublic: true}, "beef")

	stats, err := v.Run(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.RecipesEmbedded)

	// Everything already has a vector
	stats, err = v.Run(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.RecipesEmbedded)
}

func TestRun_RespectsMaxTotal(t *testing.T) {
	v, st := setupVectorizer(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedRecipeWithIngredients(t, st, &types.Recipe{Name: "R", IsPublic: true}, "salt")
	}

	stats, err := v.Run(ctx, &Config{MaxTotal: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.RecipesEmbedded)
}

func TestRun_EmptyCatalog(t *testing.T) {
	v, _ := setupVectorizer(t)

	stats, err := v.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.RecipesEmbedded)
}

func TestBuildDocument(t *testing.T) {
	v, st := setupVectorizer(t)
	ctx := context.Background()

	recipe := seedRecipeWithIngredients(t, st, &types.Recipe{
		Name:        "Garlic Chicken",
		Description: "Pan-fried with lots of garlic",
		Cuisine:     "italian",
		Tags:        []string{"dinner", "high-protein"},
		IsPublic:    true,
	}, "garlic", "chicken breast")

	doc, err := v.BuildDocument(ctx, recipe)
	require.NoError(t, err)

	assert.Contains(t, doc, "Garlic Chicken")
	assert.Contains(t, doc, "Pan-fried with lots of garlic")
	assert.Contains(t, doc, "Cuisine: italian")
	assert.Contains(t, doc, "Tags: dinner, high-protein")
	assert.Contains(t, doc, "Ingredients: garlic, chicken breast")
}

func TestBuildDocument_SparseRecipe(t *testing.T) {
	v, st := setupVectorizer(t)
	ctx := context.Background()

	recipe := &types.Recipe{Name: "Just a Name", IsPublic: true}
	require.NoError(t, st.UpsertRecipe(ctx, recipe))

	doc, err := v.BuildDocument(ctx, recipe)
	require.NoError(t, err)
	assert.Equal(t, "Just a Name", doc)
}

func TestBuildDocument_Stable(t *testing.T) {
	v, st := setupVectorizer(t)
	ctx := context.Background()

	recipe := seedRecipeWithIngredients(t, st, &types.Recipe{Name: "Stable", IsPublic: true}, "a", "b")

	first, err := v.BuildDocument(ctx, recipe)
	require.NoError(t, err)
	second, err := v.BuildDocument(ctx, recipe)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
