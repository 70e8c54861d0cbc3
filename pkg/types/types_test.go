package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIngredientName(t *testing.T) {
	assert.Equal(t, "chicken breast", NormalizeIngredientName("  Chicken Breast "))
	assert.Equal(t, "", NormalizeIngredientName("   "))
}

func TestMatchesAlias(t *testing.T) {
	ing := Ingredient{
		Name:    "cilantro",
		Aliases: []string{"Coriander", "chinese parsley"},
	}

	assert.True(t, ing.MatchesAlias("coriander"))
	assert.True(t, ing.MatchesAlias("parsley")) // substring of an alias
	assert.False(t, ing.MatchesAlias("basil"))
	assert.False(t, ing.MatchesAlias(""))
}

func TestHasTagContaining(t *testing.T) {
	r := Recipe{Tags: []string{"vegan-friendly", "Quick Dinner"}}

	assert.True(t, r.HasTagContaining("vegan"))
	assert.True(t, r.HasTagContaining("QUICK"))
	assert.False(t, r.HasTagContaining("keto"))
	assert.False(t, r.HasTagContaining(""))
}

func TestScopeCanSee(t *testing.T) {
	public := &Recipe{IsPublic: true}
	system := &Recipe{IsSystemRecipe: true}
	private := &Recipe{OwnerID: "owner-1"}

	anon := Anonymous()
	assert.True(t, anon.IsAnonymous())
	assert.True(t, anon.CanSee(public))
	assert.True(t, anon.CanSee(system))
	assert.False(t, anon.CanSee(private))

	owner := Scope{RequesterID: "owner-1"}
	assert.True(t, owner.CanSee(private))

	other := Scope{RequesterID: "owner-2"}
	assert.False(t, other.CanSee(private))
}

func TestScopeCacheKeyPart(t *testing.T) {
	assert.Equal(t, "anonymous", Anonymous().CacheKeyPart())
	assert.Equal(t, "user:abc", Scope{RequesterID: "abc"}.CacheKeyPart())
}

func TestSearchOptionsNormalize(t *testing.T) {
	var opts SearchOptions
	opts.Normalize()

	assert.Equal(t, MatchAny, opts.MatchMode)
	assert.Equal(t, RankBalanced, opts.RankMode)
	assert.Equal(t, DefaultLimit, opts.Limit)
	assert.Equal(t, 0, opts.Offset)
	assert.InDelta(t, DefaultMinSimilarity, opts.MinSimilarity, 1e-9)

	opts = SearchOptions{Limit: 500, Offset: -3}
	opts.Normalize()
	assert.Equal(t, MaxLimit, opts.Limit)
	assert.Equal(t, 0, opts.Offset)
}

func TestSearchOptionsValidate(t *testing.T) {
	opts := SearchOptions{}
	opts.Normalize()
	assert.NoError(t, opts.Validate())

	bad := opts
	bad.MatchMode = "fuzzy"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidMatchMode)

	bad = opts
	bad.RankMode = "chaotic"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidRankMode)

	bad = opts
	bad.MinMatchPercent = 101
	assert.ErrorIs(t, bad.Validate(), ErrInvalidThreshold)

	bad = opts
	bad.MinSimilarity = 1.5
	assert.ErrorIs(t, bad.Validate(), ErrInvalidThreshold)
}

func TestSearchOptionsCacheKeyPart(t *testing.T) {
	a := SearchOptions{
		MatchMode:   MatchAll,
		RankMode:    RankQuality,
		DietaryTags: []string{"Vegan", "gluten-free"},
		Scope:       Scope{RequesterID: "u1"},
	}
	a.Normalize()

	// Tag order and casing do not change the key
	b := a
	b.DietaryTags = []string{"GLUTEN-FREE", "vegan"}
	assert.Equal(t, a.CacheKeyPart(), b.CacheKeyPart())

	// A different identity always changes the key
	c := a
	c.Scope = Anonymous()
	assert.NotEqual(t, a.CacheKeyPart(), c.CacheKeyPart())

	// A different mode changes the key
	d := a
	d.MatchMode = MatchExact
	assert.NotEqual(t, a.CacheKeyPart(), d.CacheKeyPart())
}

func TestRecipeValidate(t *testing.T) {
	valid := Recipe{ID: 1, Name: "Soup", SystemRating: 4}
	assert.NoError(t, valid.Validate())

	assert.ErrorIs(t, (&Recipe{Name: "x"}).Validate(), ErrInvalidRecipeID)
	assert.ErrorIs(t, (&Recipe{ID: 1}).Validate(), ErrEmptyRecipeName)
	assert.ErrorIs(t, (&Recipe{ID: 1, Name: "x", SystemRating: 6}).Validate(), ErrInvalidRating)
}

func TestRankedResultValidate(t *testing.T) {
	valid := RankedResult{
		Recipe:       Recipe{ID: 1, Name: "Soup"},
		Rank:         1,
		MatchPercent: 75,
		Similarity:   0.8,
		Score:        0.6,
	}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.Rank = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidRank)

	bad = valid
	bad.MatchPercent = 120
	assert.ErrorIs(t, bad.Validate(), ErrInvalidMatchPercent)

	bad = valid
	bad.Similarity = -0.1
	assert.ErrorIs(t, bad.Validate(), ErrInvalidSimilarity)

	bad = valid
	bad.Score = 1.2
	assert.ErrorIs(t, bad.Validate(), ErrInvalidScore)
}
