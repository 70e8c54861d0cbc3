// Package ranker computes composite ranking scores over candidate recipes.
//
// Every mode blends the same four normalized components with a different
// weight vector. Weights per mode always sum to 1, so the composite score
// stays in [0,1] and scores are comparable within one response.
package ranker

import (
	"math"
	"sort"
	"time"

	"github.com/mealforge/recipesearch/pkg/types"
)

// Scoring constants
const (
	// MaxRating is the top of the 5-star rating scale
	MaxRating = 5.0
	// LikeSaturation is the like count at which the like signal reaches 1.0
	LikeSaturation = 1000.0
	// RecencyHalfLifeDays halves the recency component every two weeks
	RecencyHalfLifeDays = 14.0
	// UserRatingWeight and LikeWeight blend the two community signals
	UserRatingWeight = 0.7
	LikeWeight       = 0.3
)

// Weights is the per-component weight vector of one ranking mode
type Weights struct {
	Relevance float64
	Quality   float64
	Community float64
	Recency   float64
}

// modeWeights maps each ranking mode to its weight vector. The mode set is
// closed; unknown modes are rejected at option validation.
var modeWeights = map[types.RankMode]Weights{
	types.RankBalanced:  {Relevance: 0.60, Quality: 0.30, Community: 0.10},
	types.RankSemantic:  {Relevance: 0.90, Quality: 0.05, Community: 0.05},
	types.RankQuality:   {Relevance: 0.30, Quality: 0.55, Community: 0.15},
	types.RankPopular:   {Relevance: 0.25, Quality: 0.15, Community: 0.60},
	types.RankTrending:  {Relevance: 0.20, Quality: 0.10, Community: 0.40, Recency: 0.30},
	types.RankDiscovery: {Relevance: 0.55, Quality: 0.35, Community: 0.10},
}

// WeightsFor returns the weight vector for a mode, falling back to balanced
func WeightsFor(mode types.RankMode) Weights {
	if w, ok := modeWeights[mode]; ok {
		return w
	}
	return modeWeights[types.RankBalanced]
}

// Ranker scores and orders candidate recipes
type Ranker struct {
	now func() time.Time // injectable for recency tests
}

// New creates a new Ranker using wall-clock time
func New() *Ranker {
	return &Ranker{now: time.Now}
}

// NewWithClock creates a Ranker with a fixed clock for tests
func NewWithClock(now func() time.Time) *Ranker {
	return &Ranker{now: now}
}

// Score computes the composite score for one recipe given its normalized
// relevance signal (match percentage scaled to [0,1], or cosine similarity)
func (rk *Ranker) Score(mode types.RankMode, r *types.Recipe, relevance float64) (float64, types.ScoreBreakdown) {
	w := WeightsFor(mode)

	bd := types.ScoreBreakdown{
		Relevance: clamp01(relevance),
		Quality:   qualityComponent(r),
		Community: communityComponent(r),
	}
	if w.Recency > 0 {
		bd.Recency = rk.recencyComponent(r)
	}

	bd.WeightedRelevance = w.Relevance * bd.Relevance
	bd.WeightedQuality = w.Quality * bd.Quality
	bd.WeightedCommunity = w.Community * bd.Community
	bd.WeightedRecency = w.Recency * bd.Recency

	score := bd.WeightedRelevance + bd.WeightedQuality + bd.WeightedCommunity + bd.WeightedRecency
	return clamp01(score), bd
}

// Rank scores every result in place, sorts by score descending with recipe
// ID as a deterministic tiebreak, and assigns 1-based ranks. The relevance
// signal is taken from the ingredient path when present, otherwise from the
// semantic path.
func (rk *Ranker) Rank(mode types.RankMode, results []types.RankedResult, withBreakdown bool) {
	for i := range results {
		relevance := results[i].Similarity
		if results[i].TotalIngredients > 0 {
			relevance = results[i].MatchPercent / 100
		}

		score, bd := rk.Score(mode, &results[i].Recipe, relevance)
		results[i].Score = score
		if withBreakdown {
			b := bd
			results[i].Breakdown = &b
		} else {
			results[i].Breakdown = nil
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Recipe.ID < results[j].Recipe.ID
	})

	for i := range results {
		results[i].Rank = i + 1
	}
}

// qualityComponent normalizes the editorial system rating to [0,1]
func qualityComponent(r *types.Recipe) float64 {
	return clamp01(r.SystemRating / MaxRating)
}

// communityComponent blends average user rating with a log-dampened like
// count. Recipes with no ratings contribute only the like signal.
func communityComponent(r *types.Recipe) float64 {
	rating := 0.0
	if r.TotalUserRatings > 0 {
		rating = clamp01(r.AvgUserRating / MaxRating)
	}
	likes := math.Log1p(float64(r.LikeCount)) / math.Log1p(LikeSaturation)
	return clamp01(UserRatingWeight*rating + LikeWeight*clamp01(likes))
}

// recencyComponent decays exponentially with calendar age. A recipe created
// RecencyHalfLifeDays ago scores exactly 0.5; an unknown creation time
// scores zero.
func (rk *Ranker) recencyComponent(r *types.Recipe) float64 {
	if r.CreatedAt.IsZero() {
		return 0
	}
	ageDays := rk.now().Sub(r.CreatedAt).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	return clamp01(math.Exp(-math.Ln2 * ageDays / RecencyHalfLifeDays))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
