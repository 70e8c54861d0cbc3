package types

// RankedResult represents a single recipe in the final ordered result set.
// It carries the raw primary signal in its original unit (match percentage
// 0-100 or cosine similarity 0-1) for display, plus the composite score
// computed by the ranking engine on the normalized [0,1] scale.
type RankedResult struct {
	Recipe Recipe
	Rank   int // Position in result set (1-based)

	// Ingredient path signal
	MatchedIngredients []string
	TotalIngredients   int
	MatchPercent       float64 // 0-100

	// Semantic path signal
	Similarity float64 // 0-1

	// Composite score in [0,1], totally ordered within one response
	Score float64

	// Breakdown is populated only when the request asked for diagnostics
	Breakdown *ScoreBreakdown
}

// ScoreBreakdown exposes each normalized component and its weighted
// contribution for debugging and test assertions.
type ScoreBreakdown struct {
	Relevance float64 // primary signal normalized to [0,1]
	Quality   float64 // system rating / 5
	Community float64 // blended user rating and log-dampened likes
	Recency   float64 // exp decay by calendar age; 0 for modes that ignore it

	WeightedRelevance float64
	WeightedQuality   float64
	WeightedCommunity float64
	WeightedRecency   float64
}

// Validate checks invariants on a ranked result
func (rr *RankedResult) Validate() error {
	if rr.Recipe.ID == 0 {
		return ErrInvalidRecipeID
	}
	if rr.Rank < 1 {
		return ErrInvalidRank
	}
	if rr.MatchPercent < 0 || rr.MatchPercent > 100 {
		return ErrInvalidMatchPercent
	}
	if rr.Similarity < 0 || rr.Similarity > 1 {
		return ErrInvalidSimilarity
	}
	if rr.Score < 0 || rr.Score > 1 {
		return ErrInvalidScore
	}
	return nil
}
