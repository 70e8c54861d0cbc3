package searcher

import (
	"sort"

	"github.com/mealforge/recipesearch/internal/storage"
)

// Fusion weights for recipes found by both search paths. The semantic rank
// dominates because cosine ordering carries more signal than lexical
// database order.
const (
	fusionSemanticWeight = 0.7
	fusionTextWeight     = 0.3

	// textOnlyPenalty pushes recipes found only by the lexical path below
	// every recipe the semantic path saw
	textOnlyPenalty = 1000.0
)

// fusedCandidate is one recipe after rank fusion
type fusedCandidate struct {
	recipeID     int64
	combinedRank float64
	similarity   float64 // 0 when the semantic path didn't see the recipe
}

// fuseRanks combines the two result lists into a single ordering by
// combined rank, ascending.
//
// A recipe in both lists scores semRank*0.7 + textRank*0.3. A semantic-only
// recipe scores semRank*0.7. A text-only recipe scores 1000+textRank, so it
// always sorts after anything with a semantic rank. Ranks are 1-based
// positions in each source list.
func fuseRanks(vectorResults []storage.VectorResult, textResults []storage.TextResult) []fusedCandidate {
	type ranks struct {
		semRank    int
		textRank   int
		similarity float64
	}
	byID := make(map[int64]*ranks, len(vectorResults)+len(textResults))

	for i, vr := range vectorResults {
		byID[vr.RecipeID] = &ranks{semRank: i + 1, similarity: vr.Similarity}
	}
	for i, tr := range textResults {
		r, ok := byID[tr.RecipeID]
		if !ok {
			r = &ranks{}
			byID[tr.RecipeID] = r
		}
		r.textRank = i + 1
	}

	candidates := make([]fusedCandidate, 0, len(byID))
	for id, r := range byID {
		var combined float64
		switch {
		case r.semRank > 0 && r.textRank > 0:
			combined = float64(r.semRank)*fusionSemanticWeight + float64(r.textRank)*fusionTextWeight
		case r.semRank > 0:
			combined = float64(r.semRank) * fusionSemanticWeight
		default:
			combined = textOnlyPenalty + float64(r.textRank)
		}
		candidates = append(candidates, fusedCandidate{
			recipeID:     id,
			combinedRank: combined,
			similarity:   r.similarity,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].combinedRank != candidates[j].combinedRank {
			return candidates[i].combinedRank < candidates[j].combinedRank
		}
		return candidates[i].recipeID < candidates[j].recipeID
	})

	return candidates
}
