package storage

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mealforge/recipesearch/pkg/types"
)

// searchVector performs vector similarity search. Candidate embeddings are
// filtered in SQL (visibility, cuisine, difficulty, dietary tags) and cosine
// similarity is computed in Go, so the same code path works for both the cgo
// and pure Go drivers.
func searchVector(ctx context.Context, q querier, queryVector []float32, limit int, filters *SearchFilters) ([]VectorResult, error) {
	query := `
		SELECT r.id, e.vector
		FROM recipes r
		INNER JOIN recipe_embeddings e ON r.id = e.recipe_id
		WHERE `
	var args []interface{}
	cond, args := applyFilters(args, filters)
	query += cond

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query embeddings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	minSimilarity := 0.0
	if filters != nil {
		minSimilarity = filters.MinSimilarity
	}

	candidates := make([]candidate, 0, 256)
	for rows.Next() {
		var recipeID int64
		var vectorBlob []byte
		if err := rows.Scan(&recipeID, &vectorBlob); err != nil {
			return nil, err
		}

		vector := deserializeVector(vectorBlob)
		if len(vector) != len(queryVector) {
			continue // Dimension mismatch, skip
		}

		similarity := cosineSimilarity(queryVector, vector)
		if similarity < minSimilarity {
			continue
		}

		candidates = append(candidates, candidate{recipeID: recipeID, score: similarity})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortCandidates(candidates)

	if limit <= 0 || limit > len(candidates) {
		limit = len(candidates)
	}
	results := make([]VectorResult, limit)
	for i := 0; i < limit; i++ {
		results[i] = VectorResult{
			RecipeID:   candidates[i].recipeID,
			Similarity: candidates[i].score,
		}
	}
	return results, nil
}

// searchText performs lexical substring search over recipe name, description,
// cuisine, and tags. Rows are returned in database order; rank assignment is
// the fusion stage's job.
func searchText(ctx context.Context, q querier, textQuery string, limit int, filters *SearchFilters) ([]TextResult, error) {
	needle := strings.ToLower(strings.TrimSpace(textQuery))
	if needle == "" {
		return nil, fmt.Errorf("empty search query")
	}

	query := `
		SELECT r.id
		FROM recipes r
		WHERE (
			LOWER(r.name) LIKE '%' || ? || '%'
			OR LOWER(r.description) LIKE '%' || ? || '%'
			OR LOWER(r.cuisine) LIKE '%' || ? || '%'
			OR r.tags LIKE '%' || ? || '%'
		) AND `
	args := []interface{}{needle, needle, needle, needle}
	cond, args := applyFilters(args, filters)
	query += cond
	query += " ORDER BY r.id LIMIT ?"
	args = append(args, limit)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute text search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []TextResult
	for rows.Next() {
		var result TextResult
		if err := rows.Scan(&result.RecipeID); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// applyFilters builds the shared WHERE tail: visibility scope first, then the
// optional cuisine, difficulty, and dietary tag predicates.
func applyFilters(args []interface{}, filters *SearchFilters) (string, []interface{}) {
	var scope types.Scope
	if filters != nil {
		scope = filters.Scope
	}
	cond, args := scopeCondition(scope, args)

	if filters == nil {
		return cond, args
	}

	if filters.Cuisine != "" {
		cond += " AND LOWER(r.cuisine) = ?"
		args = append(args, strings.ToLower(filters.Cuisine))
	}

	if filters.Difficulty != "" {
		cond += " AND LOWER(r.difficulty) = ?"
		args = append(args, strings.ToLower(filters.Difficulty))
	}

	if len(filters.DietaryTags) > 0 {
		// A recipe passes if its tag set intersects the restriction list;
		// restrictions match by containment, not equality.
		parts := make([]string, 0, len(filters.DietaryTags))
		for _, tag := range filters.DietaryTags {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag == "" {
				continue
			}
			parts = append(parts, "r.tags LIKE '%' || ? || '%'")
			args = append(args, tag)
		}
		if len(parts) > 0 {
			cond += " AND (" + strings.Join(parts, " OR ") + ")"
		}
	}

	return cond, args
}

// serializeVector converts a float32 slice to a byte blob (little-endian)
func serializeVector(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

// deserializeVector converts a byte blob back to a float32 slice
func deserializeVector(blob []byte) []float32 {
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		bits := binary.LittleEndian.Uint32(blob[i*4:])
		vector[i] = math.Float32frombits(bits)
	}
	return vector
}

// cosineSimilarity computes the cosine similarity between two vectors,
// clamped to [0,1] so downstream score math stays in range.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	similarity := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	if similarity < 0 {
		return 0
	}
	if similarity > 1 {
		return 1
	}
	return similarity
}

// candidate represents a recipe with its similarity score
type candidate struct {
	recipeID int64
	score    float64
}

// sortCandidates sorts candidates by score descending, recipe ID ascending
// for a deterministic order on ties
func sortCandidates(candidates []candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].recipeID < candidates[j].recipeID
	})
}

// SerializeVector is an exported helper for callers that persist embeddings
func SerializeVector(vector []float32) []byte {
	return serializeVector(vector)
}

// DeserializeVector is an exported helper for callers that read embeddings
func DeserializeVector(blob []byte) []float32 {
	return deserializeVector(blob)
}

// CosineSimilarity is an exported helper for testing
func CosineSimilarity(a, b []float32) float64 {
	return cosineSimilarity(a, b)
}
