package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mealforge/recipesearch/internal/searcher"
	"github.com/mealforge/recipesearch/internal/storage"
	"github.com/mealforge/recipesearch/internal/vectorizer"
	"github.com/mealforge/recipesearch/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams     = -32602 // Invalid method parameters
	ErrorCodeInternalError     = -32603 // Internal JSON-RPC error
	ErrorCodeNoIngredients     = -32001 // Ingredient list empty after normalization
	ErrorCodeEmptyQuery        = -32002 // Query parameter empty or whitespace
	ErrorCodeSearchUnavailable = -32003 // Semantic search cannot run
	ErrorCodeInvalidIdentity   = -32004 // requester_id is not a valid UUID
)

// handleSearchByIngredients handles the search_by_ingredients tool invocation
func (s *Server) handleSearchByIngredients(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	ingredients, err := getStringSlice(args, "ingredients")
	if err != nil || len(ingredients) == 0 {
		return nil, newMCPError(ErrorCodeNoIngredients, "ingredients parameter is required and cannot be empty", map[string]interface{}{
			"param": "ingredients",
		})
	}

	opts, mcpErr := parseSearchOptions(args)
	if mcpErr != nil {
		return nil, mcpErr
	}
	opts.MatchMode = types.MatchMode(getStringDefault(args, "match_mode", string(types.MatchAny)))
	opts.MinMatchPercent = getFloatDefault(args, "min_match_percent", 0)

	response, err := s.searcher.SearchByIngredients(ctx, ingredients, opts)
	if err != nil {
		return nil, mapSearchError(err)
	}

	return mcp.NewToolResultText(formatJSON(searchResponseJSON(response, opts))), nil
}

// handleSemanticSearch handles the semantic_search tool invocation
func (s *Server) handleSemanticSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query := getStringDefault(args, "query", "")
	if strings.TrimSpace(query) == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param": "query",
		})
	}

	opts, mcpErr := parseSearchOptions(args)
	if mcpErr != nil {
		return nil, mcpErr
	}

	response, err := s.searcher.SemanticSearch(ctx, query, opts)
	if err != nil {
		return nil, mapSearchError(err)
	}

	return mcp.NewToolResultText(formatJSON(searchResponseJSON(response, opts))), nil
}

// handleHybridSearch handles the hybrid_search tool invocation
func (s *Server) handleHybridSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query := getStringDefault(args, "query", "")
	if strings.TrimSpace(query) == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param": "query",
		})
	}

	opts, mcpErr := parseSearchOptions(args)
	if mcpErr != nil {
		return nil, mcpErr
	}

	response, err := s.searcher.HybridSearch(ctx, query, opts)
	if err != nil {
		return nil, mapSearchError(err)
	}

	return mcp.NewToolResultText(formatJSON(searchResponseJSON(response, opts))), nil
}

// handleSuggestIngredients handles the suggest_ingredients tool invocation
func (s *Server) handleSuggestIngredients(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	partial := getStringDefault(args, "partial", "")
	if strings.TrimSpace(partial) == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "partial parameter is required and cannot be empty", map[string]interface{}{
			"param": "partial",
		})
	}
	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > types.MaxLimit {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	suggestions, err := s.searcher.Suggest(ctx, partial, limit)
	if err != nil {
		return nil, mapSearchError(err)
	}

	items := make([]map[string]interface{}, len(suggestions))
	for i, sug := range suggestions {
		items[i] = map[string]interface{}{
			"id":           sug.ID,
			"name":         sug.Name,
			"display_name": sug.DisplayName,
			"category":     sug.Category,
			"is_common":    sug.IsCommon,
			"usage_count":  sug.UsageCount,
		}
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"suggestions": items,
		"count":       len(items),
	})), nil
}

// handleReindexEmbeddings handles the reindex_embeddings tool invocation
func (s *Server) handleReindexEmbeddings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	config := &vectorizer.Config{
		BatchSize: getIntDefault(args, "batch_size", 0),
		Workers:   getIntDefault(args, "workers", 0),
		MaxTotal:  getIntDefault(args, "max_total", 0),
	}

	stats, err := s.vectorizer.Run(ctx, config)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "embedding backfill failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Freshly embedded recipes change semantic results
	s.searcher.InvalidateCache()

	response := map[string]interface{}{
		"recipes_embedded": stats.RecipesEmbedded,
		"recipes_failed":   stats.RecipesFailed,
		"duration_ms":      stats.Duration.Milliseconds(),
	}
	if len(stats.ErrorMessages) > 0 {
		errorCount := len(stats.ErrorMessages)
		if errorCount > 5 {
			response["errors"] = stats.ErrorMessages[:5]
			response["error_count"] = errorCount
		} else {
			response["errors"] = stats.ErrorMessages
		}
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.storage.Stats(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to read catalog statistics", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"catalog": map[string]interface{}{
			"recipes":     stats.RecipeCount,
			"ingredients": stats.IngredientCount,
			"links":       stats.LinkCount,
			"embeddings":  stats.EmbeddingCount,
		},
		"embedder": map[string]interface{}{
			"provider":  s.embedder.Provider(),
			"model":     s.embedder.Model(),
			"dimension": s.embedder.Dimension(),
		},
		"cache": map[string]interface{}{
			"entries": s.searcher.CacheSize(),
		},
		"storage": map[string]interface{}{
			"driver":     storage.DriverName,
			"build_mode": storage.BuildMode,
		},
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// parseSearchOptions extracts the option fields shared by the search tools
func parseSearchOptions(args map[string]interface{}) (*types.SearchOptions, error) {
	opts := &types.SearchOptions{
		RankMode:      types.RankMode(getStringDefault(args, "rank_mode", string(types.RankBalanced))),
		Cuisine:       getStringDefault(args, "cuisine", ""),
		Difficulty:    getStringDefault(args, "difficulty", ""),
		Limit:         getIntDefault(args, "limit", types.DefaultLimit),
		Offset:        getIntDefault(args, "offset", 0),
		MinSimilarity: getFloatDefault(args, "min_similarity", 0),
		WithBreakdown: getBoolDefault(args, "with_breakdown", false),
	}

	if opts.Limit < 1 || opts.Limit > types.MaxLimit {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": opts.Limit,
		})
	}

	tags, err := getStringSlice(args, "dietary_tags")
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "dietary_tags must be an array of strings", map[string]interface{}{
			"param": "dietary_tags",
		})
	}
	opts.DietaryTags = tags

	scope, scopeErr := parseScope(args)
	if scopeErr != nil {
		return nil, scopeErr
	}
	opts.Scope = scope

	return opts, nil
}

// parseScope validates the optional requester identity. An absent
// requester_id means anonymous; a present one must be a well-formed UUID so
// a garbled identity can never alias another user's visibility.
func parseScope(args map[string]interface{}) (types.Scope, error) {
	raw := getStringDefault(args, "requester_id", "")
	if strings.TrimSpace(raw) == "" {
		return types.Anonymous(), nil
	}
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return types.Scope{}, newMCPError(ErrorCodeInvalidIdentity, "requester_id must be a valid UUID", map[string]interface{}{
			"param": "requester_id",
			"value": raw,
		})
	}
	return types.Scope{RequesterID: id.String()}, nil
}

// mapSearchError translates domain errors into MCP error codes
func mapSearchError(err error) error {
	switch {
	case errors.Is(err, types.ErrNoIngredients):
		return newMCPError(ErrorCodeNoIngredients, "no ingredients provided", nil)
	case errors.Is(err, types.ErrEmptyQuery):
		return newMCPError(ErrorCodeEmptyQuery, "query cannot be empty", nil)
	case errors.Is(err, types.ErrSearchUnavailable):
		return newMCPError(ErrorCodeSearchUnavailable, "semantic search is unavailable", map[string]interface{}{
			"error": err.Error(),
		})
	case errors.Is(err, types.ErrInvalidMatchMode),
		errors.Is(err, types.ErrInvalidRankMode),
		errors.Is(err, types.ErrInvalidThreshold):
		return newMCPError(ErrorCodeInvalidParams, err.Error(), nil)
	default:
		return newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// searchResponseJSON formats a search response for tool output
func searchResponseJSON(response *searcher.Response, opts *types.SearchOptions) map[string]interface{} {
	results := make([]map[string]interface{}, len(response.Results))
	for i, rr := range response.Results {
		item := map[string]interface{}{
			"rank":  rr.Rank,
			"score": rr.Score,
			"recipe": map[string]interface{}{
				"id":          rr.Recipe.ID,
				"name":        rr.Recipe.Name,
				"description": rr.Recipe.Description,
				"cuisine":     rr.Recipe.Cuisine,
				"difficulty":  rr.Recipe.Difficulty,
				"tags":        rr.Recipe.Tags,
			},
		}
		if rr.TotalIngredients > 0 {
			item["matched_ingredients"] = rr.MatchedIngredients
			item["total_ingredients"] = rr.TotalIngredients
			item["match_percent"] = rr.MatchPercent
		}
		if rr.Similarity > 0 {
			item["similarity"] = rr.Similarity
		}
		if rr.Breakdown != nil {
			item["breakdown"] = map[string]interface{}{
				"relevance":          rr.Breakdown.Relevance,
				"quality":            rr.Breakdown.Quality,
				"community":          rr.Breakdown.Community,
				"recency":            rr.Breakdown.Recency,
				"weighted_relevance": rr.Breakdown.WeightedRelevance,
				"weighted_quality":   rr.Breakdown.WeightedQuality,
				"weighted_community": rr.Breakdown.WeightedCommunity,
				"weighted_recency":   rr.Breakdown.WeightedRecency,
			}
		}
		results[i] = item
	}

	out := map[string]interface{}{
		"results":       results,
		"total_results": response.TotalResults,
		"limit":         opts.Limit,
		"offset":        opts.Offset,
		"cache_hit":     response.CacheHit,
		"duration_ms":   response.Duration.Milliseconds(),
	}
	if response.Degraded {
		out["degraded"] = true
	}
	return out
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getStringSlice extracts a string array parameter
func getStringSlice(args map[string]interface{}, key string) ([]string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s is not an array", key)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s contains a non-string element", key)
		}
		out = append(out, s)
	}
	return out, nil
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getFloatDefault extracts a float parameter with a default value
func getFloatDefault(args map[string]interface{}, key string, defaultValue float64) float64 {
	if val, ok := args[key].(float64); ok {
		return val
	}
	if val, ok := args[key].(int); ok {
		return float64(val)
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
