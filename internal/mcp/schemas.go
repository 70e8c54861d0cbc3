package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// rankModeSchema is shared by every search tool
func rankModeSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Ranking strategy for result ordering",
		"enum":        []string{"balanced", "semantic", "quality", "popular", "trending", "discovery"},
		"default":     "balanced",
	}
}

func limitSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Maximum number of results to return (1-100)",
		"default":     20,
		"minimum":     1,
		"maximum":     100,
	}
}

func offsetSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Number of ranked results to skip for pagination",
		"default":     0,
		"minimum":     0,
	}
}

func requesterIDSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "UUID of the authenticated requester; omit for anonymous access (public and system recipes only)",
	}
}

func filterSchemas() map[string]interface{} {
	return map[string]interface{}{
		"cuisine": map[string]interface{}{
			"type":        "string",
			"description": "Restrict results to one cuisine (case-insensitive)",
		},
		"difficulty": map[string]interface{}{
			"type":        "string",
			"description": "Restrict results to one difficulty level",
			"enum":        []string{"easy", "medium", "hard"},
		},
		"dietary_tags": map[string]interface{}{
			"type":        "array",
			"description": "Recipes must carry at least one tag containing one of these values (e.g. 'vegan', 'gluten-free')",
			"items": map[string]interface{}{
				"type": "string",
			},
		},
	}
}

// searchByIngredientsTool returns the tool definition for search_by_ingredients
func searchByIngredientsTool() mcp.Tool {
	properties := map[string]interface{}{
		"ingredients": map[string]interface{}{
			"type":        "array",
			"description": "Ingredient names to match; aliases and display names resolve to the same canonical ingredient",
			"items": map[string]interface{}{
				"type": "string",
			},
		},
		"match_mode": map[string]interface{}{
			"type":        "string",
			"description": "any: at least one queried ingredient; all: every queried ingredient; exact: the recipe's full ingredient set equals the query",
			"enum":        []string{"any", "all", "exact"},
			"default":     "any",
		},
		"min_match_percent": map[string]interface{}{
			"type":        "number",
			"description": "Drop recipes whose match percentage falls below this threshold (0-100)",
			"minimum":     0,
			"maximum":     100,
		},
		"rank_mode":      rankModeSchema(),
		"limit":          limitSchema(),
		"offset":         offsetSchema(),
		"requester_id":   requesterIDSchema(),
		"with_breakdown": withBreakdownSchema(),
	}
	for k, v := range filterSchemas() {
		properties[k] = v
	}
	return mcp.Tool{
		Name:        "search_by_ingredients",
		Description: "Find recipes by ingredient overlap, ranked by the selected scoring mode",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: properties,
			Required:   []string{"ingredients"},
		},
	}
}

// semanticSearchTool returns the tool definition for semantic_search
func semanticSearchTool() mcp.Tool {
	properties := map[string]interface{}{
		"query": map[string]interface{}{
			"type":        "string",
			"description": "Natural-language description of the desired dish",
		},
		"min_similarity": map[string]interface{}{
			"type":        "number",
			"description": "Minimum cosine similarity for a recipe to qualify (0-1)",
			"default":     0.3,
			"minimum":     0,
			"maximum":     1,
		},
		"rank_mode":      rankModeSchema(),
		"limit":          limitSchema(),
		"offset":         offsetSchema(),
		"requester_id":   requesterIDSchema(),
		"with_breakdown": withBreakdownSchema(),
	}
	for k, v := range filterSchemas() {
		properties[k] = v
	}
	return mcp.Tool{
		Name:        "semantic_search",
		Description: "Find recipes by vector similarity to a natural-language query. Fails when no embedding provider is available.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: properties,
			Required:   []string{"query"},
		},
	}
}

// hybridSearchTool returns the tool definition for hybrid_search
func hybridSearchTool() mcp.Tool {
	properties := map[string]interface{}{
		"query": map[string]interface{}{
			"type":        "string",
			"description": "Search query fused across semantic and lexical retrieval",
		},
		"min_similarity": map[string]interface{}{
			"type":        "number",
			"description": "Minimum cosine similarity on the semantic path (0-1)",
			"default":     0.3,
			"minimum":     0,
			"maximum":     1,
		},
		"limit":        limitSchema(),
		"offset":       offsetSchema(),
		"requester_id": requesterIDSchema(),
	}
	for k, v := range filterSchemas() {
		properties[k] = v
	}
	return mcp.Tool{
		Name:        "hybrid_search",
		Description: "Search recipes with fused semantic and lexical retrieval. Degrades to lexical-only results when the embedding provider is down.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: properties,
			Required:   []string{"query"},
		},
	}
}

// suggestIngredientsTool returns the tool definition for suggest_ingredients
func suggestIngredientsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "suggest_ingredients",
		Description: "Autocomplete ingredient names from a partial string",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"partial": map[string]interface{}{
					"type":        "string",
					"description": "Partial ingredient name to complete",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of suggestions (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"partial"},
		},
	}
}

// reindexEmbeddingsTool returns the tool definition for reindex_embeddings
func reindexEmbeddingsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "reindex_embeddings",
		Description: "Generate vectors for recipes that do not have one yet and invalidate the result cache",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"batch_size": map[string]interface{}{
					"type":        "integer",
					"description": "Recipes per embedding batch",
					"minimum":     1,
				},
				"workers": map[string]interface{}{
					"type":        "integer",
					"description": "Concurrent embedding batches",
					"minimum":     1,
				},
				"max_total": map[string]interface{}{
					"type":        "integer",
					"description": "Upper bound on recipes processed in this run",
					"minimum":     1,
				},
			},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report catalog size, embedding coverage, provider configuration, and cache state",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

func withBreakdownSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": "Include per-component score contributions in each result",
		"default":     false,
	}
}
