// Package mcp implements the MCP server surface for recipe search.
//
// The server speaks the Model Context Protocol over stdio and exposes six
// tools. Stdout carries the protocol, so all logging goes to stderr.
//
// # Tools
//
// search_by_ingredients finds recipes by ingredient overlap:
//
//	{
//	  "ingredients": ["chicken", "garlic", "lemon"],
//	  "match_mode": "any",
//	  "rank_mode": "balanced",
//	  "min_match_percent": 50,
//	  "cuisine": "italian",
//	  "dietary_tags": ["gluten-free"],
//	  "limit": 20,
//	  "requester_id": "8f14e45f-ceea-467f-a0e6-1b9a4e3c2f10"
//	}
//
// Ingredient names resolve through canonical names, display names, and
// aliases; unknown names are dropped. Match modes: "any" requires at least
// one queried ingredient, "all" requires every queried ingredient, "exact"
// additionally rejects recipes with ingredients beyond the query.
//
// semantic_search retrieves recipes by embedding similarity:
//
//	{
//	  "query": "something warm and comforting for a cold evening",
//	  "min_similarity": 0.3,
//	  "rank_mode": "quality"
//	}
//
// The call fails with ErrorCodeSearchUnavailable when no embedding provider
// is reachable; it never silently falls back to lexical search.
//
// hybrid_search fuses semantic and lexical retrieval into one ordering.
// When the semantic path fails the response carries "degraded": true and
// lexical-only results.
//
// suggest_ingredients autocompletes partial ingredient names, common
// ingredients first.
//
// reindex_embeddings backfills vectors for recipes that lack one and
// invalidates the result cache.
//
// get_status reports catalog counts, embedding coverage, the active
// provider, and cache state.
//
// # Visibility
//
// Every search tool accepts an optional requester_id. A request without one
// is anonymous and sees only public and system recipes. A present
// requester_id must be a well-formed UUID and additionally unlocks that
// user's own private recipes. The identity is trusted input from the
// authenticating front end; this server performs no authentication itself.
//
// # Error codes
//
//	-32602  invalid parameters
//	-32603  internal error
//	-32001  ingredient list empty after normalization
//	-32002  query empty or whitespace
//	-32003  semantic search unavailable
//	-32004  requester_id is not a valid UUID
package mcp
