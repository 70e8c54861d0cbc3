// Package searcher coordinates recipe search across three entry points.
//
// SearchByIngredients resolves raw ingredient names to canonical IDs,
// matches recipes by overlap under the requested match mode, and ranks the
// survivors with the composite scoring modes. SemanticSearch embeds the
// query and retrieves by cosine similarity; it fails closed when the
// embedding provider is unavailable. HybridSearch runs the semantic and
// lexical paths concurrently and fuses their rankings, degrading to
// lexical-only results when the semantic path fails.
//
// All three paths share a scoped LRU result cache with TTL expiry. The
// cache key includes the requester identity, so a private recipe cached
// for its owner can never leak into another requester's results. Catalog
// writers call InvalidateCache after mutations.
//
// Candidate retrieval over-fetches three times the requested limit before
// ranking, so post-retrieval filtering rarely starves a page.
package searcher
