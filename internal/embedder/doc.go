// Package embedder generates vector embeddings for recipe documents and
// search queries.
//
// Three providers are supported:
//
//   - openai: OpenAI embeddings API (requires OPENAI_API_KEY)
//   - ollama: a local Ollama instance (OLLAMA_URL, default localhost:11434)
//   - local: deterministic hash-derived vectors for offline development
//
// Provider selection is environment-driven via NewFromEnv, or explicit via
// New(Config). All providers share an LRU cache keyed by content hash, so
// repeated queries never pay for a second API call, and API calls retry
// with exponential backoff.
//
// The provider may fail or time out; callers own the degradation policy.
// Semantic search fails closed on embedding errors, hybrid search falls
// back to lexical-only results.
package embedder
