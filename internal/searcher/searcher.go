package searcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mealforge/recipesearch/internal/embedder"
	"github.com/mealforge/recipesearch/internal/matcher"
	"github.com/mealforge/recipesearch/internal/ranker"
	"github.com/mealforge/recipesearch/internal/resolver"
	"github.com/mealforge/recipesearch/internal/storage"
	"github.com/mealforge/recipesearch/pkg/types"
)

// overfetchFactor widens candidate retrieval so post-retrieval ranking has
// enough material even after visibility and threshold filtering
const overfetchFactor = 3

// Response contains search results and request metadata
type Response struct {
	Results      []types.RankedResult
	TotalResults int

	// Degraded is set when hybrid search lost its semantic path and fell
	// back to lexical-only results
	Degraded bool

	CacheHit bool
	Duration time.Duration

	VectorResults int
	TextResults   int
}

// Searcher coordinates the three search entry points over resolution,
// matching, vector search, fusion, ranking, and the result cache
type Searcher struct {
	storage  storage.Storage
	embedder embedder.Embedder
	resolver *resolver.Resolver
	matcher  *matcher.Matcher
	ranker   *ranker.Ranker
	cache    *resultCache
}

// Option configures a Searcher
type Option func(*Searcher)

// WithCache overrides the default result cache sizing
func WithCache(size int, ttl time.Duration) Option {
	return func(s *Searcher) {
		s.cache = newResultCache(size, ttl)
	}
}

// WithRanker overrides the default ranker, mainly to inject a fixed clock
// in tests
func WithRanker(rk *ranker.Ranker) Option {
	return func(s *Searcher) {
		s.ranker = rk
	}
}

// New creates a new Searcher
func New(st storage.Storage, emb embedder.Embedder, opts ...Option) *Searcher {
	s := &Searcher{
		storage:  st,
		embedder: emb,
		resolver: resolver.New(st),
		matcher:  matcher.New(st),
		ranker:   ranker.New(),
		cache:    newResultCache(DefaultCacheSize, DefaultCacheTTL),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SearchByIngredients finds recipes overlapping the given ingredient names.
// Unknown names are dropped during resolution; a query where nothing
// resolves returns an empty response rather than an error.
func (s *Searcher) SearchByIngredients(ctx context.Context, ingredients []string, opts *types.SearchOptions) (*Response, error) {
	startTime := time.Now()

	opts, err := s.prepareOptions(opts)
	if err != nil {
		return nil, err
	}
	if !hasAnyName(ingredients) {
		return nil, types.ErrNoIngredients
	}

	key := ingredientsCacheKey(ingredients, opts)
	if cached := s.cache.get(key); cached != nil {
		cached.CacheHit = true
		cached.Duration = time.Since(startTime)
		return cached, nil
	}

	resolved, err := s.resolver.Resolve(ctx, ingredients)
	if err != nil {
		return nil, err
	}
	if len(resolved) == 0 {
		return &Response{Duration: time.Since(startTime)}, nil
	}

	matches, err := s.matcher.Match(ctx, resolver.IDs(resolved), opts)
	if err != nil {
		return nil, err
	}

	results := make([]types.RankedResult, len(matches))
	for i, m := range matches {
		results[i] = types.RankedResult{
			Recipe:             *m.Recipe,
			MatchedIngredients: m.MatchedIngredients,
			TotalIngredients:   m.TotalIngredients,
			MatchPercent:       m.MatchPercent,
		}
	}

	s.ranker.Rank(opts.RankMode, results, opts.WithBreakdown)
	response := s.finish(results, opts, startTime)
	s.cache.set(key, response)
	return response, nil
}

// SemanticSearch finds recipes by vector similarity to a natural-language
// query. An unavailable embedding provider fails the request; there is no
// silent fallback on this path.
func (s *Searcher) SemanticSearch(ctx context.Context, query string, opts *types.SearchOptions) (*Response, error) {
	startTime := time.Now()

	opts, err := s.prepareOptions(opts)
	if err != nil {
		return nil, err
	}
	if isBlank(query) {
		return nil, types.ErrEmptyQuery
	}

	key := queryCacheKey("semantic", query, opts)
	if cached := s.cache.get(key); cached != nil {
		cached.CacheHit = true
		cached.Duration = time.Since(startTime)
		return cached, nil
	}

	vectorResults, err := s.runVectorSearch(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	results, err := s.buildSemanticResults(ctx, vectorResults, opts)
	if err != nil {
		return nil, err
	}

	s.ranker.Rank(opts.RankMode, results, opts.WithBreakdown)
	response := s.finish(results, opts, startTime)
	response.VectorResults = len(vectorResults)
	s.cache.set(key, response)
	return response, nil
}

// HybridSearch runs the semantic and lexical paths concurrently and fuses
// their rankings. If the semantic path fails the response degrades to
// lexical-only results and says so; the request only fails when both paths
// fail.
func (s *Searcher) HybridSearch(ctx context.Context, query string, opts *types.SearchOptions) (*Response, error) {
	startTime := time.Now()

	opts, err := s.prepareOptions(opts)
	if err != nil {
		return nil, err
	}
	if isBlank(query) {
		return nil, types.ErrEmptyQuery
	}

	key := queryCacheKey("hybrid", query, opts)
	if cached := s.cache.get(key); cached != nil {
		cached.CacheHit = true
		cached.Duration = time.Since(startTime)
		return cached, nil
	}

	type vectorOutcome struct {
		results []storage.VectorResult
		err     error
	}
	type textOutcome struct {
		results []storage.TextResult
		err     error
	}
	vectorChan := make(chan vectorOutcome, 1)
	textChan := make(chan textOutcome, 1)

	go func() {
		results, err := s.runVectorSearch(ctx, query, opts)
		vectorChan <- vectorOutcome{results: results, err: err}
	}()
	go func() {
		results, err := s.storage.SearchText(ctx, query, opts.Limit*overfetchFactor+opts.Offset, s.filters(opts))
		textChan <- textOutcome{results: results, err: err}
	}()

	var vectorRes vectorOutcome
	var textRes textOutcome
	for i := 0; i < 2; i++ {
		select {
		case vectorRes = <-vectorChan:
		case textRes = <-textChan:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if vectorRes.err != nil && textRes.err != nil {
		return nil, fmt.Errorf("%w: vector: %v; text: %v", types.ErrSearchUnavailable, vectorRes.err, textRes.err)
	}
	if textRes.err != nil {
		return nil, fmt.Errorf("text search: %w", textRes.err)
	}

	degraded := vectorRes.err != nil
	fused := fuseRanks(vectorRes.results, textRes.results)

	results, err := s.buildFusedResults(ctx, fused, opts)
	if err != nil {
		return nil, err
	}

	response := s.finish(results, opts, startTime)
	response.Degraded = degraded
	response.VectorResults = len(vectorRes.results)
	response.TextResults = len(textRes.results)
	s.cache.set(key, response)
	return response, nil
}

// Suggest returns ingredient autocomplete suggestions
func (s *Searcher) Suggest(ctx context.Context, partial string, limit int) ([]types.IngredientSuggestion, error) {
	if limit <= 0 || limit > types.MaxLimit {
		limit = 10
	}
	return s.resolver.Suggest(ctx, partial, limit)
}

// InvalidateCache drops every cached response. Call after catalog writes
// or an embedding backfill.
func (s *Searcher) InvalidateCache() {
	s.cache.purge()
}

// CacheSize returns the number of cached responses
func (s *Searcher) CacheSize() int {
	return s.cache.size()
}

// runVectorSearch embeds the query and retrieves similarity candidates.
// Both the embedding call and the retrieval wrap ErrSearchUnavailable so
// callers can map the failure to their degradation policy.
func (s *Searcher) runVectorSearch(ctx context.Context, query string, opts *types.SearchOptions) ([]storage.VectorResult, error) {
	embedding, err := s.embedder.GenerateEmbedding(ctx, embedder.EmbeddingRequest{Text: query})
	if err != nil {
		return nil, fmt.Errorf("%w: query embedding: %v", types.ErrSearchUnavailable, err)
	}

	fetchLimit := opts.Limit*overfetchFactor + opts.Offset
	results, err := s.storage.SearchVector(ctx, embedding.Vector, fetchLimit, s.filters(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: vector search: %v", types.ErrSearchUnavailable, err)
	}
	return results, nil
}

// buildSemanticResults loads the visible recipes behind vector hits and
// attaches their similarity signal
func (s *Searcher) buildSemanticResults(ctx context.Context, vectorResults []storage.VectorResult, opts *types.SearchOptions) ([]types.RankedResult, error) {
	if len(vectorResults) == 0 {
		return nil, nil
	}

	similarity := make(map[int64]float64, len(vectorResults))
	ids := make([]int64, len(vectorResults))
	for i, vr := range vectorResults {
		ids[i] = vr.RecipeID
		similarity[vr.RecipeID] = vr.Similarity
	}

	recipes, err := s.storage.GetRecipes(ctx, ids, opts.Scope)
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}

	results := make([]types.RankedResult, 0, len(recipes))
	for _, r := range recipes {
		results = append(results, types.RankedResult{
			Recipe:     *r,
			Similarity: similarity[r.ID],
		})
	}
	return results, nil
}

// buildFusedResults loads recipes in fused order and assigns rank-derived
// scores. Fusion order is final for hybrid responses; the composite ranking
// modes only apply to the single-path searches.
func (s *Searcher) buildFusedResults(ctx context.Context, fused []fusedCandidate, opts *types.SearchOptions) ([]types.RankedResult, error) {
	if len(fused) == 0 {
		return nil, nil
	}

	similarity := make(map[int64]float64, len(fused))
	order := make(map[int64]int, len(fused))
	ids := make([]int64, len(fused))
	for i, fc := range fused {
		ids[i] = fc.recipeID
		similarity[fc.recipeID] = fc.similarity
		order[fc.recipeID] = i
	}

	recipes, err := s.storage.GetRecipes(ctx, ids, opts.Scope)
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}

	// GetRecipes does not preserve input order; restore fusion order
	ordered := make([]*types.Recipe, len(fused))
	for _, r := range recipes {
		ordered[order[r.ID]] = r
	}

	results := make([]types.RankedResult, 0, len(recipes))
	for i, r := range ordered {
		if r == nil {
			continue // filtered out by visibility
		}
		results = append(results, types.RankedResult{
			Recipe:     *r,
			Rank:       len(results) + 1,
			Similarity: similarity[r.ID],
			// Rank-derived score keeps the response totally ordered
			Score: 1.0 / (1.0 + fused[i].combinedRank),
		})
	}
	return results, nil
}

// finish applies pagination and fills response metadata. Ranks are
// reassigned after slicing so page one starts at rank 1 plus its offset.
func (s *Searcher) finish(results []types.RankedResult, opts *types.SearchOptions, startTime time.Time) *Response {
	total := len(results)

	start := opts.Offset
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	page := results[start:end]
	for i := range page {
		page[i].Rank = start + i + 1
	}

	return &Response{
		Results:      page,
		TotalResults: total,
		Duration:     time.Since(startTime),
	}
}

// filters translates search options into the storage filter set
func (s *Searcher) filters(opts *types.SearchOptions) *storage.SearchFilters {
	return &storage.SearchFilters{
		Scope:         opts.Scope,
		Cuisine:       opts.Cuisine,
		Difficulty:    opts.Difficulty,
		DietaryTags:   opts.DietaryTags,
		MinSimilarity: opts.MinSimilarity,
	}
}

// prepareOptions normalizes and validates options without mutating the
// caller's copy
func (s *Searcher) prepareOptions(opts *types.SearchOptions) (*types.SearchOptions, error) {
	var prepared types.SearchOptions
	if opts != nil {
		prepared = *opts
	}
	prepared.Normalize()
	if err := prepared.Validate(); err != nil {
		return nil, err
	}
	return &prepared, nil
}

func hasAnyName(names []string) bool {
	for _, n := range names {
		if types.NormalizeIngredientName(n) != "" {
			return true
		}
	}
	return false
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

// IsUnavailable reports whether an error means the semantic path could not
// run at all
func IsUnavailable(err error) bool {
	return errors.Is(err, types.ErrSearchUnavailable)
}
