// Package vectorizer builds embedding documents for recipes and backfills
// missing vectors.
//
// The pipeline is: list recipes without a stored vector -> build a text
// document per recipe -> embed documents in provider-sized batches -> store
// the serialized vectors. Batches run concurrently under an errgroup with a
// bounded worker count, and each batch commits in its own transaction so a
// failed batch never loses earlier work.
package vectorizer

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mealforge/recipesearch/internal/embedder"
	"github.com/mealforge/recipesearch/internal/storage"
	"github.com/mealforge/recipesearch/pkg/types"
)

// Vectorizer backfills recipe embeddings
type Vectorizer struct {
	storage  storage.Storage
	embedder embedder.Embedder

	workers int
}

// Config contains configuration for a backfill run
type Config struct {
	Workers   int // Number of concurrent batches (default: runtime.NumCPU())
	BatchSize int // Recipes per embedding batch (default: embedder.MaxBatchSize)
	MaxTotal  int // Upper bound on recipes processed in one run (default: 1000)
}

// Statistics summarizes a backfill run
type Statistics struct {
	RecipesEmbedded int
	RecipesFailed   int
	Duration        time.Duration
	ErrorMessages   []string
}

// New creates a new Vectorizer
func New(st storage.Storage, emb embedder.Embedder) *Vectorizer {
	return &Vectorizer{
		storage:  st,
		embedder: emb,
		workers:  runtime.NumCPU(),
	}
}

// Run embeds every recipe currently missing a vector, up to the configured
// cap. Per-recipe failures are recorded and skipped; the run only aborts on
// context cancellation or a storage error.
func (v *Vectorizer) Run(ctx context.Context, config *Config) (*Statistics, error) {
	if config == nil {
		config = &Config{}
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.BatchSize <= 0 || config.BatchSize > embedder.MaxBatchSize {
		config.BatchSize = embedder.MaxBatchSize
	}
	if config.MaxTotal <= 0 {
		config.MaxTotal = 1000
	}
	v.workers = config.Workers

	startTime := time.Now()
	stats := &Statistics{
		ErrorMessages: make([]string, 0),
	}

	recipes, err := v.storage.ListRecipesMissingEmbedding(ctx, config.MaxTotal)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes missing embeddings: %w", err)
	}
	if len(recipes) == 0 {
		stats.Duration = time.Since(startTime)
		return stats, nil
	}

	var (
		embedded int32
		failed   int32
	)
	var mu sync.Mutex // Protect stats.ErrorMessages

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.workers)

	for i := 0; i < len(recipes); i += config.BatchSize {
		end := i + config.BatchSize
		if end > len(recipes) {
			end = len(recipes)
		}
		batch := recipes[i:end]

		g.Go(func() error {
			return v.embedBatch(gctx, batch, &embedded, &failed, &mu, stats)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.RecipesEmbedded = int(embedded)
	stats.RecipesFailed = int(failed)
	stats.Duration = time.Since(startTime)
	return stats, nil
}

// embedBatch embeds one batch of recipes and stores the vectors within a
// single transaction
func (v *Vectorizer) embedBatch(ctx context.Context, batch []*types.Recipe,
	embedded, failed *int32, mu *sync.Mutex, stats *Statistics) error {

	docs := make([]string, 0, len(batch))
	kept := make([]*types.Recipe, 0, len(batch))
	for _, r := range batch {
		doc, err := v.BuildDocument(ctx, r)
		if err != nil {
			atomic.AddInt32(failed, 1)
			mu.Lock()
			stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("recipe %d: %v", r.ID, err))
			mu.Unlock()
			continue
		}
		docs = append(docs, doc)
		kept = append(kept, r)
	}
	if len(docs) == 0 {
		return nil
	}

	resp, err := v.embedder.GenerateBatch(ctx, embedder.BatchEmbeddingRequest{Texts: docs})
	if err != nil {
		// The whole batch failed; record per recipe and continue with
		// the other batches.
		atomic.AddInt32(failed, int32(len(kept)))
		mu.Lock()
		stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("embed batch of %d: %v", len(kept), err))
		mu.Unlock()
		return nil
	}
	if len(resp.Embeddings) != len(kept) {
		return fmt.Errorf("embedding count mismatch: got %d, want %d", len(resp.Embeddings), len(kept))
	}

	tx, err := v.storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, r := range kept {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		emb := resp.Embeddings[i]
		record := &storage.RecipeEmbedding{
			RecipeID:  r.ID,
			Vector:    storage.SerializeVector(emb.Vector),
			Dimension: emb.Dimension,
			Provider:  resp.Provider,
			Model:     resp.Model,
		}
		if err := tx.UpsertRecipeEmbedding(ctx, record); err != nil {
			return fmt.Errorf("failed to store embedding for recipe %d: %w", r.ID, err)
		}
		atomic.AddInt32(embedded, 1)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// BuildDocument assembles the text embedded for one recipe: name,
// description, cuisine, tags, and the canonical ingredient names. The layout
// is stable so re-embedding an unchanged recipe yields the same cache hash.
func (v *Vectorizer) BuildDocument(ctx context.Context, r *types.Recipe) (string, error) {
	names, err := v.storage.RecipeIngredientNames(ctx, r.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load ingredient names: %w", err)
	}

	var b strings.Builder
	b.WriteString(r.Name)
	if r.Description != "" {
		b.WriteString("\n")
		b.WriteString(r.Description)
	}
	if r.Cuisine != "" {
		b.WriteString("\nCuisine: ")
		b.WriteString(r.Cuisine)
	}
	if len(r.Tags) > 0 {
		b.WriteString("\nTags: ")
		b.WriteString(strings.Join(r.Tags, ", "))
	}
	if len(names) > 0 {
		b.WriteString("\nIngredients: ")
		b.WriteString(strings.Join(names, ", "))
	}
	return b.String(), nil
}
