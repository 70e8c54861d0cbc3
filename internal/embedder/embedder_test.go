package embedder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHash(t *testing.T) {
	a := ComputeHash("chicken soup")
	b := ComputeHash("chicken soup")
	c := ComputeHash("chicken stew")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64) // hex-encoded sha256
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(EmbeddingRequest{Text: "ok"}))
	assert.ErrorIs(t, ValidateRequest(EmbeddingRequest{}), ErrEmptyText)
}

func TestValidateBatchRequest(t *testing.T) {
	assert.NoError(t, ValidateBatchRequest(BatchEmbeddingRequest{Texts: []string{"a", "b"}}))
	assert.ErrorIs(t, ValidateBatchRequest(BatchEmbeddingRequest{}), ErrInvalidInput)
	assert.ErrorIs(t, ValidateBatchRequest(BatchEmbeddingRequest{Texts: []string{"a", ""}}), ErrEmptyText)
}

func TestCache_GetReturnsDeepCopy(t *testing.T) {
	cache := NewCache(10)
	original := &Embedding{
		Vector:    []float32{1, 2, 3},
		Dimension: 3,
		Provider:  ProviderLocal,
		Hash:      "h",
	}
	cache.Set("h", original)

	got, ok := cache.Get("h")
	require.True(t, ok)
	got.Vector[0] = 99

	again, ok := cache.Get("h")
	require.True(t, ok)
	assert.Equal(t, float32(1), again.Vector[0])
}

func TestCache_MissAndClear(t *testing.T) {
	cache := NewCache(10)
	_, ok := cache.Get("missing")
	assert.False(t, ok)

	cache.Set("h", &Embedding{Hash: "h"})
	assert.Equal(t, 1, cache.Size())
	cache.Clear()
	assert.Equal(t, 0, cache.Size())
}

func TestCache_LRUEviction(t *testing.T) {
	cache := NewCache(2)
	cache.Set("a", &Embedding{Hash: "a"})
	cache.Set("b", &Embedding{Hash: "b"})
	cache.Set("c", &Embedding{Hash: "c"}) // evicts "a"

	_, ok := cache.Get("a")
	assert.False(t, ok)
	_, ok = cache.Get("c")
	assert.True(t, ok)
}

func TestLocalProvider_Deterministic(t *testing.T) {
	provider, err := NewLocalProvider(nil)
	require.NoError(t, err)

	ctx := context.Background()
	a, err := provider.GenerateEmbedding(ctx, EmbeddingRequest{Text: "tomato soup"})
	require.NoError(t, err)
	b, err := provider.GenerateEmbedding(ctx, EmbeddingRequest{Text: "tomato soup"})
	require.NoError(t, err)
	c, err := provider.GenerateEmbedding(ctx, EmbeddingRequest{Text: "beef stew"})
	require.NoError(t, err)

	assert.Equal(t, a.Vector, b.Vector)
	assert.NotEqual(t, a.Vector, c.Vector)
	assert.Equal(t, LocalDimension, a.Dimension)
	assert.Len(t, a.Vector, LocalDimension)
	assert.Equal(t, ProviderLocal, a.Provider)
}

func TestLocalProvider_Batch(t *testing.T) {
	provider, err := NewLocalProvider(NewCache(10))
	require.NoError(t, err)

	resp, err := provider.GenerateBatch(context.Background(), BatchEmbeddingRequest{
		Texts: []string{"one", "two", "three"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Embeddings, 3)
	assert.Equal(t, ProviderLocal, resp.Provider)

	single, err := provider.GenerateEmbedding(context.Background(), EmbeddingRequest{Text: "two"})
	require.NoError(t, err)
	assert.Equal(t, single.Vector, resp.Embeddings[1].Vector)
}

func TestLocalProvider_EmptyText(t *testing.T) {
	provider, err := NewLocalProvider(nil)
	require.NoError(t, err)

	_, err = provider.GenerateEmbedding(context.Background(), EmbeddingRequest{})
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestNormalizeVector(t *testing.T) {
	v := NormalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, float64(v[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(v[1]), 1e-6)

	// Zero vector passes through unchanged
	zero := []float32{0, 0}
	assert.Equal(t, zero, NormalizeVector(zero))
}

func TestRetryWithBackoff_SucceedsAfterFailures(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}

	attempts := 0
	result, err := retryWithBackoff(context.Background(), cfg, func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoff_ExhaustsRetries(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}

	wantErr := errors.New("always fails")
	_, err := retryWithBackoff(context.Background(), cfg, func() (int, error) {
		return 0, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestRetryWithBackoff_ContextCancellation(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 5, BaseDelay: 50 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := retryWithBackoff(ctx, cfg, func() (int, error) {
		return 0, errors.New("fail")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewFromEnv_ExplicitProvider(t *testing.T) {
	t.Setenv(EnvProvider, "local")
	t.Setenv(EnvOpenAIAPIKey, "sk-unused")

	emb, err := NewFromEnv()
	require.NoError(t, err)
	defer emb.Close()
	assert.Equal(t, ProviderLocal, emb.Provider())
}

func TestNewFromEnv_UnknownProvider(t *testing.T) {
	t.Setenv(EnvProvider, "quantum")

	_, err := NewFromEnv()
	assert.ErrorIs(t, err, ErrUnsupportedModel)
}

func TestNewFromEnv_DefaultsToLocal(t *testing.T) {
	t.Setenv(EnvProvider, "")
	t.Setenv(EnvOpenAIAPIKey, "")
	t.Setenv(EnvOllamaURL, "")

	emb, err := NewFromEnv()
	require.NoError(t, err)
	defer emb.Close()
	assert.Equal(t, ProviderLocal, emb.Provider())
}

func TestDetectProvider(t *testing.T) {
	t.Setenv(EnvProvider, "")
	t.Setenv(EnvOpenAIAPIKey, "")
	t.Setenv(EnvOllamaURL, "")
	assert.Equal(t, ProviderLocal, DetectProvider())

	t.Setenv(EnvOllamaURL, "http://localhost:11434")
	assert.Equal(t, ProviderOllama, DetectProvider())

	// An API key outranks an Ollama URL
	t.Setenv(EnvOpenAIAPIKey, "sk-test")
	assert.Equal(t, ProviderOpenAI, DetectProvider())

	// Explicit selection outranks both
	t.Setenv(EnvProvider, "LOCAL")
	assert.Equal(t, ProviderLocal, DetectProvider())
}

func TestNew_ExplicitConfig(t *testing.T) {
	emb, err := New(Config{Provider: "local", CacheSize: 100})
	require.NoError(t, err)
	defer emb.Close()
	assert.Equal(t, ProviderLocal, emb.Provider())

	_, err = New(Config{Provider: "nope"})
	assert.ErrorIs(t, err, ErrUnsupportedModel)
}
