package embcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pawmart/petsearch/internal/db"
	"github.com/pawmart/petsearch/internal/domain"
)

func TestEmbed_CacheMiss(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:    []float32{0.1, 0.2, 0.3},
		PromptTokens: 10,
		TotalTokens:  10,
	}}
	ce, ms := newTestCachedEmbedder(t, inner, 24*time.Hour)
	ctx := context.Background()

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	var gotTTL time.Duration
	ms.setTTLFn = func(_ context.Context, _ string, _ []byte, ttl time.Duration) error {
		gotTTL = ttl
		return nil
	}

	result, err := ce.Embed(ctx, "best food for dog puppy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 3 || result.Embedding[0] != 0.1 {
		t.Fatalf("unexpected vector: %v", result.Embedding)
	}
	if result.TotalTokens != 10 {
		t.Fatalf("expected TotalTokens=10, got %d", result.TotalTokens)
	}
	if gotTTL != 24*time.Hour {
		t.Fatalf("expected cache put with 24h TTL, got %v", gotTTL)
	}
}

func TestEmbed_CacheHit(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.1, 0.2, 0.3},
	}}
	ce, ms := newTestCachedEmbedder(t, inner, 24*time.Hour)
	ctx := context.Background()

	cached := vectorToCacheBytes([]float32{0.4, 0.5, 0.6})
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return cached, nil
	}

	result, err := ce.Embed(ctx, "best food for dog puppy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 3 || result.Embedding[0] != 0.4 {
		t.Fatalf("expected cached vector, got: %v", result.Embedding)
	}
	if result.TotalTokens != 0 {
		t.Fatalf("expected TotalTokens=0 on cache hit, got %d", result.TotalTokens)
	}
	if inner.calls != 0 {
		t.Fatalf("inner embedder must not be called on hit, got %d calls", inner.calls)
	}
}

func TestEmbed_NoTTLUsesPlainSet(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1}}}
	ce, ms := newTestCachedEmbedder(t, inner, 0)

	var setCalled, setTTLCalled bool
	ms.setFn = func(_ context.Context, _ string, _ []byte) error {
		setCalled = true
		return nil
	}
	ms.setTTLFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		setTTLCalled = true
		return nil
	}

	if _, err := ce.Embed(context.Background(), "query"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !setCalled || setTTLCalled {
		t.Fatalf("expected plain SET without TTL, set=%v setTTL=%v", setCalled, setTTLCalled)
	}
}

func TestEmbed_InnerError(t *testing.T) {
	inner := &mockEmbedder{err: errors.New("provider down")}
	ce, ms := newTestCachedEmbedder(t, inner, time.Hour)
	ctx := context.Background()

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	_, err := ce.Embed(ctx, "query")
	if err == nil {
		t.Fatal("expected error from inner embedder")
	}
}

func TestEmbed_CorruptedCacheFallsThrough(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{0.7},
		TotalTokens: 4,
	}}
	ce, ms := newTestCachedEmbedder(t, inner, time.Hour)

	// Three bytes cannot decode to float32 values.
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte{1, 2, 3}, nil
	}

	result, err := ce.Embed(context.Background(), "query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalTokens != 4 {
		t.Fatalf("expected inner result on corrupt cache entry, got %+v", result)
	}
	if inner.calls != 1 {
		t.Fatalf("expected inner call on corrupt cache entry, got %d", inner.calls)
	}
}

func TestEmbed_StoreWriteFailureIsNonFatal(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.5}}}
	ce, ms := newTestCachedEmbedder(t, inner, time.Hour)

	ms.setTTLFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		return errors.New("cache down")
	}

	result, err := ce.Embed(context.Background(), "query")
	if err != nil {
		t.Fatalf("cache write failure must not fail Embed: %v", err)
	}
	if len(result.Embedding) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestVectorRoundTrip(t *testing.T) {
	vec := []float32{0.25, -1.5, 3.75}
	got, err := bytesToVector(vectorToCacheBytes(vec))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected len 3, got %d", len(got))
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Errorf("index %d: expected %f, got %f", i, vec[i], got[i])
		}
	}
}
