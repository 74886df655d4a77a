package chi

import (
	"context"
	"net/http"
	"testing"

	gochi "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pawmart/petsearch/internal/domain"
	"github.com/pawmart/petsearch/internal/domain/search/filter"
	"github.com/pawmart/petsearch/internal/domain/search/result"
	healthuc "github.com/pawmart/petsearch/internal/usecase/health"
	searchuc "github.com/pawmart/petsearch/internal/usecase/search"
	taxonomyuc "github.com/pawmart/petsearch/internal/usecase/taxonomy"
)

// --- Mocks ---

type mockSearchRepo struct {
	lexicalFn func(ctx context.Context, query string, clauses filter.Clauses, size int) ([]result.Hit, error)
	knnFn     func(ctx context.Context, vector []float32, clauses filter.Clauses, size int) ([]result.Hit, error)
}

func (m *mockSearchRepo) SearchLexical(
	ctx context.Context, query string, clauses filter.Clauses, size int,
) ([]result.Hit, error) {
	if m.lexicalFn != nil {
		return m.lexicalFn(ctx, query, clauses, size)
	}
	return nil, nil
}

func (m *mockSearchRepo) SearchKNN(
	ctx context.Context, vector []float32, clauses filter.Clauses, size int,
) ([]result.Hit, error) {
	if m.knnFn != nil {
		return m.knnFn(ctx, vector, clauses, size)
	}
	return nil, nil
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return m.result, m.err
}

type mockTaxonomyRepo struct {
	breedsFn     func(ctx context.Context, sp domain.Species) ([]string, error)
	lifeStagesFn func(ctx context.Context, sp domain.Species) ([]string, error)
}

func (m *mockTaxonomyRepo) UniqueBreeds(ctx context.Context, sp domain.Species) ([]string, error) {
	if m.breedsFn != nil {
		return m.breedsFn(ctx, sp)
	}
	return nil, nil
}

func (m *mockTaxonomyRepo) UniqueLifeStages(ctx context.Context, sp domain.Species) ([]string, error) {
	if m.lifeStagesFn != nil {
		return m.lifeStagesFn(ctx, sp)
	}
	return nil, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Test server assembly ---

type testDeps struct {
	searchRepo *mockSearchRepo
	embedder   *mockEmbedder
	taxonomy   *mockTaxonomyRepo
	indexPing  *mockPinger
}

func newTestServer(t *testing.T) (http.Handler, *testDeps) {
	t.Helper()

	deps := &testDeps{
		searchRepo: &mockSearchRepo{},
		embedder:   &mockEmbedder{},
		taxonomy:   &mockTaxonomyRepo{},
		indexPing:  &mockPinger{},
	}

	logger := zap.NewNop()
	searchSvc := searchuc.New(deps.searchRepo, deps.embedder, searchuc.NewKNNState(true), logger)
	taxonomySvc := taxonomyuc.New(deps.taxonomy, logger)
	healthSvc := healthuc.New(deps.indexPing, nil, nil)

	server := NewServer(searchSvc, taxonomySvc, healthSvc, logger)
	r := gochi.NewRouter()
	server.Routes(r)
	return r, deps
}
