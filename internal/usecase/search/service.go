package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pawmart/petsearch/internal/domain"
	"github.com/pawmart/petsearch/internal/domain/search/filter"
	"github.com/pawmart/petsearch/internal/domain/search/request"
	"github.com/pawmart/petsearch/internal/domain/search/result"
	"github.com/pawmart/petsearch/internal/metrics"
)

// Candidate sizing for the retrieval channels: each channel fetches more
// candidates than the final page so the fuser has material to rerank.
const (
	candidateOversample = 3
	maxCandidates       = 150
)

// Service runs the hybrid search pipeline: compile filters, issue the lexical
// and (best-effort) vector queries, fuse the rankings, project a page.
type Service struct {
	repo   Repository
	embed  Embedder
	knn    *KNNState
	logger *zap.Logger
}

// New creates a search service.
func New(repo Repository, embed Embedder, knn *KNNState, logger *zap.Logger) *Service {
	return &Service{repo: repo, embed: embed, knn: knn, logger: logger}
}

// Search executes a product search. The lexical channel is mandatory; the
// vector channel is attempted only when the request carries embedding text, an
// embedder is configured, and the backend has not rejected vector queries, and
// every vector-side failure
// degrades to a lexical-only result.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Page, error) {
	clauses, err := filter.Compile(req.Species(), req.Filters())
	if err != nil {
		return result.Page{}, err
	}

	query := queryText(req)
	size := candidateSize(req.Size())

	var lexical, vector []result.Hit

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		hits, err := s.repo.SearchLexical(gctx, query, clauses, size)
		metrics.SearchChannelDuration.WithLabelValues("lexical").Observe(time.Since(start).Seconds())
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrUpstream, err)
		}
		lexical = hits
		return nil
	})
	if req.WantsVector() && s.embed != nil && s.knn.Enabled() {
		g.Go(func() error {
			vector = s.searchVector(gctx, req.EmbeddingText(), clauses, size)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result.Page{}, err
	}

	fused := fuseRRF(lexical, vector)
	page := project(fused, lexical, vector, req.Page(), req.Size())

	metrics.SearchRequestsTotal.WithLabelValues(string(page.Mode)).Inc()
	return page, nil
}

// searchVector runs the best-effort vector channel. It never fails the
// search: embedding or query errors log, count, and return an empty list. An
// unsupported-KNN rejection additionally disables vector search process-wide.
func (s *Service) searchVector(
	ctx context.Context, text string, clauses filter.Clauses, size int,
) []result.Hit {
	emb, err := s.embed.Embed(ctx, text)
	if err != nil {
		s.logger.Warn("embedding failed, vector channel skipped", zap.Error(err))
		metrics.SearchDegradedTotal.WithLabelValues("embed_error").Inc()
		return nil
	}

	start := time.Now()
	hits, err := s.repo.SearchKNN(ctx, emb.Embedding, clauses, size)
	metrics.SearchChannelDuration.WithLabelValues("vector").Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrKNNNotSupported) {
			s.knn.Disable()
			metrics.SearchKNNDisabled.Set(1)
			metrics.SearchDegradedTotal.WithLabelValues("knn_unsupported").Inc()
			s.logger.Warn("backend rejected knn query, vector search disabled for this process",
				zap.Error(err))
		} else {
			metrics.SearchDegradedTotal.WithLabelValues("knn_error").Inc()
			s.logger.Warn("knn query failed, vector channel skipped", zap.Error(err))
		}
		return nil
	}
	return hits
}

// queryText returns the caller's query, or synthesizes default text from the
// species and soft filters so that a bare species search still retrieves
// relevant results.
func queryText(req *request.Request) string {
	if q := req.Query(); q != "" {
		return q
	}
	parts := []string{"best food for " + req.Species().Lower()}
	for _, key := range []string{"life_stage", "breed_soft"} {
		if v, ok := req.Filters()[key].(string); ok {
			if v = strings.TrimSpace(v); v != "" {
				parts = append(parts, v)
			}
		}
	}
	return strings.Join(parts, " ")
}

// candidateSize computes the per-channel candidate count from the page size.
func candidateSize(pageSize int) int {
	size := pageSize * candidateOversample
	if size < pageSize {
		size = pageSize
	}
	if size > maxCandidates {
		size = maxCandidates
	}
	return size
}
