package opensearch

import (
	"context"
	"fmt"

	"github.com/pawmart/petsearch/internal/domain"
	"github.com/pawmart/petsearch/internal/domain/search/filter"
	"github.com/pawmart/petsearch/internal/domain/search/result"
)

// Terms-aggregation bucket limits per taxonomy field.
const (
	breedBucketLimit     = 2000
	lifeStageBucketLimit = 100
)

// Repo implements the search and taxonomy index contracts over the HTTP client.
type Repo struct {
	client *Client
}

// New creates an index repository.
func New(client *Client) *Repo {
	return &Repo{client: client}
}

// SearchLexical runs the BM25 multi-field text query.
func (r *Repo) SearchLexical(
	ctx context.Context, query string, clauses filter.Clauses, size int,
) ([]result.Hit, error) {
	resp, err := r.client.Search(ctx, lexicalBody(query, clauses, size))
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}
	return parseHits(resp), nil
}

// SearchKNN runs the vector query. Rejections of the knn clause itself are
// wrapped with domain.ErrKNNNotSupported so the caller can disable the channel.
func (r *Repo) SearchKNN(
	ctx context.Context, vector []float32, clauses filter.Clauses, size int,
) ([]result.Hit, error) {
	resp, err := r.client.Search(ctx, knnBody(vector, clauses, size))
	if err != nil {
		if isUnsupportedKNN(err) {
			return nil, fmt.Errorf("%w: %w", domain.ErrKNNNotSupported, err)
		}
		return nil, fmt.Errorf("knn search: %w", err)
	}
	return parseHits(resp), nil
}

// UniqueTerms returns the distinct values of a field for one species, sorted
// ascending by value.
func (r *Repo) UniqueTerms(
	ctx context.Context, field string, sp domain.Species, size int,
) ([]string, error) {
	resp, err := r.client.Search(ctx, termsAggBody(field, sp, size))
	if err != nil {
		return nil, fmt.Errorf("terms aggregation %s: %w", field, err)
	}

	agg, ok := resp.Aggregations["unique_values"]
	if !ok {
		return nil, nil
	}
	values := make([]string, 0, len(agg.Buckets))
	for _, b := range agg.Buckets {
		if s, ok := b.Key.(string); ok {
			values = append(values, s)
		}
	}
	return values, nil
}

// UniqueBreeds lists all breeds for a species.
func (r *Repo) UniqueBreeds(ctx context.Context, sp domain.Species) ([]string, error) {
	return r.UniqueTerms(ctx, "breed", sp, breedBucketLimit)
}

// UniqueLifeStages lists all life stages for a species.
func (r *Repo) UniqueLifeStages(ctx context.Context, sp domain.Species) ([]string, error) {
	return r.UniqueTerms(ctx, "life_stage", sp, lifeStageBucketLimit)
}

func parseHits(resp *SearchResponse) []result.Hit {
	hits := make([]result.Hit, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		hits = append(hits, result.NewHit(h.ID, h.Score, h.Source))
	}
	return hits
}
