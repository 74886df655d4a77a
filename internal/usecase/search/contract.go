package search

import (
	"context"

	"github.com/pawmart/petsearch/internal/domain"
	"github.com/pawmart/petsearch/internal/domain/search/filter"
	"github.com/pawmart/petsearch/internal/domain/search/result"
)

// Repository defines the index contract for the two retrieval channels.
type Repository interface {
	// SearchLexical runs the BM25 multi-field text query. Its failure is
	// fatal to the search.
	SearchLexical(
		ctx context.Context, query string, clauses filter.Clauses, size int,
	) ([]result.Hit, error)

	// SearchKNN runs the vector query. A deployment that rejects vector
	// queries returns an error wrapping domain.ErrKNNNotSupported.
	SearchKNN(
		ctx context.Context, vector []float32, clauses filter.Clauses, size int,
	) ([]result.Hit, error)
}

// Embedder vectorizes text for the vector channel.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
