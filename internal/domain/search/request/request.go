package request

import (
	"fmt"
	"strings"

	"github.com/pawmart/petsearch/internal/domain"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed free-text query length.
	MaxQueryLength  = 4096
	DefaultPage     = 1
	DefaultPageSize = 5
	MaxPageSize     = 50
)

// Request is a validated product search request.
type Request struct {
	query         string
	species       domain.Species
	filters       map[string]any
	page          int
	size          int
	embeddingText string
}

// New validates and normalizes search parameters. Species is required and
// canonicalized; page defaults to 1, size to DefaultPageSize capped at
// MaxPageSize. A non-empty embeddingText requests the vector channel.
func New(
	query, species string,
	filters map[string]any,
	page, size int,
	embeddingText string,
) (Request, error) {
	sp, err := domain.ParseSpecies(species)
	if err != nil {
		return Request{}, err
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrValidation, MaxQueryLength)
	}
	if page <= 0 {
		page = DefaultPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if filters == nil {
		filters = map[string]any{}
	}

	return Request{
		query:         strings.TrimSpace(query),
		species:       sp,
		filters:       filters,
		page:          page,
		size:          size,
		embeddingText: strings.TrimSpace(embeddingText),
	}, nil
}

// Query returns the free-text query, which may be empty.
func (r *Request) Query() string { return r.query }

// Species returns the canonical species.
func (r *Request) Species() domain.Species { return r.species }

// Filters returns the raw filter map, compiled later at the search boundary.
func (r *Request) Filters() map[string]any { return r.filters }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// Size returns the page size.
func (r *Request) Size() int { return r.size }

// EmbeddingText returns the text to embed for the vector channel.
func (r *Request) EmbeddingText() string { return r.embeddingText }

// WantsVector reports whether the caller requested vector search.
func (r *Request) WantsVector() bool { return r.embeddingText != "" }
