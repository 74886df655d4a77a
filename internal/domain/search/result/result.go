package result

import "github.com/pawmart/petsearch/internal/domain/search/mode"

// Hit is a single raw hit from one retrieval channel.
type Hit struct {
	id     string
	score  float64
	source map[string]any
}

// NewHit creates a hit from the index response.
func NewHit(id string, score float64, source map[string]any) Hit {
	return Hit{id: id, score: score, source: source}
}

// Identity returns the document identity used for fusion and deduplication:
// the index id, falling back to the variant_id source field. An empty
// identity means the hit cannot be ranked and is dropped by the fuser.
func (h Hit) Identity() string {
	if h.id != "" {
		return h.id
	}
	if v, ok := h.source["variant_id"].(string); ok {
		return v
	}
	return ""
}

// Score returns the channel relevance score.
func (h Hit) Score() float64 { return h.score }

// Source returns the document source record.
func (h Hit) Source() map[string]any { return h.source }

// Product is the projected public shape of one search result.
type Product struct {
	ID              string   `json:"id"`
	Title           string   `json:"title,omitempty"`
	Brand           string   `json:"brand,omitempty"`
	PriceSale       *float64 `json:"price_sale,omitempty"`
	Currency        string   `json:"currency,omitempty"`
	InStock         *bool    `json:"in_stock,omitempty"`
	Score           float64  `json:"score"`
	LifeStage       string   `json:"life_stage,omitempty"`
	Flavour         string   `json:"flavour,omitempty"`
	FoodType        string   `json:"food_type,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
	NumReviews      *int     `json:"num_reviews,omitempty"`
	PackSize        string   `json:"pack_size,omitempty"`
	CountryOfOrigin string   `json:"country_of_origin,omitempty"`
}

// Page is one page of fused, deduplicated search results.
type Page struct {
	Results []Product `json:"results"`
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	Size    int       `json:"size"`
	Mode    mode.Mode `json:"mode"`
}
