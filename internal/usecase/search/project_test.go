package search

import (
	"testing"

	"github.com/pawmart/petsearch/internal/domain/search/mode"
	"github.com/pawmart/petsearch/internal/domain/search/result"
)

func sourceHit(id string, src map[string]any) result.Hit {
	return result.NewHit(id, 2.5, src)
}

func TestProject_Fields(t *testing.T) {
	src := map[string]any{
		"title":      "Chicken Kibble",
		"brand":      "Acme",
		"price_sale": 24.99,
		"price":      map[string]any{"currency": "USD", "sale": 22.0},
		"availability": map[string]any{
			"in_stock": true,
		},
		"life_stage":  "adult",
		"flavour":     "chicken",
		"food_type":   "dry",
		"rating":      4.5,
		"num_reviews": 120.0,
	}
	lexical := []result.Hit{sourceHit("p1", src)}
	fused := fuseRRF(lexical, nil)

	page := project(fused, lexical, nil, 1, 5)
	if len(page.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(page.Results))
	}
	p := page.Results[0]
	if p.ID != "p1" || p.Title != "Chicken Kibble" || p.Brand != "Acme" {
		t.Errorf("unexpected projection: %+v", p)
	}
	if p.PriceSale == nil || *p.PriceSale != 24.99 {
		t.Errorf("price_sale = %v, want 24.99", p.PriceSale)
	}
	if p.Currency != "USD" {
		t.Errorf("currency = %q, want USD", p.Currency)
	}
	if p.InStock == nil || !*p.InStock {
		t.Error("in_stock should be true")
	}
	if p.Rating == nil || *p.Rating != 4.5 {
		t.Errorf("rating = %v", p.Rating)
	}
	if p.NumReviews == nil || *p.NumReviews != 120 {
		t.Errorf("num_reviews = %v", p.NumReviews)
	}
	if p.Score <= 0 {
		t.Error("score should carry the fusion score")
	}
}

func TestProject_PriceFallback(t *testing.T) {
	src := map[string]any{
		"title": "Salmon Treats",
		"price": map[string]any{"sale": 9.5, "currency": "EUR"},
	}
	lexical := []result.Hit{sourceHit("p2", src)}
	page := project(fuseRRF(lexical, nil), lexical, nil, 1, 5)

	p := page.Results[0]
	if p.PriceSale == nil || *p.PriceSale != 9.5 {
		t.Errorf("price_sale = %v, want nested price.sale 9.5", p.PriceSale)
	}
	if p.Currency != "EUR" {
		t.Errorf("currency = %q", p.Currency)
	}
}

func TestProject_Mode(t *testing.T) {
	lexical := []result.Hit{makeHit("a")}
	vector := []result.Hit{makeHit("b")}

	page := project(fuseRRF(lexical, vector), lexical, vector, 1, 5)
	if page.Mode != mode.Hybrid {
		t.Errorf("mode = %q, want hybrid", page.Mode)
	}

	page = project(fuseRRF(lexical, nil), lexical, nil, 1, 5)
	if page.Mode != mode.BM25 {
		t.Errorf("mode = %q, want bm25", page.Mode)
	}
}

func TestProject_Pagination(t *testing.T) {
	var lexical []result.Hit
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		lexical = append(lexical, makeHit(id))
	}
	fused := fuseRRF(lexical, nil)

	page := project(fused, lexical, nil, 2, 2)
	if page.Total != 5 {
		t.Errorf("total = %d, want 5", page.Total)
	}
	if len(page.Results) != 2 {
		t.Fatalf("expected 2 results on page 2, got %d", len(page.Results))
	}
	if page.Results[0].ID != "c" || page.Results[1].ID != "d" {
		t.Errorf("page 2 = [%s %s], want [c d]", page.Results[0].ID, page.Results[1].ID)
	}

	beyond := project(fused, lexical, nil, 4, 2)
	if len(beyond.Results) != 0 {
		t.Errorf("expected empty page beyond fused order, got %d results", len(beyond.Results))
	}
	if beyond.Total != 5 {
		t.Errorf("total = %d, want 5", beyond.Total)
	}
}

func TestProject_FirstOccurrenceWins(t *testing.T) {
	lexical := []result.Hit{sourceHit("p1", map[string]any{"title": "lexical copy"})}
	vector := []result.Hit{sourceHit("p1", map[string]any{"title": "vector copy"})}

	page := project(fuseRRF(lexical, vector), lexical, vector, 1, 5)
	if len(page.Results) != 1 {
		t.Fatalf("expected 1 deduplicated result, got %d", len(page.Results))
	}
	if page.Results[0].Title != "lexical copy" {
		t.Errorf("title = %q, want the first-seen lexical copy", page.Results[0].Title)
	}
}
