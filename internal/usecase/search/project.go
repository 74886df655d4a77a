package search

import (
	"github.com/pawmart/petsearch/internal/domain/search/mode"
	"github.com/pawmart/petsearch/internal/domain/search/result"
)

// project maps the fused ranking back to source records, slices the requested
// page out of the full fused order, and shapes the public result schema.
func project(fused []fusedDoc, lexical, vector []result.Hit, page, size int) result.Page {
	docs := make(map[string]result.Hit, len(lexical)+len(vector))
	for _, h := range append(append([]result.Hit{}, lexical...), vector...) {
		id := h.Identity()
		if id == "" {
			continue
		}
		if _, ok := docs[id]; !ok {
			docs[id] = h
		}
	}

	start := (page - 1) * size
	end := start + size
	if start > len(fused) {
		start = len(fused)
	}
	if end > len(fused) {
		end = len(fused)
	}

	products := make([]result.Product, 0, end-start)
	for _, d := range fused[start:end] {
		h, ok := docs[d.id]
		if !ok {
			continue
		}
		products = append(products, projectHit(d.id, d.score, h.Source()))
	}

	m := mode.BM25
	if len(vector) > 0 {
		m = mode.Hybrid
	}

	return result.Page{
		Results: products,
		Total:   len(fused),
		Page:    page,
		Size:    size,
		Mode:    m,
	}
}

// projectHit extracts the fixed public field subset from a source record.
func projectHit(id string, score float64, src map[string]any) result.Product {
	p := result.Product{
		ID:              id,
		Score:           score,
		Title:           stringField(src, "title"),
		Brand:           stringField(src, "brand"),
		LifeStage:       stringField(src, "life_stage"),
		Flavour:         stringField(src, "flavour"),
		FoodType:        stringField(src, "food_type"),
		PackSize:        stringField(src, "pack_size"),
		CountryOfOrigin: stringField(src, "country_of_origin"),
	}

	if f, ok := floatField(src, "price_sale"); ok {
		p.PriceSale = &f
	}
	price, _ := src["price"].(map[string]any)
	if p.PriceSale == nil {
		if f, ok := floatField(price, "sale"); ok {
			p.PriceSale = &f
		}
	}
	p.Currency = stringField(price, "currency")

	if availability, ok := src["availability"].(map[string]any); ok {
		if b, ok := availability["in_stock"].(bool); ok {
			p.InStock = &b
		}
	}

	if f, ok := floatField(src, "rating"); ok {
		p.Rating = &f
	}
	if f, ok := floatField(src, "num_reviews"); ok {
		n := int(f)
		p.NumReviews = &n
	}

	return p
}

func stringField(src map[string]any, key string) string {
	s, _ := src[key].(string)
	return s
}

func floatField(src map[string]any, key string) (float64, bool) {
	switch v := src[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}
