package opensearch

import (
	"github.com/pawmart/petsearch/internal/domain"
	"github.com/pawmart/petsearch/internal/domain/search/filter"
)

// Vector query parameters over the precomputed product embedding field.
const (
	embeddingField    = "embedding_product"
	knnNeighbors      = 100
	knnEFSearch       = 200
	knnOversampleFact = 2.0
)

// weightedFields are the lexical match targets with per-field boosts, title
// weighted highest.
var weightedFields = []string{
	"title^5", "brand^3", "tags^3", "food_type^3", "flavour^2",
	"ingredients", "description", "searchable_text",
}

// lexicalBody assembles the BM25 query: a nested bool-should of three text
// strategies of decreasing strictness (all-terms multi_match, fuzzy any-terms
// multi_match, boosted title match) combined with the compiled clause groups.
func lexicalBody(query string, cl filter.Clauses, size int) map[string]any {
	textQueries := []map[string]any{
		{
			"multi_match": map[string]any{
				"query":    query,
				"fields":   weightedFields,
				"type":     "best_fields",
				"operator": "and",
			},
		},
		{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    weightedFields[:len(weightedFields)-1],
				"type":      "best_fields",
				"operator":  "or",
				"fuzziness": "AUTO",
			},
		},
		{
			"match": map[string]any{
				"title": map[string]any{"query": query, "boost": 5},
			},
		},
	}

	must := []map[string]any{
		{"bool": map[string]any{"should": textQueries, "minimum_should_match": 1}},
	}
	must = append(must, clauseGroup(cl.Must)...)

	return map[string]any{
		"size": size,
		"query": map[string]any{
			"bool": map[string]any{
				"must":     must,
				"filter":   clauseGroup(cl.Filter),
				"should":   clauseGroup(cl.Should),
				"must_not": clauseGroup(cl.MustNot),
			},
		},
		"_source": true,
	}
}

// knnBody assembles the vector query, reusing the compiled filter and
// exclusion clauses around a k-nearest-neighbor must clause.
func knnBody(vector []float32, cl filter.Clauses, size int) map[string]any {
	return map[string]any{
		"size": size,
		"query": map[string]any{
			"bool": map[string]any{
				"filter":   clauseGroup(cl.Filter),
				"must_not": clauseGroup(cl.MustNot),
				"must": []map[string]any{
					{
						"knn": map[string]any{
							embeddingField: map[string]any{
								"vector":            vector,
								"k":                 knnNeighbors,
								"method_parameters": map[string]any{"ef_search": knnEFSearch},
								"rescore":           map[string]any{"oversample_factor": knnOversampleFact},
							},
						},
					},
				},
			},
		},
		"_source": true,
	}
}

// termsAggBody assembles a zero-hit terms aggregation over a field, pinned to
// one species, buckets ordered by key.
func termsAggBody(field string, sp domain.Species, size int) map[string]any {
	return map[string]any{
		"size":  0,
		"query": map[string]any{"term": map[string]any{"species": sp.String()}},
		"aggs": map[string]any{
			"unique_values": map[string]any{
				"terms": map[string]any{
					"field": field,
					"size":  size,
					"order": map[string]any{"_key": "asc"},
				},
			},
		},
	}
}

// clauseGroup serializes compiled clauses into index query DSL.
func clauseGroup(clauses []filter.Clause) []map[string]any {
	out := make([]map[string]any, 0, len(clauses))
	for _, c := range clauses {
		out = append(out, clauseJSON(c))
	}
	return out
}

func clauseJSON(c filter.Clause) map[string]any {
	switch c.Kind() {
	case filter.KindTerm:
		return map[string]any{"term": map[string]any{c.Field(): c.Value()}}
	case filter.KindBoolTerm:
		return map[string]any{"term": map[string]any{c.Field(): c.Flag()}}
	case filter.KindTerms:
		return map[string]any{"terms": map[string]any{c.Field(): c.Values()}}
	case filter.KindRange:
		return map[string]any{"range": map[string]any{c.Field(): rangeJSON(c.Range())}}
	case filter.KindMatchPhrase:
		return map[string]any{"match_phrase": map[string]any{c.Field(): c.Value()}}
	case filter.KindMatch:
		return map[string]any{
			"match": map[string]any{
				c.Field(): map[string]any{"query": c.Value(), "operator": "and"},
			},
		}
	}
	return map[string]any{}
}

func rangeJSON(r filter.Range) map[string]any {
	bounds := make(map[string]any, 2)
	if r.GT != nil {
		bounds["gt"] = *r.GT
	}
	if r.GTE != nil {
		bounds["gte"] = *r.GTE
	}
	if r.LT != nil {
		bounds["lt"] = *r.LT
	}
	if r.LTE != nil {
		bounds["lte"] = *r.LTE
	}
	return bounds
}
