package opensearch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/pawmart/petsearch/internal/domain"
	"github.com/pawmart/petsearch/internal/domain/search/filter"
)

// --- SearchLexical ---

func TestSearchLexical_HappyPath(t *testing.T) {
	var gotBody map[string]any
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products_pets_v3/_search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		_, _ = w.Write([]byte(`{
			"took": 3,
			"hits": {
				"total": {"value": 2},
				"hits": [
					{"_id": "p1", "_score": 11.2, "_source": {"title": "Puppy Chow"}},
					{"_id": "p2", "_score": 7.5, "_source": {"title": "Adult Mix"}}
				]
			}
		}`))
	})

	clauses, err := filter.Compile(domain.Dog, nil)
	if err != nil {
		t.Fatalf("compile filters: %v", err)
	}

	hits, err := repo.SearchLexical(context.Background(), "puppy food", clauses, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Identity() != "p1" {
		t.Fatalf("expected identity p1, got %s", hits[0].Identity())
	}
	if hits[0].Score() != 11.2 {
		t.Fatalf("expected score 11.2, got %f", hits[0].Score())
	}
	if gotBody["size"] != float64(15) {
		t.Fatalf("expected size 15 in body, got %v", gotBody["size"])
	}
}

func TestSearchLexical_UpstreamError(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"type":"search_phase_execution_exception","reason":"shard failure"}}`))
	})

	_, err := repo.SearchLexical(context.Background(), "puppy food", filter.Clauses{}, 15)
	if err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestSearchLexical_EmptyResults(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"took": 1, "hits": {"total": {"value": 0}, "hits": []}}`))
	})

	hits, err := repo.SearchLexical(context.Background(), "unobtanium", filter.Clauses{}, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected 0 hits, got %d", len(hits))
	}
}

// --- SearchKNN ---

func TestSearchKNN_HappyPath(t *testing.T) {
	var gotBody map[string]any
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		_, _ = w.Write([]byte(`{
			"took": 5,
			"hits": {
				"total": {"value": 1},
				"hits": [{"_id": "p9", "_score": 0.91, "_source": {"title": "Salmon Bites"}}]
			}
		}`))
	})

	hits, err := repo.SearchKNN(context.Background(), []float32{0.1, 0.2}, filter.Clauses{}, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Identity() != "p9" {
		t.Fatalf("expected identity p9, got %s", hits[0].Identity())
	}

	query := gotBody["query"].(map[string]any)["bool"].(map[string]any)
	musts := query["must"].([]any)
	if len(musts) != 1 {
		t.Fatalf("expected 1 must clause, got %d", len(musts))
	}
	if _, ok := musts[0].(map[string]any)["knn"]; !ok {
		t.Fatal("expected knn clause in must group")
	}
}

func TestSearchKNN_UnsupportedQuery(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"parsing_exception","reason":"Unknown key for a START_OBJECT in [knn]."}}`))
	})

	_, err := repo.SearchKNN(context.Background(), []float32{0.1}, filter.Clauses{}, 15)
	if !errors.Is(err, domain.ErrKNNNotSupported) {
		t.Fatalf("expected ErrKNNNotSupported, got %v", err)
	}
}

func TestSearchKNN_OtherErrorNotFlagged(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"type":"cluster_block_exception","reason":"index read-only"}}`))
	})

	_, err := repo.SearchKNN(context.Background(), []float32{0.1}, filter.Clauses{}, 15)
	if err == nil {
		t.Fatal("expected error on 503 response")
	}
	if errors.Is(err, domain.ErrKNNNotSupported) {
		t.Fatal("transient cluster error must not classify as unsupported")
	}
}

// --- UniqueTerms ---

func TestUniqueBreeds(t *testing.T) {
	var gotBody map[string]any
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		_, _ = w.Write([]byte(`{
			"took": 2,
			"hits": {"total": {"value": 120}, "hits": []},
			"aggregations": {
				"unique_values": {
					"buckets": [{"key": "Beagle"}, {"key": "Labrador"}, {"key": "Poodle"}]
				}
			}
		}`))
	})

	breeds, err := repo.UniqueBreeds(context.Background(), domain.Dog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Beagle", "Labrador", "Poodle"}
	if len(breeds) != len(want) {
		t.Fatalf("expected %d breeds, got %d", len(want), len(breeds))
	}
	for i, b := range breeds {
		if b != want[i] {
			t.Errorf("breed[%d]: expected %s, got %s", i, want[i], b)
		}
	}
	if gotBody["size"] != float64(0) {
		t.Fatalf("expected size 0 in aggregation body, got %v", gotBody["size"])
	}
}

func TestUniqueTerms_MissingAggregation(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"took": 1, "hits": {"total": {"value": 0}, "hits": []}}`))
	})

	values, err := repo.UniqueTerms(context.Background(), "life_stage", domain.Cat, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != 0 {
		t.Fatalf("expected no values, got %v", values)
	}
}
