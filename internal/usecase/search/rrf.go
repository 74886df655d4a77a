package search

import (
	"sort"

	"github.com/pawmart/petsearch/internal/domain/search/result"
)

// rrfK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const rrfK = 60

// fusedDoc is one document identity with its cumulative fusion score.
type fusedDoc struct {
	id    string
	score float64
	seen  int // first-seen order across channels, lexical first
}

// fuseRRF merges the lexical and vector hit lists via Reciprocal Rank Fusion.
// score(d) = sum of 1/(k + rank_i(d)) over each channel where d appears,
// ranks 1-based. Hits without an identity cannot be ranked and are dropped.
// Ties order by first appearance, with the lexical channel enumerated first,
// so an empty vector channel reproduces the lexical order exactly.
func fuseRRF(lexical, vector []result.Hit) []fusedDoc {
	merged := make(map[string]*fusedDoc)
	seen := 0

	accumulate := func(hits []result.Hit) {
		for rank, h := range hits {
			id := h.Identity()
			if id == "" {
				continue
			}
			contribution := 1.0 / float64(rrfK+rank+1)
			if d, ok := merged[id]; ok {
				d.score += contribution
			} else {
				merged[id] = &fusedDoc{id: id, score: contribution, seen: seen}
				seen++
			}
		}
	}
	accumulate(lexical)
	accumulate(vector)

	fused := make([]fusedDoc, 0, len(merged))
	for _, d := range merged {
		fused = append(fused, *d)
	}
	sort.Slice(fused, func(i, j int) bool {
		if fused[i].score != fused[j].score {
			return fused[i].score > fused[j].score
		}
		return fused[i].seen < fused[j].seen
	})

	return fused
}
