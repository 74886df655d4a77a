package mode

// Mode reports which retrieval channels produced a result page.
type Mode string

// Result modes.
const (
	// BM25 means only the lexical channel contributed hits.
	BM25 Mode = "bm25"
	// Hybrid means the vector channel contributed at least one hit.
	Hybrid Mode = "hybrid"
)
