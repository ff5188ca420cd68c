package search

import (
	"context"
	"fmt"
	"math"
	"sort"

	"docpipe/internal/domain"
	"docpipe/internal/port"
)

// DefaultTopK is the default result limit.
const DefaultTopK = 5

// Engine answers similarity queries with a full linear scan over stored
// records: O(N*L) per query for N records of dimension L. No index structure
// is maintained, which is acceptable for small-to-moderate corpora only.
type Engine struct {
	store    port.ChunkStore
	embedder port.Embedder
}

func NewEngine(store port.ChunkStore, embedder port.Embedder) *Engine {
	return &Engine{
		store:    store,
		embedder: embedder,
	}
}

// Search embeds the query text and returns the top-k most similar records.
func (e *Engine) Search(ctx context.Context, query string, k int) ([]domain.QueryResult, error) {
	if query == "" {
		return nil, &domain.InputError{Msg: "search: query must not be empty"}
	}

	queryVec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	records, err := e.store.Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan records: %w", err)
	}

	return Rank(queryVec, records, k), nil
}

// Rank scores every eligible candidate against the query vector and returns
// the top-k, highest similarity first. Records with the reserved metadata
// chunkId, a missing embedding, or a mismatched vector length are skipped,
// never errored. Ties keep scan order (stable sort).
func Rank(queryVec []float64, records []domain.ChunkRecord, k int) []domain.QueryResult {
	if k <= 0 {
		k = DefaultTopK
	}

	results := make([]domain.QueryResult, 0, len(records))
	for _, rec := range records {
		if rec.ChunkID == domain.MetadataChunkID {
			continue
		}
		if len(rec.Embedding) == 0 || len(rec.Embedding) != len(queryVec) {
			continue
		}
		results = append(results, domain.QueryResult{
			Record: rec,
			Score:  CosineSimilarity(queryVec, rec.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k]
}

// CosineSimilarity computes the normalized dot product of two equal-length
// vectors. A zero-norm vector yields 0.0 rather than NaN. Scores are left as
// computed; floating-point drift past [-1, 1] is not clamped.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
