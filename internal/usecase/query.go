package usecase

import (
	"context"

	"docpipe/internal/adapter/cache"
	"docpipe/internal/domain"
	"docpipe/internal/port"
)

// QueryUseCase answers semantic queries, optionally serving repeated queries
// from a result cache.
type QueryUseCase struct {
	searcher port.Searcher
	cache    *cache.QueryCache
	topK     int
}

// NewQueryUseCase creates the query path. cache may be nil to disable
// caching; topK is the default result limit when the caller passes none.
func NewQueryUseCase(searcher port.Searcher, resultCache *cache.QueryCache, topK int) *QueryUseCase {
	if topK <= 0 {
		topK = 5
	}
	return &QueryUseCase{
		searcher: searcher,
		cache:    resultCache,
		topK:     topK,
	}
}

// QueryResponse echoes the query alongside the ranked results.
type QueryResponse struct {
	Query   string       `json:"query"`
	Results []ResultItem `json:"results"`
	Count   int          `json:"count"`
}

// ResultItem is one ranked result with its metadata passed through as-is.
type ResultItem struct {
	DocumentID string            `json:"documentId"`
	ChunkID    string            `json:"chunkId"`
	Similarity float64           `json:"similarity"`
	Text       string            `json:"text"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Query runs one semantic query. k <= 0 uses the configured default.
func (u *QueryUseCase) Query(ctx context.Context, text string, k int) (*QueryResponse, error) {
	if text == "" {
		return nil, &domain.InputError{Msg: "query text must not be empty"}
	}
	if k <= 0 {
		k = u.topK
	}

	if u.cache != nil {
		if results, ok := u.cache.Get(text, k); ok {
			return buildResponse(text, results), nil
		}
	}

	results, err := u.searcher.Search(ctx, text, k)
	if err != nil {
		return nil, err
	}

	if u.cache != nil {
		u.cache.Put(text, k, results)
	}
	return buildResponse(text, results), nil
}

// InvalidateCache expires all cached results. Call after loading documents
// in the same process.
func (u *QueryUseCase) InvalidateCache() {
	if u.cache != nil {
		u.cache.Invalidate()
	}
}

func buildResponse(query string, results []domain.QueryResult) *QueryResponse {
	items := make([]ResultItem, 0, len(results))
	for _, r := range results {
		items = append(items, ResultItem{
			DocumentID: r.Record.DocumentID,
			ChunkID:    r.Record.ChunkID,
			Similarity: r.Score,
			Text:       r.Record.Text,
			Metadata:   r.Record.Metadata,
		})
	}
	return &QueryResponse{
		Query:   query,
		Results: items,
		Count:   len(items),
	}
}
