package port

import (
	"context"

	"docpipe/internal/domain"
)

// Searcher answers semantic-similarity queries over stored chunks.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]domain.QueryResult, error)
}
