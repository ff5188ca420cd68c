package port

import "context"

// Embedder generates a vector embedding for a single text. The provider
// contract is one text per call; callers embedding a batch issue sequential
// calls and apply their own rate limiting.
type Embedder interface {
	// Embed generates the embedding for the given text.
	Embed(ctx context.Context, text string) ([]float64, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}
