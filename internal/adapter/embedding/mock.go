package embedding

import "context"

// MockEmbedder produces deterministic vectors derived from the input text.
// Identical texts map to identical vectors, which makes self-similarity
// checks exact in tests.
type MockEmbedder struct {
	dimension int
}

func NewMockEmbedder(dimension int) *MockEmbedder {
	return &MockEmbedder{dimension: dimension}
}

func (e *MockEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, e.dimension)
	for i, r := range text {
		if i >= e.dimension {
			break
		}
		vec[i] = float64(r) / 1000.0
	}
	return vec, nil
}

func (e *MockEmbedder) Dimension() int {
	return e.dimension
}

func (e *MockEmbedder) ModelName() string {
	return "mock"
}
