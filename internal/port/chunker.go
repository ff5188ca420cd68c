package port

import "docpipe/internal/domain"

// Chunker splits normalized text into ordered, token-bounded segments.
type Chunker interface {
	Chunk(text string) ([]domain.Segment, error)
}
