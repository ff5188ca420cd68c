package port

import (
	"context"

	"docpipe/internal/domain"
)

// Extractor turns a source document into ordered text fragments with
// per-fragment confidence. The pipeline only proceeds when the returned
// status equals domain.ExtractionSucceeded.
type Extractor interface {
	Extract(ctx context.Context, ref domain.DocumentRef) (domain.Extraction, error)
}
