package extract

import (
	"context"
	"os"
	"strings"

	"docpipe/internal/domain"
)

// PlaintextExtractor reads a local text file directly, producing one
// fragment per non-empty line with full confidence. It lets the pipeline
// ingest plain text without a remote extraction service.
type PlaintextExtractor struct{}

func NewPlaintextExtractor() *PlaintextExtractor {
	return &PlaintextExtractor{}
}

func (x *PlaintextExtractor) Extract(_ context.Context, ref domain.DocumentRef) (domain.Extraction, error) {
	data, err := os.ReadFile(ref.Source)
	if err != nil {
		return domain.Extraction{}, err
	}

	var fragments []domain.Fragment
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fragments = append(fragments, domain.Fragment{
			Text:       line,
			Confidence: 1.0,
		})
	}

	return domain.Extraction{
		Status:    domain.ExtractionSucceeded,
		Fragments: fragments,
	}, nil
}
