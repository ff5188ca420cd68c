package chunker

import (
	"strings"

	"docpipe/internal/domain"
	"docpipe/internal/port"
)

// DefaultMaxTokens is the default per-segment token bound.
const DefaultMaxTokens = 500

// SentenceChunker splits normalized text into token-bounded segments,
// breaking only at sentence boundaries. The bound is best-effort: a single
// sentence longer than the bound still becomes its own full segment rather
// than being truncated.
type SentenceChunker struct {
	maxTokens int
	tokenizer port.Tokenizer
}

// NewSentenceChunker creates a chunker with the given token bound.
// A non-positive bound is rejected.
func NewSentenceChunker(maxTokens int, tokenizer port.Tokenizer) (*SentenceChunker, error) {
	if maxTokens <= 0 {
		return nil, &domain.InputError{Msg: "chunker: max tokens must be positive"}
	}
	return &SentenceChunker{
		maxTokens: maxTokens,
		tokenizer: tokenizer,
	}, nil
}

// Chunk splits text into ordered segments. Sentences are delimited by
// ". " and keep their punctuation; sentences accumulate into a segment until
// adding the next one would exceed the token bound. Empty input yields no
// segments; input without a delimiter yields a single segment.
func (c *SentenceChunker) Chunk(text string) ([]domain.Segment, error) {
	candidates := strings.Split(text, ". ")

	var segments []domain.Segment
	var buf strings.Builder
	bufTokens := 0

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		segments = append(segments, domain.Segment{
			Index:  len(segments),
			Text:   buf.String(),
			Tokens: bufTokens,
		})
		buf.Reset()
		bufTokens = 0
	}

	for _, candidate := range candidates {
		sentence := strings.TrimSpace(candidate)
		if sentence == "" {
			continue
		}
		sentence += ". "
		tokens := c.tokenizer.CountTokens(sentence)

		if bufTokens+tokens > c.maxTokens && buf.Len() > 0 {
			flush()
		}
		buf.WriteString(sentence)
		bufTokens += tokens
	}
	flush()

	return segments, nil
}
