package port

// Tokenizer estimates token counts for chunk budgeting. Counts must be
// non-negative and grow with text length.
type Tokenizer interface {
	CountTokens(text string) int
}
