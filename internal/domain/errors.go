package domain

import "fmt"

// InputError reports malformed or missing input: empty text, a non-positive
// chunk bound, or a segment/vector count mismatch before load. Not retryable.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string   { return e.Msg }
func (e *InputError) Retryable() bool { return false }

// ProviderError reports a failed embedding-provider call. The pipeline may
// retry the whole run; the adapter itself never retries.
type ProviderError struct {
	Provider string
	Msg      string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Msg)
}

func (e *ProviderError) Unwrap() error   { return e.Err }
func (e *ProviderError) Retryable() bool { return true }

// ExtractionStatusError reports an extraction that finished with a
// non-success status. Structural from the chunker's point of view, though a
// pipeline operator may still retry transient upstream failures.
type ExtractionStatusError struct {
	Status string
}

func (e *ExtractionStatusError) Error() string {
	return fmt.Sprintf("extraction finished with status %q", e.Status)
}

func (e *ExtractionStatusError) Retryable() bool { return false }

// StageError tags a pipeline failure with the stage that produced it, so
// "which stage failed" is a first-class value rather than an unwound panic.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// retryable is implemented by errors that advertise whether a pipeline-level
// retry could plausibly succeed.
type retryable interface {
	Retryable() bool
}

// IsRetryable reports whether err (or any error it wraps) marks itself
// retryable. Unknown errors default to retryable, matching the behavior of
// transient infrastructure failures.
func IsRetryable(err error) bool {
	for err != nil {
		if r, ok := err.(retryable); ok {
			return r.Retryable()
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return true
}
