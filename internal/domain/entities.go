package domain

import "time"

// MetadataChunkID is the reserved chunk identifier for the document-level
// status record. Content chunks must never use it, and the search engine
// never returns it.
const MetadataChunkID = "metadata"

// ExtractionSucceeded is the extractor status that allows the pipeline to
// proceed. Any other status is a hard failure.
const ExtractionSucceeded = "SUCCEEDED"

// DocumentRef identifies a source document to ingest.
type DocumentRef struct {
	Source string `json:"source"` // path or object location of the original document
	Name   string `json:"name"`   // display name (typically the file name)
}

// Segment is one contiguous slice of normalized source text produced by the
// chunker. Index is the zero-based position within the document; joining all
// segment texts in index order reproduces the normalized source text.
type Segment struct {
	Index  int
	Text   string
	Tokens int
}

// Fragment is one extracted text block with its extraction confidence.
type Fragment struct {
	Text       string
	Confidence float64
}

// Extraction is the result of running text extraction on a document.
type Extraction struct {
	Status    string
	Fragments []Fragment
}

// ChunkRecord is the persisted unit: one embedded segment of one document,
// or the document-level status record (ChunkID == MetadataChunkID).
// Records are addressed by the (DocumentID, ChunkID) composite key.
type ChunkRecord struct {
	DocumentID string            `json:"documentId"`
	ChunkID    string            `json:"chunkId"`
	Text       string            `json:"text,omitempty"`
	Embedding  []float64         `json:"embedding,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// QueryResult pairs a stored record with its similarity to a query vector.
// Produced per query, never persisted.
type QueryResult struct {
	Record ChunkRecord
	Score  float64
}

// Statuses used by execution logging and notifications.
const (
	StatusStarted = "STARTED"
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// StepLog is one execution-log entry for a pipeline step.
type StepLog struct {
	RunID      string    `json:"runId"`
	DocumentID string    `json:"documentId,omitempty"`
	Step       string    `json:"step"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	Message    string    `json:"message,omitempty"`
}

// Notification is the structured status message emitted once per pipeline run.
type Notification struct {
	Pipeline   string      `json:"pipeline"`
	RunID      string      `json:"runId"`
	Status     string      `json:"status"`
	Timestamp  time.Time   `json:"timestamp"`
	Document   DocumentRef `json:"document"`
	ChunkCount int         `json:"chunkCount,omitempty"`
	TextLength int         `json:"textLength,omitempty"`
	FailedStep string      `json:"failedStep,omitempty"`
	Error      string      `json:"error,omitempty"`
	Retryable  bool        `json:"retryable,omitempty"`
}
