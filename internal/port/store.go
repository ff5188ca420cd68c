package port

import "docpipe/internal/domain"

// ChunkStore persists chunk records keyed by (documentId, chunkId).
type ChunkStore interface {
	// Put writes or overwrites one record.
	Put(rec domain.ChunkRecord) error

	// Get reads one record by composite key.
	Get(docID, chunkID string) (domain.ChunkRecord, error)

	// GetByDocument returns all records for a document, sorted by chunkId.
	GetByDocument(docID string) ([]domain.ChunkRecord, error)

	// Scan returns a point-in-time snapshot of every record. Writers may run
	// concurrently; a partial snapshot is acceptable.
	Scan() ([]domain.ChunkRecord, error)

	// Count returns the number of stored records.
	Count() (int, error)

	Close() error
}
