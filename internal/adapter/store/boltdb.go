package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"go.etcd.io/bbolt"

	"docpipe/internal/domain"
)

var bucketChunks = []byte("chunks")

// BoltChunkStore persists chunk records in BoltDB under the composite key
// documentId + "/" + chunkId, with an in-memory cache for fast scans.
// Scan returns a snapshot; concurrent loads racing a query is accepted
// weak-consistency behavior.
type BoltChunkStore struct {
	db *bbolt.DB

	mu      sync.RWMutex
	records map[string]domain.ChunkRecord
}

// OpenBolt opens (or creates) the BoltDB file at path.
func OpenBolt(path string) (*bbolt.DB, error) {
	return bbolt.Open(path, 0600, nil)
}

// NewBoltChunkStore creates a chunk store on an open BoltDB handle and loads
// existing records into memory.
func NewBoltChunkStore(db *bbolt.DB) (*BoltChunkStore, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketChunks)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chunks bucket: %w", err)
	}

	s := &BoltChunkStore{
		db:      db,
		records: make(map[string]domain.ChunkRecord),
	}
	if err := s.loadRecords(); err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	return s, nil
}

func recordKey(docID, chunkID string) string {
	return docID + "/" + chunkID
}

func (s *BoltChunkStore) loadRecords() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketChunks)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var rec domain.ChunkRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return nil // Skip corrupted entries
			}
			s.records[string(k)] = rec
			return nil
		})
	})
}

// Put writes or overwrites one record.
func (s *BoltChunkStore) Put(rec domain.ChunkRecord) error {
	if rec.DocumentID == "" || rec.ChunkID == "" {
		return &domain.InputError{Msg: "store: record requires documentId and chunkId"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketChunks)
		if b == nil {
			return fmt.Errorf("chunks bucket not found")
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}

		key := recordKey(rec.DocumentID, rec.ChunkID)
		if err := b.Put([]byte(key), data); err != nil {
			return err
		}
		s.records[key] = rec
		return nil
	})
}

// Get reads one record by composite key.
func (s *BoltChunkStore) Get(docID, chunkID string) (domain.ChunkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[recordKey(docID, chunkID)]
	if !ok {
		return domain.ChunkRecord{}, fmt.Errorf("record not found: %s/%s", docID, chunkID)
	}
	return rec, nil
}

// GetByDocument returns all records for a document, sorted by chunkId.
func (s *BoltChunkStore) GetByDocument(docID string) ([]domain.ChunkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var recs []domain.ChunkRecord
	for _, rec := range s.records {
		if rec.DocumentID == docID {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].ChunkID < recs[j].ChunkID
	})
	return recs, nil
}

// Scan returns a point-in-time snapshot of every record.
func (s *BoltChunkStore) Scan() ([]domain.ChunkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]domain.ChunkRecord, 0, len(s.records))
	for _, rec := range s.records {
		recs = append(recs, rec)
	}
	return recs, nil
}

// Count returns the number of stored records.
func (s *BoltChunkStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Close closes the underlying database.
func (s *BoltChunkStore) Close() error {
	return s.db.Close()
}
