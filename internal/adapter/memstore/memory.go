package memstore

import (
	"fmt"
	"sort"
	"sync"

	"docpipe/internal/domain"
)

// MemoryChunkStore is an in-memory ChunkStore. Used by tests and as an
// ephemeral backend; semantics mirror the BoltDB store.
type MemoryChunkStore struct {
	mu      sync.RWMutex
	records map[string]domain.ChunkRecord
}

func NewMemoryChunkStore() *MemoryChunkStore {
	return &MemoryChunkStore{
		records: make(map[string]domain.ChunkRecord),
	}
}

func key(docID, chunkID string) string {
	return docID + "/" + chunkID
}

func (s *MemoryChunkStore) Put(rec domain.ChunkRecord) error {
	if rec.DocumentID == "" || rec.ChunkID == "" {
		return &domain.InputError{Msg: "store: record requires documentId and chunkId"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key(rec.DocumentID, rec.ChunkID)] = rec
	return nil
}

func (s *MemoryChunkStore) Get(docID, chunkID string) (domain.ChunkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key(docID, chunkID)]
	if !ok {
		return domain.ChunkRecord{}, fmt.Errorf("record not found: %s/%s", docID, chunkID)
	}
	return rec, nil
}

func (s *MemoryChunkStore) GetByDocument(docID string) ([]domain.ChunkRecord, error) {
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

func (s *MemoryChunkStore) Scan() ([]domain.ChunkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := make([]domain.ChunkRecord, 0, len(s.records))
	for _, rec := range s.records {
		recs = append(recs, rec)
	}
	return recs, nil
}

func (s *MemoryChunkStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func (s *MemoryChunkStore) Close() error {
	return nil
}
