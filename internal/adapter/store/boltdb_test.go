package store

import (
	"path/filepath"
	"testing"
	"time"

	"docpipe/internal/domain"
)

func openTestDB(t *testing.T) (*BoltChunkStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := OpenBolt(path)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewBoltChunkStore(db)
	if err != nil {
		t.Fatal(err)
	}
	return s, path
}

func TestBoltChunkStorePutGet(t *testing.T) {
	s, _ := openTestDB(t)
	defer s.Close()

	rec := domain.ChunkRecord{
		DocumentID: "doc1",
		ChunkID:    "chunk_001",
		Text:       "some text",
		Embedding:  []float64{0.1, 0.2, 0.3},
		Metadata:   map[string]string{"tokens": "3"},
	}
	if err := s.Put(rec); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get("doc1", "chunk_001")
	if err != nil {
		t.Fatal(err)
	}
	if got.Text != rec.Text {
		t.Errorf("text mismatch: got %q", got.Text)
	}
	if len(got.Embedding) != 3 || got.Embedding[1] != 0.2 {
		t.Errorf("embedding mismatch: %v", got.Embedding)
	}
	if got.Metadata["tokens"] != "3" {
		t.Errorf("metadata mismatch: %v", got.Metadata)
	}
}

func TestBoltChunkStoreMissingKey(t *testing.T) {
	s, _ := openTestDB(t)
	defer s.Close()

	if _, err := s.Get("nope", "chunk_001"); err == nil {
		t.Error("expected error for missing record")
	}
}

func TestBoltChunkStoreRejectsEmptyKeys(t *testing.T) {
	s, _ := openTestDB(t)
	defer s.Close()

	if err := s.Put(domain.ChunkRecord{ChunkID: "chunk_001"}); err == nil {
		t.Error("expected error for missing documentId")
	}
	if err := s.Put(domain.ChunkRecord{DocumentID: "doc1"}); err == nil {
		t.Error("expected error for missing chunkId")
	}
}

func TestBoltChunkStoreGetByDocumentSorted(t *testing.T) {
	s, _ := openTestDB(t)
	defer s.Close()

	for _, id := range []string{"chunk_003", "chunk_001", domain.MetadataChunkID, "chunk_002"} {
		if err := s.Put(domain.ChunkRecord{DocumentID: "doc1", ChunkID: id}); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Put(domain.ChunkRecord{DocumentID: "doc2", ChunkID: "chunk_001"}); err != nil {
		t.Fatal(err)
	}

	recs, err := s.GetByDocument("doc1")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 4 {
		t.Fatalf("expected 4 records, got %d", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].ChunkID < recs[i-1].ChunkID {
			t.Errorf("records not sorted by chunkId: %s before %s",
				recs[i-1].ChunkID, recs[i].ChunkID)
		}
	}
}

func TestBoltChunkStorePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	db, err := OpenBolt(path)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewBoltChunkStore(db)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(domain.ChunkRecord{
		DocumentID: "doc1",
		ChunkID:    "chunk_001",
		Embedding:  []float64{1, 2},
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	db2, err := OpenBolt(path)
	if err != nil {
		t.Fatal(err)
	}
	s2, err := NewBoltChunkStore(db2)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	got, err := s2.Get("doc1", "chunk_001")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Embedding) != 2 {
		t.Errorf("embedding not persisted: %v", got.Embedding)
	}
	count, err := s2.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected count 1 after reopen, got %d", count)
	}
}

func TestBoltChunkStoreScanSnapshot(t *testing.T) {
	s, _ := openTestDB(t)
	defer s.Close()

	for i, id := range []string{"chunk_001", "chunk_002"} {
		if err := s.Put(domain.ChunkRecord{
			DocumentID: "doc1",
			ChunkID:    id,
			Embedding:  []float64{float64(i)},
		}); err != nil {
			t.Fatal(err)
		}
	}

	snap, err := s.Scan()
	if err != nil {
		t.Fatal(err)
	}
	if len(snap) != 2 {
		t.Fatalf("expected snapshot of 2, got %d", len(snap))
	}

	// Writes after the snapshot must not grow it.
	if err := s.Put(domain.ChunkRecord{DocumentID: "doc1", ChunkID: "chunk_003"}); err != nil {
		t.Fatal(err)
	}
	if len(snap) != 2 {
		t.Errorf("snapshot mutated by later write")
	}
}

func TestBoltExecutionLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.db")
	db, err := OpenBolt(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	l, err := NewBoltExecutionLog(db)
	if err != nil {
		t.Fatal(err)
	}

	base := time.Now().UTC()
	steps := []string{"init", "extract", "chunk"}
	for i, step := range steps {
		if err := l.Append(domain.StepLog{
			RunID:     "run-1",
			Step:      step,
			Status:    domain.StatusSuccess,
			Timestamp: base.Add(time.Duration(i) * time.Millisecond),
		}); err != nil {
			t.Fatal(err)
		}
	}
	if err := l.Append(domain.StepLog{
		RunID:     "run-2",
		Step:      "init",
		Status:    domain.StatusFailed,
		Timestamp: base,
	}); err != nil {
		t.Fatal(err)
	}

	entries, err := l.ByRun("run-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries for run-1, got %d", len(entries))
	}
	for i, step := range steps {
		if entries[i].Step != step {
			t.Errorf("entry %d: expected step %s, got %s", i, step, entries[i].Step)
		}
	}

	all, err := l.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 total entries, got %d", len(all))
	}
}
