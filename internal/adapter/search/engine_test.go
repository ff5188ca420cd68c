package search

import (
	"context"
	"math"
	"testing"

	"docpipe/internal/adapter/embedding"
	"docpipe/internal/adapter/memstore"
	"docpipe/internal/domain"
)

const epsilon = 1e-9

func TestCosineSimilaritySymmetry(t *testing.T) {
	pairs := [][2][]float64{
		{{1, 0, 0}, {0, 1, 0}},
		{{1, 2, 3}, {4, 5, 6}},
		{{-1, 0.5, 2}, {3, -2, 0.25}},
	}
	for _, p := range pairs {
		ab := CosineSimilarity(p[0], p[1])
		ba := CosineSimilarity(p[1], p[0])
		if math.Abs(ab-ba) > epsilon {
			t.Errorf("similarity not symmetric: %v vs %v", ab, ba)
		}
	}
}

func TestCosineSimilaritySelfIdentity(t *testing.T) {
	vecs := [][]float64{
		{1, 0, 0},
		{0.3, -0.7, 2.1, 5},
		{1e-3, 1e-3},
	}
	for _, v := range vecs {
		if got := CosineSimilarity(v, v); math.Abs(got-1.0) > epsilon {
			t.Errorf("self similarity = %v, want 1.0", got)
		}
	}
}

func TestCosineSimilarityDegenerate(t *testing.T) {
	zero := []float64{0, 0, 0}
	if got := CosineSimilarity([]float64{1, 2, 3}, zero); got != 0.0 {
		t.Errorf("similarity with zero vector = %v, want 0.0", got)
	}
	if got := CosineSimilarity(zero, zero); got != 0.0 {
		t.Errorf("zero-zero similarity = %v, want 0.0", got)
	}
}

func TestCosineSimilarityLengthMismatch(t *testing.T) {
	if got := CosineSimilarity([]float64{1, 2}, []float64{1, 2, 3}); got != 0.0 {
		t.Errorf("mismatched lengths = %v, want 0.0", got)
	}
}

func TestCosineSimilarityOpposite(t *testing.T) {
	got := CosineSimilarity([]float64{1, 0}, []float64{-1, 0})
	if math.Abs(got-(-1.0)) > epsilon {
		t.Errorf("opposite vectors = %v, want -1.0", got)
	}
}

func rec(docID, chunkID string, vec []float64) domain.ChunkRecord {
	return domain.ChunkRecord{
		DocumentID: docID,
		ChunkID:    chunkID,
		Text:       chunkID,
		Embedding:  vec,
	}
}

func TestRankOrderingAndLimit(t *testing.T) {
	query := []float64{1, 0}
	records := []domain.ChunkRecord{
		rec("d1", "chunk_001", []float64{0, 1}),    // similarity 0
		rec("d1", "chunk_002", []float64{1, 0}),    // similarity 1
		rec("d1", "chunk_003", []float64{1, 1}),    // similarity ~0.707
		rec("d1", "chunk_004", []float64{-1, 0}),   // similarity -1
		rec("d1", "chunk_005", []float64{2, 0.01}), // just under 1
	}

	results := Rank(query, records, 3)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted descending at %d: %v > %v",
				i, results[i].Score, results[i-1].Score)
		}
	}
	if results[0].Record.ChunkID != "chunk_002" {
		t.Errorf("expected chunk_002 first, got %s", results[0].Record.ChunkID)
	}
}

func TestRankFewerCandidatesThanK(t *testing.T) {
	query := []float64{1, 0}
	records := []domain.ChunkRecord{
		rec("d1", "chunk_001", []float64{1, 0}),
		rec("d1", "chunk_002", []float64{0, 1}),
	}

	results := Rank(query, records, 10)
	if len(results) != 2 {
		t.Errorf("expected min(k, candidates)=2 results, got %d", len(results))
	}
}

func TestRankSkipsMetadataSentinel(t *testing.T) {
	query := []float64{1, 0}
	records := []domain.ChunkRecord{
		rec("d1", domain.MetadataChunkID, []float64{1, 0}),
		rec("d1", "chunk_001", []float64{1, 0}),
	}

	results := Rank(query, records, 10)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Record.ChunkID == domain.MetadataChunkID {
		t.Error("metadata record returned in results")
	}
}

func TestRankSkipsIneligibleEmbeddings(t *testing.T) {
	query := []float64{1, 0}
	records := []domain.ChunkRecord{
		rec("d1", "chunk_001", []float64{1, 0, 0}), // wrong length
		rec("d1", "chunk_002", nil),                // missing embedding
		rec("d1", "chunk_003", []float64{0.5, 0.5}),
	}

	results := Rank(query, records, 10)
	if len(results) != 1 {
		t.Fatalf("expected 1 eligible result, got %d", len(results))
	}
	if results[0].Record.ChunkID != "chunk_003" {
		t.Errorf("expected chunk_003, got %s", results[0].Record.ChunkID)
	}
}

func TestRankStableTies(t *testing.T) {
	query := []float64{1, 0}
	records := []domain.ChunkRecord{
		rec("d1", "chunk_001", []float64{1, 0}),
		rec("d1", "chunk_002", []float64{2, 0}), // identical direction, same score
		rec("d1", "chunk_003", []float64{3, 0}),
	}

	results := Rank(query, records, 3)
	order := []string{"chunk_001", "chunk_002", "chunk_003"}
	for i, want := range order {
		if results[i].Record.ChunkID != want {
			t.Errorf("tie order broken at %d: got %s, want %s", i, results[i].Record.ChunkID, want)
		}
	}
}

func TestRankDefaultK(t *testing.T) {
	query := []float64{1, 0}
	var records []domain.ChunkRecord
	for i := 0; i < 10; i++ {
		records = append(records, rec("d1", string(rune('a'+i)), []float64{1, float64(i)}))
	}

	results := Rank(query, records, 0)
	if len(results) != DefaultTopK {
		t.Errorf("expected default top-k %d, got %d", DefaultTopK, len(results))
	}
}

func TestEngineSearch(t *testing.T) {
	st := memstore.NewMemoryChunkStore()
	emb := embedding.NewMockEmbedder(16)

	ctx := context.Background()
	texts := []string{"alpha report", "beta summary", "gamma notes"}
	for i, text := range texts {
		vec, err := emb.Embed(ctx, text)
		if err != nil {
			t.Fatal(err)
		}
		if err := st.Put(domain.ChunkRecord{
			DocumentID: "doc1",
			ChunkID:    "chunk_00" + string(rune('1'+i)),
			Text:       text,
			Embedding:  vec,
		}); err != nil {
			t.Fatal(err)
		}
	}

	engine := NewEngine(st, emb)
	results, err := engine.Search(ctx, "alpha report", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Record.Text != "alpha report" {
		t.Errorf("expected exact match first, got %q", results[0].Record.Text)
	}
	if math.Abs(results[0].Score-1.0) > epsilon {
		t.Errorf("exact match score = %v, want 1.0", results[0].Score)
	}
}

func TestEngineSearchEmptyQuery(t *testing.T) {
	engine := NewEngine(memstore.NewMemoryChunkStore(), embedding.NewMockEmbedder(4))
	if _, err := engine.Search(context.Background(), "", 5); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestEngineSearchEmptyStore(t *testing.T) {
	engine := NewEngine(memstore.NewMemoryChunkStore(), embedding.NewMockEmbedder(4))
	results, err := engine.Search(context.Background(), "anything", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}
