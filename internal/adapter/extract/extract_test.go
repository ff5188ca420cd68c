package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"docpipe/internal/domain"
)

func TestPlaintextExtractor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	content := "First line of text.\n\n  Second line here.  \nThird.\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	x := NewPlaintextExtractor()
	ext, err := x.Extract(context.Background(), domain.DocumentRef{Source: path, Name: "doc.txt"})
	if err != nil {
		t.Fatal(err)
	}

	if ext.Status != domain.ExtractionSucceeded {
		t.Errorf("expected success status, got %q", ext.Status)
	}
	if len(ext.Fragments) != 3 {
		t.Fatalf("expected 3 fragments, got %d", len(ext.Fragments))
	}
	if ext.Fragments[1].Text != "Second line here." {
		t.Errorf("fragment not trimmed: %q", ext.Fragments[1].Text)
	}
	for i, f := range ext.Fragments {
		if f.Confidence != 1.0 {
			t.Errorf("fragment %d confidence = %v, want 1.0", i, f.Confidence)
		}
	}
}

func TestPlaintextExtractorMissingFile(t *testing.T) {
	x := NewPlaintextExtractor()
	_, err := x.Extract(context.Background(), domain.DocumentRef{Source: "/does/not/exist.txt"})
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestHTTPExtractor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req extractRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request: %v", err)
		}
		if req.Document != "s3://bucket/report.pdf" {
			t.Errorf("unexpected document: %q", req.Document)
		}
		json.NewEncoder(w).Encode(extractResponse{
			Status: "SUCCEEDED",
			Blocks: []block{
				{Text: "Page one text.", Confidence: 0.99},
				{Text: "Page two text.", Confidence: 0.97},
			},
		})
	}))
	defer srv.Close()

	x := NewHTTPExtractor(srv.URL, 5*time.Second)
	ext, err := x.Extract(context.Background(), domain.DocumentRef{
		Source: "s3://bucket/report.pdf",
		Name:   "report.pdf",
	})
	if err != nil {
		t.Fatal(err)
	}

	if ext.Status != domain.ExtractionSucceeded {
		t.Errorf("unexpected status: %q", ext.Status)
	}
	if len(ext.Fragments) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(ext.Fragments))
	}
	if ext.Fragments[0].Confidence != 0.99 {
		t.Errorf("confidence lost: %v", ext.Fragments[0].Confidence)
	}
}

func TestHTTPExtractorNonSuccessStatusPassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(extractResponse{Status: "FAILED"})
	}))
	defer srv.Close()

	x := NewHTTPExtractor(srv.URL, 5*time.Second)
	ext, err := x.Extract(context.Background(), domain.DocumentRef{Source: "doc"})
	if err != nil {
		t.Fatal(err)
	}
	// The adapter reports the status; rejecting it is the pipeline's call.
	if ext.Status != "FAILED" {
		t.Errorf("status not passed through: %q", ext.Status)
	}
}

func TestHTTPExtractorServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	x := NewHTTPExtractor(srv.URL, 5*time.Second)
	if _, err := x.Extract(context.Background(), domain.DocumentRef{Source: "doc"}); err == nil {
		t.Error("expected error for server failure")
	}
}
