package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"docpipe/internal/domain"
	"docpipe/internal/port"
)

// Pipeline stage names, in execution order.
const (
	StageInit     = "init"
	StageExtract  = "extract"
	StageValidate = "validate"
	StageChunk    = "chunk"
	StageEmbed    = "embed"
	StageLoad     = "load"
	stepNotify    = "notify"
)

// IngestUseCase runs the document pipeline: extract, validate, chunk, embed,
// load. Each stage either produces a value or a StageError naming the stage
// that failed; every stage is recorded in the execution log, and one
// notification is emitted per run.
type IngestUseCase struct {
	extractor port.Extractor
	chunker   port.Chunker
	embedder  port.Embedder
	store     port.ChunkStore
	execLog   port.ExecutionLog
	notifier  port.Notifier
	limiter   *rate.Limiter
	pipeline  string

	onEmbedProgress func(done, total int)
	onLoad          func()
}

// NewIngestUseCase creates the pipeline. The limiter paces embedding calls;
// the provider contract is one text per request, so pacing is the caller's
// responsibility.
func NewIngestUseCase(
	extractor port.Extractor,
	chunker port.Chunker,
	embedder port.Embedder,
	store port.ChunkStore,
	execLog port.ExecutionLog,
	notifier port.Notifier,
	limiter *rate.Limiter,
	pipeline string,
) *IngestUseCase {
	if pipeline == "" {
		pipeline = "document-ingestion"
	}
	return &IngestUseCase{
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		execLog:   execLog,
		notifier:  notifier,
		limiter:   limiter,
		pipeline:  pipeline,
	}
}

// OnEmbedProgress registers a callback invoked after each embedded segment.
func (u *IngestUseCase) OnEmbedProgress(fn func(done, total int)) {
	u.onEmbedProgress = fn
}

// OnLoad registers a callback invoked after a successful load, e.g. to
// invalidate a query cache.
func (u *IngestUseCase) OnLoad(fn func()) {
	u.onLoad = fn
}

// IngestResult summarizes one completed pipeline run.
type IngestResult struct {
	RunID      string
	DocumentID string
	ChunkCount int
	TextLength int
	Duration   time.Duration
}

// Run processes one document end to end.
func (u *IngestUseCase) Run(ctx context.Context, ref domain.DocumentRef) (*IngestResult, error) {
	runID := uuid.NewString()
	docID := uuid.NewString()
	start := time.Now()

	// init: document-level status record under the reserved chunkId
	u.logStep(runID, docID, StageInit, domain.StatusStarted, ref.Name)
	err := u.store.Put(domain.ChunkRecord{
		DocumentID: docID,
		ChunkID:    domain.MetadataChunkID,
		Metadata: map[string]string{
			"filename":  ref.Name,
			"source":    ref.Source,
			"status":    "initialized",
			"createdAt": start.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, u.fail(ctx, runID, docID, ref, StageInit, err)
	}
	u.logStep(runID, docID, StageInit, domain.StatusSuccess, "")

	// extract
	u.logStep(runID, docID, StageExtract, domain.StatusStarted, ref.Source)
	extraction, err := u.extractor.Extract(ctx, ref)
	if err != nil {
		return nil, u.fail(ctx, runID, docID, ref, StageExtract, err)
	}
	if extraction.Status != domain.ExtractionSucceeded {
		return nil, u.fail(ctx, runID, docID, ref, StageExtract,
			&domain.ExtractionStatusError{Status: extraction.Status})
	}
	u.logStep(runID, docID, StageExtract, domain.StatusSuccess,
		fmt.Sprintf("%d fragments", len(extraction.Fragments)))

	// validate
	u.logStep(runID, docID, StageValidate, domain.StatusStarted, "")
	text, err := joinFragments(extraction.Fragments)
	if err != nil {
		return nil, u.fail(ctx, runID, docID, ref, StageValidate, err)
	}
	u.logStep(runID, docID, StageValidate, domain.StatusSuccess, "")

	// chunk
	u.logStep(runID, docID, StageChunk, domain.StatusStarted, "")
	segments, err := u.chunker.Chunk(normalize(text))
	if err != nil {
		return nil, u.fail(ctx, runID, docID, ref, StageChunk, err)
	}
	if len(segments) == 0 {
		return nil, u.fail(ctx, runID, docID, ref, StageChunk,
			&domain.InputError{Msg: "chunking produced no segments"})
	}
	u.logStep(runID, docID, StageChunk, domain.StatusSuccess,
		fmt.Sprintf("%d segments", len(segments)))

	// embed: sequential, rate-limited, order-preserving. Any failure aborts
	// the batch; load requires a 1:1 segment/vector correspondence.
	u.logStep(runID, docID, StageEmbed, domain.StatusStarted, "")
	vectors := make([][]float64, len(segments))
	for i, seg := range segments {
		if u.limiter != nil {
			if err := u.limiter.Wait(ctx); err != nil {
				return nil, u.fail(ctx, runID, docID, ref, StageEmbed, err)
			}
		}
		vec, err := u.embedder.Embed(ctx, seg.Text)
		if err != nil {
			return nil, u.fail(ctx, runID, docID, ref, StageEmbed, err)
		}
		vectors[i] = vec
		if u.onEmbedProgress != nil {
			u.onEmbedProgress(i+1, len(segments))
		}
	}
	if len(vectors) != len(segments) {
		return nil, u.fail(ctx, runID, docID, ref, StageEmbed,
			&domain.InputError{Msg: "segment and vector counts differ"})
	}
	u.logStep(runID, docID, StageEmbed, domain.StatusSuccess,
		fmt.Sprintf("%d vectors", len(vectors)))

	// load
	u.logStep(runID, docID, StageLoad, domain.StatusStarted, "")
	for i, seg := range segments {
		rec := domain.ChunkRecord{
			DocumentID: docID,
			ChunkID:    fmt.Sprintf("chunk_%03d", i+1),
			Text:       seg.Text,
			Embedding:  vectors[i],
			Metadata: map[string]string{
				"index":  strconv.Itoa(seg.Index),
				"tokens": strconv.Itoa(seg.Tokens),
				"source": ref.Source,
			},
		}
		if err := u.store.Put(rec); err != nil {
			return nil, u.fail(ctx, runID, docID, ref, StageLoad, err)
		}
	}
	if err := u.markProcessed(docID, len(segments), len(text)); err != nil {
		return nil, u.fail(ctx, runID, docID, ref, StageLoad, err)
	}
	u.logStep(runID, docID, StageLoad, domain.StatusSuccess,
		fmt.Sprintf("%d records", len(segments)))
	if u.onLoad != nil {
		u.onLoad()
	}

	result := &IngestResult{
		RunID:      runID,
		DocumentID: docID,
		ChunkCount: len(segments),
		TextLength: len(text),
		Duration:   time.Since(start),
	}
	u.notify(ctx, runID, docID, domain.Notification{
		Pipeline:   u.pipeline,
		RunID:      runID,
		Status:     domain.StatusSuccess,
		Timestamp:  time.Now().UTC(),
		Document:   ref,
		ChunkCount: result.ChunkCount,
		TextLength: result.TextLength,
	})

	return result, nil
}

// markProcessed updates the document-level status record after a successful
// load. Only status and counts are mutated; content records are never
// rewritten.
func (u *IngestUseCase) markProcessed(docID string, chunkCount, textLength int) error {
	meta, err := u.store.Get(docID, domain.MetadataChunkID)
	if err != nil {
		return err
	}
	if meta.Metadata == nil {
		meta.Metadata = make(map[string]string)
	}
	meta.Metadata["status"] = "processed"
	meta.Metadata["chunkCount"] = strconv.Itoa(chunkCount)
	meta.Metadata["textLength"] = strconv.Itoa(textLength)
	meta.Metadata["processedAt"] = time.Now().UTC().Format(time.RFC3339)
	return u.store.Put(meta)
}

// fail records the failed stage, notifies the sink, and returns the tagged
// stage error.
func (u *IngestUseCase) fail(ctx context.Context, runID, docID string, ref domain.DocumentRef, stage string, err error) error {
	stageErr := &domain.StageError{Stage: stage, Err: err}
	u.logStep(runID, docID, stage, domain.StatusFailed, err.Error())
	u.notify(ctx, runID, docID, domain.Notification{
		Pipeline:   u.pipeline,
		RunID:      runID,
		Status:     domain.StatusFailed,
		Timestamp:  time.Now().UTC(),
		Document:   ref,
		FailedStep: stage,
		Error:      err.Error(),
		Retryable:  domain.IsRetryable(err),
	})
	return stageErr
}

func (u *IngestUseCase) notify(ctx context.Context, runID, docID string, msg domain.Notification) {
	if u.notifier == nil {
		return
	}
	// Delivery failures are logged, never fail the run.
	if err := u.notifier.Notify(ctx, msg); err != nil {
		u.logStep(runID, docID, stepNotify, domain.StatusFailed, err.Error())
		return
	}
	u.logStep(runID, docID, stepNotify, domain.StatusSuccess, msg.Status)
}

func (u *IngestUseCase) logStep(runID, docID, step, status, msg string) {
	if u.execLog == nil {
		return
	}
	// Best effort: a broken log must not abort the pipeline.
	_ = u.execLog.Append(domain.StepLog{
		RunID:      runID,
		DocumentID: docID,
		Step:       step,
		Status:     status,
		Timestamp:  time.Now().UTC(),
		Message:    msg,
	})
}

// joinFragments validates extracted fragments and concatenates their text.
// A fragment that is empty after trimming fails validation.
func joinFragments(fragments []domain.Fragment) (string, error) {
	if len(fragments) == 0 {
		return "", &domain.InputError{Msg: "extraction returned no text fragments"}
	}
	parts := make([]string, 0, len(fragments))
	for i, f := range fragments {
		if strings.TrimSpace(f.Text) == "" {
			return "", &domain.InputError{Msg: fmt.Sprintf("fragment %d has empty text", i)}
		}
		parts = append(parts, f.Text)
	}
	return strings.Join(parts, " "), nil
}

// normalize removes newlines and collapses whitespace runs to single spaces.
func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
