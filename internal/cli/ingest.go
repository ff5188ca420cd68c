package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"docpipe/config"
	"docpipe/internal/adapter/analyzer"
	"docpipe/internal/adapter/chunker"
	"docpipe/internal/adapter/fs"
	"docpipe/internal/adapter/store"
	"docpipe/internal/domain"
	"docpipe/internal/usecase"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest documents into the pipeline",
	Long: `Run the extract-validate-chunk-embed-load pipeline over a file or
every matching file under a directory. Chunks and their embeddings are
stored in .docpipe/docpipe.db within the root directory.

Examples:
  docpipe ingest notes.txt        # Ingest a single file
  docpipe ingest ./docs           # Ingest a directory`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}

	cfg := GetConfig()
	rootDir := GetRootDir()

	if err := config.EnsureDataDir(rootDir); err != nil {
		return fmt.Errorf("failed to create .docpipe directory: %w", err)
	}

	db, err := store.OpenBolt(config.DBPath(rootDir))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	chunkStore, err := store.NewBoltChunkStore(db)
	if err != nil {
		db.Close()
		return err
	}
	defer chunkStore.Close()

	execLog, err := store.NewBoltExecutionLog(db)
	if err != nil {
		return err
	}

	tokenizer := analyzer.NewTokenizer()
	chk, err := chunker.NewSentenceChunker(cfg.Pipeline.ChunkTokens, tokenizer)
	if err != nil {
		return err
	}
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	extractor, err := newExtractor(cfg)
	if err != nil {
		return err
	}

	ingestUC := usecase.NewIngestUseCase(
		extractor,
		chk,
		embedder,
		chunkStore,
		execLog,
		newNotifier(cfg),
		newEmbedLimiter(cfg),
		cfg.Pipeline.Name,
	)

	var refs []domain.DocumentRef
	if info.IsDir() {
		walker := fs.NewWalker(cfg.Ingest.Includes, cfg.Ingest.Excludes)
		refs, err = walker.Walk(path)
		if err != nil {
			return fmt.Errorf("failed to walk directory: %w", err)
		}
	} else {
		refs = append(refs, domain.DocumentRef{Source: path, Name: filepath.Base(path)})
	}

	if len(refs) == 0 {
		fmt.Println("No matching documents found.")
		return nil
	}

	failures := 0
	for _, ref := range refs {
		var bar *progressbar.ProgressBar
		ingestUC.OnEmbedProgress(func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetDescription(fmt.Sprintf("Embedding %s", ref.Name)),
					progressbar.OptionSetWidth(40),
					progressbar.OptionShowCount(),
					progressbar.OptionOnCompletion(func() {
						fmt.Println()
					}),
				)
			}
			bar.Set(done)
		})

		result, err := ingestUC.Run(cmd.Context(), ref)
		if err != nil {
			failures++
			var stageErr *domain.StageError
			if errors.As(err, &stageErr) {
				fmt.Fprintf(os.Stderr, "FAILED %s at stage %s: %v (retryable: %v)\n",
					ref.Name, stageErr.Stage, stageErr.Err, domain.IsRetryable(err))
			} else {
				fmt.Fprintf(os.Stderr, "FAILED %s: %v\n", ref.Name, err)
			}
			continue
		}
		fmt.Printf("Ingested %s: %d chunks, %d chars, run %s (%.1fs)\n",
			ref.Name, result.ChunkCount, result.TextLength, result.RunID,
			result.Duration.Seconds())
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d documents failed", failures, len(refs))
	}
	return nil
}
