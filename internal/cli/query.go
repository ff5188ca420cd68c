package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"docpipe/config"
	"docpipe/internal/adapter/cache"
	"docpipe/internal/adapter/search"
	"docpipe/internal/adapter/store"
	"docpipe/internal/usecase"
)

var (
	queryText string
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search ingested chunks by semantic similarity",
	Long: `Embed the query text and rank stored chunks by cosine similarity.

Examples:
  docpipe query -q "patient symptoms"
  docpipe query -q "treatment plan" --top-k 10 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "query text (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	rootDir := GetRootDir()

	dbPath := config.DBPath(rootDir)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return fmt.Errorf("no document store found. Run 'docpipe ingest' first")
	}

	db, err := store.OpenBolt(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	chunkStore, err := store.NewBoltChunkStore(db)
	if err != nil {
		db.Close()
		return err
	}
	defer chunkStore.Close()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	engine := search.NewEngine(chunkStore, embedder)
	resultCache := cache.NewQueryCache(cfg.Query.CacheSize,
		time.Duration(cfg.Query.CacheTTLSeconds)*time.Second)
	queryUC := usecase.NewQueryUseCase(engine, resultCache, cfg.Query.TopK)

	resp, err := queryUC.Query(cmd.Context(), queryText, queryTopK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if queryJSON {
		output, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if resp.Count == 0 {
		fmt.Println("No results found.")
		return nil
	}
	fmt.Printf("Found %d results for: %s\n\n", resp.Count, resp.Query)
	for i, r := range resp.Results {
		fmt.Printf("--- [%d] %s/%s (similarity: %.4f) ---\n", i+1, r.DocumentID, r.ChunkID, r.Similarity)
		text := r.Text
		if len(text) > 500 {
			text = text[:500] + "..."
		}
		fmt.Println(text)
		fmt.Println()
	}

	return nil
}
