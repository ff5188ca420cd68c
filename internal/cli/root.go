package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docpipe/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "docpipe",
	Short: "Document ingestion pipeline with semantic similarity search",
	Long: `docpipe ingests documents through an extract-validate-chunk-embed-load
pipeline, stores embedded chunks, and answers semantic-similarity queries
over them.

Example usage:
  docpipe ingest ./docs              # Ingest documents in a directory
  docpipe query -q "patient fever"   # Search ingested chunks
  docpipe runs                       # Inspect pipeline execution logs`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./docpipe.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
