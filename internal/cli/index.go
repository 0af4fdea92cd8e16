package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"policyqa/internal/adapter/chunker"
	"policyqa/internal/adapter/embedding"
	"policyqa/internal/adapter/fs"
	"policyqa/internal/adapter/store"
	"policyqa/internal/usecase"
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Build the passage index from policy documents",
	Long: `Index policy documents for retrieval. Documents are chunked, embedded,
and stored together with their vectors. Unchanged files are skipped on
subsequent runs.

Examples:
  policyqa index              # Index the configured document directory
  policyqa index ./policies   # Index a specific directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	path := cfg.Index.DocumentDir
	if len(args) > 0 {
		path = args[0]
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	if dir := filepath.Dir(cfg.Index.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create index directory: %w", err)
		}
	}

	st, err := store.NewBoltStore(cfg.Index.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open index store: %w", err)
	}
	defer st.Close()

	vectorStore, err := store.NewBoltVectorStore(st.DB(), cfg.Embedding.Dimension)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}

	embedder, err := embedding.NewOpenAIEmbedder(
		cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.BaseURL,
		cfg.Embedding.Dimension, cfg.Embedding.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	walker := fs.NewWalker(cfg.Index.Includes, cfg.Index.Excludes)
	textChunker := chunker.NewTextChunker(cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)
	indexer := usecase.NewIndexer(st, vectorStore, walker, textChunker, embedder, logger)

	fmt.Printf("Indexing %s...\n", path)

	bar := progressbar.NewOptions(-1,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Indexing[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	result, err := indexer.Index(cmd.Context(), path, func() {
		_ = bar.Add(1)
	})
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	fmt.Println()

	fmt.Printf("Indexed %d files (%d chunks), skipped %d unchanged, removed %d stale\n",
		result.FilesIndexed, result.ChunksCreated, result.FilesSkipped, result.FilesDeleted)
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "warning: %s\n", e)
	}
	return nil
}
