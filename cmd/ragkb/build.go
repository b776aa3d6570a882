package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ragkb/internal/chunker"
	"ragkb/internal/index"
)

var buildMetaPath string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild the knowledge-base index from scratch",
	Long: `Read every .txt and .md file in the documents directory, chunk and
embed them, and replace the vector store collection. The previous index
survives untouched if the documents directory is empty or unreadable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		docs, err := index.LoadDir(cfg.Documents.Dir)
		if err != nil {
			return fmt.Errorf("load documents: %w", err)
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		builder := index.NewBuilder(
			chunker.NewRecursive(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap),
			newEmbedder(cfg),
			store,
			cfg.Storage.Collection,
		)

		report, err := builder.Rebuild(context.Background(), docs)
		if err != nil {
			return fmt.Errorf("rebuild index: %w", err)
		}

		if buildMetaPath != "" {
			if err := report.WriteMeta(buildMetaPath); err != nil {
				return fmt.Errorf("write index metadata: %w", err)
			}
		}

		fmt.Printf("Indexed %d documents into %d chunks\n", report.NumDocuments, report.NumChunks)
		fmt.Printf("Model: %s (%d dims)\n", report.Model, report.EmbeddingDim)
		fmt.Printf("Chunking: size %d, overlap %d\n", report.ChunkSize, report.ChunkOverlap)
		fmt.Printf("Duration: %v\n", report.Duration.Round(time.Millisecond))
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildMetaPath, "meta", "index_meta.json", "where to write the build report (empty to skip)")
	rootCmd.AddCommand(buildCmd)
}
