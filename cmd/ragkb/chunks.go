package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var chunksCmd = &cobra.Command{
	Use:   "chunks",
	Short: "Dump every indexed chunk in insertion order",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.GetAll(context.Background(), cfg.Storage.Collection)
		if err != nil {
			return fmt.Errorf("list chunks: %w", err)
		}

		for _, r := range records {
			fmt.Printf("--- %s (%s, chunk %d)\n", r.ID, r.Metadata.Source, r.Metadata.ChunkID)
			fmt.Println(r.Text)
		}
		fmt.Printf("\nTotal: %d chunks\n", len(records))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chunksCmd)
}
