package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer one question from the knowledge base",
	Args:  cobra.MinimumNArgs(1),
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

		question := strings.Join(args, " ")
		resp, err := newPipeline(cfg, store).Ask(context.Background(), question)
		if err != nil {
			return fmt.Errorf("ask: %w", err)
		}

		fmt.Println(resp.Answer)
		if verbose && len(resp.Sources) > 0 {
			fmt.Printf("\nSources (%d chunks): %s\n", resp.ChunkCount, strings.Join(resp.Sources, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
