package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"ragkb/internal/chunker"
	"ragkb/internal/config"
	"ragkb/internal/index"
)

var updateSchedule string

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Add new documents to the index incrementally",
	Long: `Index files from the new-documents directory that are not yet in the
collection. Dedup is by filename: an already-indexed filename is
skipped, so refreshing changed content needs a rename or a full build.

With --schedule the command stays in the foreground and runs the update
on a cron schedule until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if updateSchedule == "" {
			return runUpdate(cfg)
		}

		c := cron.New()
		if _, err := c.AddFunc(updateSchedule, func() {
			if err := runUpdate(cfg); err != nil {
				log.Printf("scheduled update failed: %v", err)
			}
		}); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", updateSchedule, err)
		}

		log.Printf("running updates on schedule %q, Ctrl-C to stop", updateSchedule)
		c.Start()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		<-c.Stop().Done()
		return nil
	},
}

func runUpdate(cfg *config.Config) error {
	dir := cfg.Documents.NewDir
	if dir == "" {
		dir = cfg.Documents.Dir
	}

	docs, err := index.LoadDir(dir)
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	updater := index.NewUpdater(
		chunker.NewRecursive(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap),
		newEmbedder(cfg),
		store,
		cfg.Storage.Collection,
	)

	report, err := updater.Apply(context.Background(), docs)
	if err != nil {
		return fmt.Errorf("update index: %w", err)
	}

	fmt.Printf("New files: %d (%d chunks added)\n", report.NewFiles, report.ChunksAdded)
	fmt.Printf("Skipped: %d, failed: %d\n", report.SkippedFiles, report.FailedFiles)
	return nil
}

func init() {
	updateCmd.Flags().StringVar(&updateSchedule, "schedule", "", "cron schedule for repeated updates (e.g. \"@hourly\")")
	rootCmd.AddCommand(updateCmd)
}
