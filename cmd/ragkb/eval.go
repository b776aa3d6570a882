package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"ragkb/internal/eval"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Run the golden question set and log the results",
	Long: `Ask every question from the golden file through the live pipeline,
score the answers, append them to the CSV evaluation log, and print an
accuracy summary. One failing question never aborts the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		questions, err := eval.LoadGolden(cfg.Eval.GoldenFile)
		if err != nil {
			return err
		}
		if len(questions) == 0 {
			return fmt.Errorf("golden file %s contains no questions", cfg.Eval.GoldenFile)
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		pipeline := newPipeline(cfg, store)
		evaluator := eval.NewEvaluator(pipeline, pipeline.Guard(), cfg.Eval.MinAnswerLen)

		records, summary := evaluator.Run(context.Background(), questions)
		if err := eval.AppendCSV(cfg.Eval.LogFile, records); err != nil {
			return fmt.Errorf("append evaluation log: %w", err)
		}

		for _, r := range records {
			mark := "FAIL"
			if r.Correct {
				mark = "ok"
			}
			fmt.Printf("[%s] %s\n", mark, r.Question)
			if verbose {
				fmt.Printf("      answer: %s\n", r.Answer)
			}
		}
		fmt.Printf("\nCorrect: %d/%d (%.0f%%)\n", summary.Correct, summary.Total,
			100*float64(summary.Correct)/float64(summary.Total))
		fmt.Printf("Log: %s\n", cfg.Eval.LogFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
}
