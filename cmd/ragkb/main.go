package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ragkb/internal/config"
	"ragkb/internal/version"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ragkb",
	Short: "ragkb - retrieval-augmented knowledge base with guarded answers",
	Long: `ragkb indexes a directory of text documents into a local vector store
and answers questions over it through an Ollama-backed RAG pipeline.

Retrieved document content is treated as untrusted: prompts carry a
security preamble, weak matches are refused before generation, and
generated answers pass a forbidden-term filter before they are shown.`,
	Version:       version.Full(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("ragkb %s\n", version.Full())
		if version.GitCommit != "unknown" {
			fmt.Printf("Git commit: %s\n", version.GitCommit)
		}
		if version.BuildDate != "unknown" {
			fmt.Printf("Build date: %s\n", version.BuildDate)
		}
		fmt.Printf("Go version: %s\n", version.GoVersion)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initEnv)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(versionCmd)
}

// initEnv loads a .env file if present so ${ENV_VAR} placeholders in
// the config resolve. A missing .env is fine.
func initEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		if verbose {
			log.Printf("skipping .env: %v", err)
		}
	}
}

// loadConfig reads the configuration for a command run.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
