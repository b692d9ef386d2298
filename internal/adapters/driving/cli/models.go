package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var modelsRefresh bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models available on the Ollama server",
	Args:  cobra.NoArgs,
	RunE:  runModels,
}

func init() {
	modelsCmd.Flags().BoolVar(&modelsRefresh, "refresh", false, "bypass the cached listing")
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, _ []string) error {
	if err := ensureSession(); err != nil {
		return err
	}
	if wired == nil || wired.catalog == nil {
		return errors.New("model catalog not configured")
	}

	if modelsRefresh {
		wired.catalog.Invalidate()
	}

	models, err := wired.catalog.Models(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing models: %w", err)
	}

	if len(models) == 0 {
		cmd.Println("No models installed. Pull one with: ollama pull llama3.2")
		return nil
	}

	cmd.Println("Available models:")
	for _, model := range models {
		marker := " "
		if model == wired.llm.ModelName() || model == wired.embedder.ModelName() {
			marker = "*"
		}
		cmd.Printf("  %s %s\n", marker, model)
	}
	cmd.Println()
	cmd.Printf("LLM:       %s\n", wired.llm.ModelName())
	cmd.Printf("Embedding: %s\n", wired.embedder.ModelName())
	return nil
}
