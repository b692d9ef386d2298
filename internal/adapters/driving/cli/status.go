package cli

import (
	"github.com/spf13/cobra"

	"github.com/askdoc-labs/askdoc-cli/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session state",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := ensureSession(); err != nil {
		return err
	}
	attachPersisted(cmd.Context())

	status := sessionService.Status()

	cmd.Printf("State:      %s\n", status.State)
	if status.State == domain.SessionEmpty {
		cmd.Println("No document loaded. Run \"askdoc ingest <file>\" to get started.")
		printModelHealth(cmd)
		return nil
	}

	cmd.Printf("Document:   %s\n", status.SourceName)
	cmd.Printf("Collection: %s\n", status.Collection)
	cmd.Printf("Chunks:     %d\n", status.ChunkCount)
	cmd.Printf("Dimension:  %d\n", status.Dimension)
	printModelHealth(cmd)
	return nil
}

// printModelHealth pings the wired model services and reports whether
// Ollama is reachable. Skipped when a test injects the session directly.
func printModelHealth(cmd *cobra.Command) {
	if wired == nil {
		return
	}
	ctx := cmd.Context()

	if wired.embedder != nil {
		if err := wired.embedder.Ping(ctx); err != nil {
			cmd.Printf("Embedding:  unreachable (%v)\n", err)
		} else {
			cmd.Printf("Embedding:  ok (%s)\n", wired.embedder.ModelName())
		}
	}
	if wired.llm != nil {
		if err := wired.llm.Ping(ctx); err != nil {
			cmd.Printf("LLM:        unreachable (%v)\n", err)
		} else {
			cmd.Printf("LLM:        ok (%s)\n", wired.llm.ModelName())
		}
	}
}
