package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askdoc-labs/askdoc-cli/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the loaded document",
	Long: `Answers a question using only the content of the ingested
document. The question is expanded into several phrasings, the most
relevant chunks are retrieved, and a local Ollama model generates an
answer grounded in them.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := ensureSession(); err != nil {
		return err
	}
	attachPersisted(cmd.Context())

	answer, err := sessionService.Ask(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotReady) {
			return errors.New("no document loaded; run \"askdoc ingest <file>\" first")
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer)
	return nil
}
