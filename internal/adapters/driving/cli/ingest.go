package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/askdoc-labs/askdoc-cli/internal/core/domain"
	"github.com/askdoc-labs/askdoc-cli/internal/core/ports/driving"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Index a document for question answering",
	Long: `Extracts text from the document, splits it into chunks, embeds
them with the configured Ollama model, and builds a local vector index.

Supported formats: PDF, DOCX, HTML, Markdown, and plain text.

The session holds one document at a time; run "askdoc delete" before
ingesting a different one. Re-ingesting an unchanged document reattaches
the existing index instead of rebuilding it.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := ensureSession(); err != nil {
		return err
	}
	// A document loaded by a previous run still occupies the session.
	attachPersisted(cmd.Context())

	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	upload := driving.Upload{
		Name:    filepath.Base(path),
		Content: content,
	}

	// Re-running ingest on the already-loaded document is a no-op.
	status := sessionService.Status()
	if status.State == domain.SessionReady && status.Collection == domain.CollectionName(upload.Name, upload.Content) {
		cmd.Printf("%s is already loaded (%d chunks)\n", upload.Name, status.ChunkCount)
		return nil
	}

	result, err := sessionService.Ingest(cmd.Context(), upload)
	if err != nil {
		if errors.Is(err, domain.ErrSessionBusy) {
			return fmt.Errorf("a document is already loaded; run \"askdoc delete\" first: %w", err)
		}
		return fmt.Errorf("ingest failed: %w", err)
	}

	if result.Reused {
		cmd.Printf("Reattached existing index for %s (%d chunks)\n", result.SourceName, result.ChunkCount)
	} else {
		cmd.Printf("Indexed %s: %d chunks in collection %s\n", result.SourceName, result.ChunkCount, result.Collection)
	}
	cmd.Println("Ask questions with: askdoc ask \"your question\"")
	return nil
}
