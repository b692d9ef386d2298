package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the loaded document and its index",
	Long: `Removes the current document's vector index and frees the
session for a new document. Deleting when nothing is loaded is a no-op.`,
	Args: cobra.NoArgs,
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, _ []string) error {
	if err := ensureSession(); err != nil {
		return err
	}
	attachPersisted(cmd.Context())

	status := sessionService.Status()
	source := status.SourceName

	if err := sessionService.Delete(cmd.Context()); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	if source == "" {
		cmd.Println("Nothing to delete.")
	} else {
		cmd.Printf("Deleted %s\n", source)
	}
	return nil
}
