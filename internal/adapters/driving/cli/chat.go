package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/askdoc-labs/askdoc-cli/internal/adapters/driving/tui"
	"github.com/askdoc-labs/askdoc-cli/internal/core/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive question session",
	Long: `Opens a terminal UI for asking questions about the loaded
document in a loop, without re-running askdoc ask for each one.

Controls:
  Enter - Ask the typed question
  Esc   - Quit`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat UI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if err := ensureSession(); err != nil {
		return err
	}
	attachPersisted(cmd.Context())

	if sessionService.Status().State != domain.SessionReady {
		return errors.New("no document loaded; run \"askdoc ingest <file>\" first")
	}

	// Prompt edits on disk take effect mid-session.
	stopWatcher := startPromptWatcher(cmd.Context())
	defer stopWatcher()

	chat := tui.NewChat(sessionService).WithContext(cmd.Context())

	p := tea.NewProgram(chat, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}

	return nil
}
