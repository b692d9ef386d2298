// Package cli implements the askdoc command-line interface.
// Commands are thin adapters over the driving ports; all business
// logic lives in the core services.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/askdoc-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/askdoc-labs/askdoc-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// sessionService is the driving port used by all document commands.
// Set by Execute's wiring or by SetSessionService in tests.
var sessionService driving.SessionService

// Persistent flag values.
var (
	flagVerbose   bool
	flagDataDir   string
	flagConfigDir string
	flagOllamaURL string
	flagEphemeral bool
)

var rootCmd = &cobra.Command{
	Use:   "askdoc",
	Short: "Ask questions about your documents",
	Long: `askdoc ingests a document, indexes it locally, and answers
questions grounded strictly in its content using a local Ollama model.

Typical workflow:
  askdoc ingest report.pdf
  askdoc ask "What were the key findings?"
  askdoc delete`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.askdoc/data)")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.askdoc)")
	rootCmd.PersistentFlags().StringVar(&flagOllamaURL, "ollama-url", "", "Ollama base URL (default http://localhost:11434)")
	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "keep the vector index in memory instead of on disk")
}

// SetSessionService injects the session service.
// Used by tests and by external wiring.
func SetSessionService(svc driving.SessionService) {
	sessionService = svc
}

// SetVersion sets the version string shown by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
