package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCmd_Exists(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "chat" {
			found = true
			break
		}
	}
	assert.True(t, found, "chat command should be registered")
}

func TestChatCmd_ShortDescription(t *testing.T) {
	assert.Equal(t, "Start an interactive question session", chatCmd.Short)
}

func TestChatCmd_LongDescription(t *testing.T) {
	assert.Contains(t, chatCmd.Long, "terminal UI")
	assert.Contains(t, chatCmd.Long, "Controls:")
}

func TestChatCmd_HelpOutput(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"chat", "--help"})
	defer func() {
		rootCmd.SetArgs(nil)
		chatCmd.Flags().Set("help", "false")
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "terminal UI")
	assert.Contains(t, buf.String(), "Controls:")
}

func TestChatCmd_RequiresLoadedDocument(t *testing.T) {
	// A session with nothing loaded refuses to start the chat UI.
	cleanup := setupTestSession(&mockSession{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"chat"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "askdoc ingest")
}
