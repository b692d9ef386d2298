package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelsCmd_Use(t *testing.T) {
	assert.Equal(t, "models", modelsCmd.Use)
}

func TestModelsCmd_HasRefreshFlag(t *testing.T) {
	flag := modelsCmd.Flags().Lookup("refresh")
	require.NotNil(t, flag, "refresh flag should exist")
	assert.Equal(t, "false", flag.DefValue)
}

func TestModelsCmd_NoCatalogConfigured(t *testing.T) {
	// With an injected session there is no wired catalog to list from.
	cleanup := setupTestSession(&mockSession{})
	defer cleanup()

	previous := wired
	wired = nil
	defer func() { wired = previous }()

	rootCmd.SetArgs([]string{"models"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model catalog")
}
