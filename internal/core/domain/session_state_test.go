package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSessionState_String tests state names.
func TestSessionState_String(t *testing.T) {
	assert.Equal(t, "empty", SessionEmpty.String())
	assert.Equal(t, "indexing", SessionIndexing.String())
	assert.Equal(t, "ready", SessionReady.String())
	assert.Equal(t, "deleting", SessionDeleting.String())
	assert.Equal(t, "unknown", SessionState(99).String())
}
