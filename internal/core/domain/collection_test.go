package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCollectionName_Deterministic tests that the same document always
// maps to the same collection.
func TestCollectionName_Deterministic(t *testing.T) {
	content := []byte("chapter one\n\nchapter two")

	first := CollectionName("book.md", content)
	second := CollectionName("book.md", content)

	assert.Equal(t, first, second)
}

// TestCollectionName_ContentSensitive tests that changed content gets a
// fresh collection even under the same file name.
func TestCollectionName_ContentSensitive(t *testing.T) {
	original := CollectionName("book.md", []byte("version one"))
	edited := CollectionName("book.md", []byte("version two"))

	assert.NotEqual(t, original, edited)
}

// TestCollectionName_NameSensitive tests that identical content under a
// different name gets a different collection.
func TestCollectionName_NameSensitive(t *testing.T) {
	content := []byte("shared content")

	assert.NotEqual(t,
		CollectionName("a.txt", content),
		CollectionName("b.txt", content),
	)
}

// TestCollectionName_NoBoundaryAmbiguity tests that the name/content
// boundary cannot be shifted to produce a collision.
func TestCollectionName_NoBoundaryAmbiguity(t *testing.T) {
	assert.NotEqual(t,
		CollectionName("ab", []byte("c")),
		CollectionName("a", []byte("bc")),
	)
}

// TestCollectionName_Format tests the name shape.
func TestCollectionName_Format(t *testing.T) {
	name := CollectionName("report.pdf", []byte("content"))

	assert.True(t, strings.HasPrefix(name, "doc-"))
	assert.Len(t, name, len("doc-")+collectionNameHexLen)
}

// TestCollectionState_String tests state names.
func TestCollectionState_String(t *testing.T) {
	assert.Equal(t, "building", CollectionBuilding.String())
	assert.Equal(t, "ready", CollectionReady.String())
	assert.Equal(t, "unknown", CollectionState(99).String())
}
