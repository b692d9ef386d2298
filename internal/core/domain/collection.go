package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// CollectionState tracks the build lifecycle of a collection.
// A collection is never queryable until it reaches Ready.
type CollectionState int

const (
	// CollectionBuilding is the initial state while chunks are being
	// embedded and stored.
	CollectionBuilding CollectionState = iota

	// CollectionReady means all chunks are committed and the collection
	// is servable.
	CollectionReady
)

// String returns a human-readable state name.
func (s CollectionState) String() string {
	switch s {
	case CollectionBuilding:
		return "building"
	case CollectionReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Collection is a named, independently lifecycled vector index holding
// one document's chunks.
type Collection struct {
	// Name is the deterministic identifier derived from the source
	// document's identity. See CollectionName.
	Name string

	// Dimension is the fixed embedding vector size for this collection.
	// Vectors of any other dimension are rejected.
	Dimension int

	// State is the current lifecycle state.
	State CollectionState

	// ChunkCount is the number of chunks stored.
	ChunkCount int
}

// collectionNameHexLen is the number of hash characters kept in a
// collection name.
const collectionNameHexLen = 12

// CollectionName derives a deterministic collection name from the source
// document's identity. The hash covers both the file name and the full
// content, so re-uploading the same document maps to the same collection
// while a same-named but different file gets a fresh one.
func CollectionName(sourceName string, content []byte) string {
	h := sha256.New()
	h.Write([]byte(sourceName))
	h.Write([]byte{0})
	h.Write(content)
	return "doc-" + hex.EncodeToString(h.Sum(nil))[:collectionNameHexLen]
}
