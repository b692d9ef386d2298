package domain

// SessionState tracks the per-session document lifecycle.
//
// The state machine is:
//
//	Empty -> Indexing -> Ready -> Deleting -> Empty
//
// with Indexing returning to Empty on ingestion failure. Questions are
// answered from Ready without a state change.
type SessionState int

const (
	// SessionEmpty means no document is attached.
	SessionEmpty SessionState = iota

	// SessionIndexing means an ingestion is in progress.
	SessionIndexing

	// SessionReady means a collection is built and questions can be asked.
	SessionReady

	// SessionDeleting means the attached collection is being removed.
	SessionDeleting
)

// String returns a human-readable state name.
func (s SessionState) String() string {
	switch s {
	case SessionEmpty:
		return "empty"
	case SessionIndexing:
		return "indexing"
	case SessionReady:
		return "ready"
	case SessionDeleting:
		return "deleting"
	default:
		return "unknown"
	}
}
