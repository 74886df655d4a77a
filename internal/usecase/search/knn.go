package search

import "sync/atomic"

// KNNState is the process-wide vector-search availability flag. It starts
// from configuration and is downgraded exactly once, for the remaining
// process lifetime, when the index rejects a vector query as unsupported.
// Recovery requires a restart or explicit operator action.
type KNNState struct {
	disabled atomic.Bool
}

// NewKNNState creates the availability flag.
func NewKNNState(enabled bool) *KNNState {
	s := &KNNState{}
	s.disabled.Store(!enabled)
	return s
}

// Enabled reports whether vector queries may be attempted.
func (s *KNNState) Enabled() bool { return !s.disabled.Load() }

// Disable turns vector search off. Concurrent callers may race; the write is
// idempotent.
func (s *KNNState) Disable() { s.disabled.Store(true) }
