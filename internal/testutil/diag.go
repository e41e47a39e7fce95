package testutil

import (
	"sync"
	"testing"

	"github.com/vk/tagscript/internal/diag"
)

// DiagRecorder captures diagnostic events for the duration of a test.
type DiagRecorder struct {
	mu     sync.Mutex
	events []diag.Event
}

// RecordDiagnostics installs a recorder as the process-wide hook and
// restores the default hook when the test ends. Tests using it must not run
// in parallel with other tests that raise diagnostics.
func RecordDiagnostics(t *testing.T) *DiagRecorder {
	t.Helper()
	r := &DiagRecorder{}
	diag.SetHook(diag.HookFunc(func(e diag.Event) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, e)
	}))
	t.Cleanup(func() { diag.SetHook(nil) })
	return r
}

// Events returns a copy of the recorded events.
func (r *DiagRecorder) Events() []diag.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]diag.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Kinds returns the kinds of the recorded events in order.
func (r *DiagRecorder) Kinds() []diag.Kind {
	events := r.Events()
	out := make([]diag.Kind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}
