// Package diag is the extension point for debug diagnostics raised by the
// registry, the dispatch tables, and the dispatch engines. Nothing in the
// engine depends on a hook being installed.
package diag

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Kind classifies a diagnostic event.
type Kind int

const (
	// DuplicateName is raised when a processor is registered under a name
	// that is already taken. The registration of that name is skipped.
	DuplicateName Kind = iota
	// FallbackFailed is raised when neither a value nor its downgraded form
	// resolves an attribute.
	FallbackFailed
	// WeakerRegistration is raised when a type is re-registered with a
	// capability set that does not strictly add to the current one.
	WeakerRegistration
	// Overridden is raised when a re-registration replaces a weaker one.
	Overridden
	// ModifierRejected is raised when a modifier processor reports failure.
	ModifierRejected
)

func (k Kind) String() string {
	switch k {
	case DuplicateName:
		return "duplicate_name"
	case FallbackFailed:
		return "fallback_failed"
	case WeakerRegistration:
		return "weaker_registration"
	case Overridden:
		return "overridden"
	case ModifierRejected:
		return "modifier_rejected"
	default:
		return "unknown"
	}
}

// Event is a single diagnostic.
type Event struct {
	Kind   Kind
	TypeID string
	Name   string
	Detail string
}

// Hook receives diagnostic events. Implementations must be safe for
// concurrent use.
type Hook interface {
	Report(Event)
}

// HookFunc adapts a function to Hook.
type HookFunc func(Event)

// Report calls f(e).
func (f HookFunc) Report(e Event) { f(e) }

type nop struct{}

func (nop) Report(Event) {}

// Nop discards every event.
var Nop Hook = nop{}

type holder struct{ h Hook }

var current atomic.Pointer[holder]

// SetHook installs h as the process-wide hook. A nil h restores Nop.
func SetHook(h Hook) {
	if h == nil {
		h = Nop
	}
	current.Store(&holder{h: h})
}

// Report forwards e to the installed hook.
func Report(e Event) {
	if hd := current.Load(); hd != nil {
		hd.h.Report(e)
	}
}

// NewLogHook returns a hook writing events to logger. Failed fallbacks and
// rejected modifiers are logged at Warn, everything else at Debug.
func NewLogHook(logger *slog.Logger) Hook {
	return HookFunc(func(e Event) {
		level := slog.LevelDebug
		if e.Kind == FallbackFailed || e.Kind == ModifierRejected {
			level = slog.LevelWarn
		}
		logger.Log(context.Background(), level, "Diagnostic.", "kind", e.Kind.String(), "type", e.TypeID, "name", e.Name, "detail", e.Detail)
	})
}
