package dispatch

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/vk/tagscript/internal/diag"
	"github.com/vk/tagscript/internal/value"
)

var (
	// ErrNoValidNames is returned when none of the given names is usable.
	ErrNoValidNames = errors.New("no valid names were given")
	// ErrNilProcessor is returned when a processor function is missing.
	ErrNilProcessor = errors.New("a processor must be provided")
)

// invalidNameChars may not appear in an operation name: they are structural
// in expression text.
const invalidNameChars = `"'()=;.<>\`

// ValidNames filters names down to those usable as operation names,
// preserving order.
func ValidNames(names ...string) []string {
	valid := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" || strings.ContainsAny(name, invalidNameChars) {
			continue
		}
		valid = append(valid, name)
	}
	return valid
}

// table is the name-to-processor map shared by both table kinds.
type table[P any] struct {
	typeID value.TypeID
	label  string
	mu     sync.RWMutex
	procs  map[string]P
}

func (t *table[P]) init(id value.TypeID, label string) {
	t.typeID, t.label = id, label
	t.procs = make(map[string]P)
}

func (t *table[P]) register(p P, names []string) error {
	valid := ValidNames(names...)
	if len(valid) == 0 {
		return fmt.Errorf("%s table for %q: %w", t.label, t.typeID, ErrNoValidNames)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, name := range valid {
		if _, exists := t.procs[name]; exists {
			diag.Report(diag.Event{Kind: diag.DuplicateName, TypeID: string(t.typeID), Name: name, Detail: t.label})
			continue
		}
		slog.Debug("Registering processor.", "table", t.label, "type", t.typeID, "name", name)
		t.procs[name] = p
	}
	return nil
}

func (t *table[P]) extend(p P, names []string, compose func(newP, oldP P) P) error {
	valid := ValidNames(names...)
	if len(valid) == 0 {
		return fmt.Errorf("%s table for %q: %w", t.label, t.typeID, ErrNoValidNames)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, name := range valid {
		if old, exists := t.procs[name]; exists {
			slog.Debug("Extending processor.", "table", t.label, "type", t.typeID, "name", name)
			t.procs[name] = compose(p, old)
			continue
		}
		t.procs[name] = p
	}
	return nil
}

func (t *table[P]) lookup(name string) (P, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.procs[name]
	return p, ok
}

func (t *table[P]) names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.procs))
	for name := range t.procs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (t *table[P]) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.procs)
}
