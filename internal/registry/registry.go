package registry

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/vk/tagscript/internal/diag"
	"github.com/vk/tagscript/internal/dispatch"
	"github.com/vk/tagscript/internal/value"
)

// ConstructFunc builds a value from text, reporting false when the text is
// not acceptable.
type ConstructFunc func(text string) (value.Value, bool)

// MatchFunc reports whether text can be constructed as the type.
type MatchFunc func(text string) bool

type entry struct {
	construct ConstructFunc
	match     MatchFunc
	kind      kind
}

// Registry holds every registered type for one engine instance.
type Registry struct {
	mu      sync.RWMutex
	entries map[value.TypeID]*entry
	order   []value.TypeID

	// inferred caches Infer's matcher selection per text. It is cleared on
	// every registration.
	inferred sync.Map
}

// New creates and initializes an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[value.TypeID]*entry)}
}

var defaultRegistry = New()

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }

// RegisterPlain registers a type with no dispatch tables.
func (r *Registry) RegisterPlain(id value.TypeID, construct ConstructFunc, match MatchFunc) error {
	return r.register(id, construct, match, plainKind{})
}

// RegisterAttributable registers a type exposing an attribute table.
func (r *Registry) RegisterAttributable(id value.TypeID, construct ConstructFunc, match MatchFunc, attrs *dispatch.AttributeTable) error {
	if attrs == nil {
		return r.missing(id, Attributable, "attribute table is nil")
	}
	return r.register(id, construct, match, attributableKind{attrs: attrs})
}

// RegisterModifiable registers a type exposing a modifier table.
func (r *Registry) RegisterModifiable(id value.TypeID, construct ConstructFunc, match MatchFunc, mods *dispatch.ModifierTable) error {
	if mods == nil {
		return r.missing(id, Modifiable, "modifier table is nil")
	}
	return r.register(id, construct, match, modifiableKind{mods: mods})
}

// RegisterBoth registers a type exposing both tables.
func (r *Registry) RegisterBoth(id value.TypeID, construct ConstructFunc, match MatchFunc, attrs *dispatch.AttributeTable, mods *dispatch.ModifierTable) error {
	if attrs == nil {
		return r.missing(id, Both, "attribute table is nil")
	}
	if mods == nil {
		return r.missing(id, Both, "modifier table is nil")
	}
	return r.register(id, construct, match, bothKind{attrs: attrs, mods: mods})
}

func (r *Registry) missing(id value.TypeID, want Capability, detail string) error {
	return &RegistrationError{TypeID: id, Want: want, Detail: detail, Err: ErrMissingHandler}
}

func (r *Registry) register(id value.TypeID, construct ConstructFunc, match MatchFunc, k kind) error {
	want := k.capability()
	switch {
	case id == "":
		return r.missing(id, want, "type id is empty")
	case construct == nil:
		return r.missing(id, want, "constructor is nil")
	case match == nil:
		return r.missing(id, want, "matcher is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[id]; ok {
		have := existing.kind.capability()
		if !want.StrictlyAdds(have) {
			diag.Report(diag.Event{Kind: diag.WeakerRegistration, TypeID: string(id), Detail: fmt.Sprintf("%s over %s", want, have)})
			return &RegistrationError{TypeID: id, Have: have, Want: want, Err: ErrAlreadyRegistered}
		}
		diag.Report(diag.Event{Kind: diag.Overridden, TypeID: string(id), Detail: fmt.Sprintf("%s replaces %s", want, have)})
		slog.Debug("Overriding weaker type registration.", "type", id, "from", have.String(), "to", want.String())
	} else {
		r.order = append(r.order, id)
		slog.Debug("Registering type.", "type", id, "capability", want.String())
	}

	r.entries[id] = &entry{construct: construct, match: match, kind: k}
	r.inferred.Clear()
	return nil
}

func (r *Registry) lookup(id value.TypeID) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

// Construct builds a value of type id from text. It reports false when the
// type is unknown or the constructor rejects the text.
func (r *Registry) Construct(id value.TypeID, text string) (value.Value, bool) {
	e, ok := r.lookup(id)
	if !ok {
		return nil, false
	}
	v, ok := e.construct(text)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Matches reports whether text is acceptable to type id.
func (r *Registry) Matches(id value.TypeID, text string) bool {
	e, ok := r.lookup(id)
	return ok && e.match(text)
}

// AttributeTableFor returns the attribute table of type id, if it has one.
func (r *Registry) AttributeTableFor(id value.TypeID) (*dispatch.AttributeTable, bool) {
	e, ok := r.lookup(id)
	if !ok {
		return nil, false
	}
	t := attributesOf(e.kind)
	return t, t != nil
}

// ModifierTableFor returns the modifier table of type id, if it has one.
func (r *Registry) ModifierTableFor(id value.TypeID) (*dispatch.ModifierTable, bool) {
	e, ok := r.lookup(id)
	if !ok {
		return nil, false
	}
	t := modifiersOf(e.kind)
	return t, t != nil
}

// Capability returns the registered capability of type id.
func (r *Registry) Capability(id value.TypeID) (Capability, error) {
	e, ok := r.lookup(id)
	if !ok {
		return Plain, fmt.Errorf("%w: %q", ErrUnknownType, id)
	}
	return e.kind.capability(), nil
}

// Types returns the registered type ids in registration order.
func (r *Registry) Types() []value.TypeID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]value.TypeID, len(r.order))
	copy(out, r.order)
	return out
}

// Infer constructs text with the first type, in registration order, whose
// matcher accepts it and whose constructor succeeds.
func (r *Registry) Infer(text string) (value.Value, bool) {
	if cached, ok := r.inferred.Load(text); ok {
		id := cached.(value.TypeID)
		if id == "" {
			return nil, false
		}
		return r.Construct(id, text)
	}

	for _, id := range r.Types() {
		if !r.Matches(id, text) {
			continue
		}
		if v, ok := r.Construct(id, text); ok {
			r.inferred.Store(text, id)
			return v, true
		}
	}
	r.inferred.Store(text, value.TypeID(""))
	return nil, false
}
