package dispatch

import (
	"github.com/vk/tagscript/internal/chain"
	"github.com/vk/tagscript/internal/value"
)

// Modifier is a named mutation request with an optional argument.
type Modifier struct {
	Name   string
	Arg    string
	HasArg bool
}

// NewModifier creates a modifier without an argument.
func NewModifier(name string) Modifier {
	return Modifier{Name: name}
}

// WithArg returns a copy of m carrying arg.
func (m Modifier) WithArg(arg string) Modifier {
	m.Arg, m.HasArg = arg, true
	return m
}

// ArgAs builds a value of type id from the argument.
func (m Modifier) ArgAs(id value.TypeID, c chain.Constructor) (value.Value, bool) {
	if !m.HasArg {
		return nil, false
	}
	return c.Construct(id, m.Arg)
}

func (m Modifier) String() string {
	if !m.HasArg {
		return m.Name
	}
	return m.Name + ":" + m.Arg
}

// ModifierFunc mutates v in place and reports whether it succeeded.
type ModifierFunc func(v value.Value, m Modifier) bool

func composeModifiers(newFn, oldFn ModifierFunc) ModifierFunc {
	return func(v value.Value, m Modifier) bool {
		return newFn(v, m) || oldFn(v, m)
	}
}

// ModifierTable maps modifier names to mutating processors for one type.
type ModifierTable struct {
	t table[ModifierFunc]
}

// NewModifierTable creates an empty table for the type id.
func NewModifierTable(id value.TypeID) *ModifierTable {
	m := &ModifierTable{}
	m.t.init(id, "modifier")
	return m
}

// TypeID returns the type the table belongs to.
func (m *ModifierTable) TypeID() value.TypeID { return m.t.typeID }

// Register binds fn to every valid name that is not already taken.
func (m *ModifierTable) Register(fn ModifierFunc, names ...string) error {
	if fn == nil {
		return ErrNilProcessor
	}
	return m.t.register(fn, names)
}

// Extend binds fn to names; where a processor exists, fn runs first and the
// old processor runs only if fn reports failure.
func (m *ModifierTable) Extend(fn ModifierFunc, names ...string) error {
	if fn == nil {
		return ErrNilProcessor
	}
	return m.t.extend(fn, names, composeModifiers)
}

// Lookup returns the processor bound to name.
func (m *ModifierTable) Lookup(name string) (ModifierFunc, bool) {
	return m.t.lookup(name)
}

// Has reports whether name is bound.
func (m *ModifierTable) Has(name string) bool {
	_, ok := m.t.lookup(name)
	return ok
}

// Names returns the bound names, sorted.
func (m *ModifierTable) Names() []string { return m.t.names() }

// Len returns the number of bound names.
func (m *ModifierTable) Len() int { return m.t.len() }
