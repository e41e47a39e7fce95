package dispatch

import (
	"github.com/vk/tagscript/internal/chain"
	"github.com/vk/tagscript/internal/value"
)

// Kind tells the engine whether a processor may see the caller's value.
type Kind int

const (
	// Direct processors do not mutate their input and run against it as-is.
	Direct Kind = iota
	// Cloning processors receive an independent clone they may mutate.
	Cloning
)

func (k Kind) String() string {
	if k == Direct {
		return "direct"
	}
	return "cloning"
}

// AttributeFunc derives a value from v for the segment at c's cursor. A nil
// result means "no result" and sends the engine to its fallback path.
// Processors read the current segment through c.Current and must not move
// the cursor.
type AttributeFunc func(v value.Value, c *chain.Chain) value.Value

// AttributeProcessor pairs an AttributeFunc with its Kind.
type AttributeProcessor struct {
	Kind Kind
	Fn   AttributeFunc
}

// DirectAttribute wraps fn as a Direct processor.
func DirectAttribute(fn AttributeFunc) AttributeProcessor {
	return AttributeProcessor{Kind: Direct, Fn: fn}
}

// CloningAttribute wraps fn as a Cloning processor.
func CloningAttribute(fn AttributeFunc) AttributeProcessor {
	return AttributeProcessor{Kind: Cloning, Fn: fn}
}

// composeAttributes runs newP first and oldP when newP yields nothing. The
// result stays Direct only when both inputs are Direct.
func composeAttributes(newP, oldP AttributeProcessor) AttributeProcessor {
	kind := Cloning
	if newP.Kind == Direct && oldP.Kind == Direct {
		kind = Direct
	}
	return AttributeProcessor{
		Kind: kind,
		Fn: func(v value.Value, c *chain.Chain) value.Value {
			if out := newP.Fn(v, c); out != nil {
				return out
			}
			return oldP.Fn(v, c)
		},
	}
}

// AttributeTable maps attribute names to processors for one type.
type AttributeTable struct {
	t table[AttributeProcessor]
}

// NewAttributeTable creates an empty table for the type id.
func NewAttributeTable(id value.TypeID) *AttributeTable {
	a := &AttributeTable{}
	a.t.init(id, "attribute")
	return a
}

// TypeID returns the type the table belongs to.
func (a *AttributeTable) TypeID() value.TypeID { return a.t.typeID }

// Register binds p to every valid name that is not already taken.
func (a *AttributeTable) Register(p AttributeProcessor, names ...string) error {
	if p.Fn == nil {
		return ErrNilProcessor
	}
	return a.t.register(p, names)
}

// Extend binds p to names, composing it in front of any existing processor.
func (a *AttributeTable) Extend(p AttributeProcessor, names ...string) error {
	if p.Fn == nil {
		return ErrNilProcessor
	}
	return a.t.extend(p, names, composeAttributes)
}

// Lookup returns the processor bound to name.
func (a *AttributeTable) Lookup(name string) (AttributeProcessor, bool) {
	return a.t.lookup(name)
}

// Has reports whether name is bound.
func (a *AttributeTable) Has(name string) bool {
	_, ok := a.t.lookup(name)
	return ok
}

// Names returns the bound names, sorted.
func (a *AttributeTable) Names() []string { return a.t.names() }

// Len returns the number of bound names.
func (a *AttributeTable) Len() int { return a.t.len() }
