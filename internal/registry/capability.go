package registry

import "github.com/vk/tagscript/internal/dispatch"

// Capability names the dispatch surfaces a type exposes.
type Capability int

const (
	Plain Capability = iota
	Attributable
	Modifiable
	Both
)

func (c Capability) String() string {
	switch c {
	case Plain:
		return "plain"
	case Attributable:
		return "attributable"
	case Modifiable:
		return "modifiable"
	case Both:
		return "attributable+modifiable"
	default:
		return "unknown"
	}
}

func (c Capability) attributable() bool { return c == Attributable || c == Both }
func (c Capability) modifiable() bool   { return c == Modifiable || c == Both }

// StrictlyAdds reports whether c is a proper superset of old.
func (c Capability) StrictlyAdds(old Capability) bool {
	if c == old {
		return false
	}
	if old.attributable() && !c.attributable() {
		return false
	}
	if old.modifiable() && !c.modifiable() {
		return false
	}
	return true
}

// kind is the tagged variant stored per entry. Each variant carries only the
// tables its capability needs.
type kind interface {
	capability() Capability
}

type plainKind struct{}

type attributableKind struct {
	attrs *dispatch.AttributeTable
}

type modifiableKind struct {
	mods *dispatch.ModifierTable
}

type bothKind struct {
	attrs *dispatch.AttributeTable
	mods  *dispatch.ModifierTable
}

func (plainKind) capability() Capability        { return Plain }
func (attributableKind) capability() Capability { return Attributable }
func (modifiableKind) capability() Capability   { return Modifiable }
func (bothKind) capability() Capability         { return Both }

func attributesOf(k kind) *dispatch.AttributeTable {
	switch k := k.(type) {
	case attributableKind:
		return k.attrs
	case bothKind:
		return k.attrs
	case plainKind, modifiableKind:
		return nil
	default:
		return nil
	}
}

func modifiersOf(k kind) *dispatch.ModifierTable {
	switch k := k.(type) {
	case modifiableKind:
		return k.mods
	case bothKind:
		return k.mods
	case plainKind, attributableKind:
		return nil
	default:
		return nil
	}
}
