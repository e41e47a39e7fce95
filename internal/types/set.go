package types

import (
	"strings"

	"github.com/vk/tagscript/internal/chain"
	"github.com/vk/tagscript/internal/dispatch"
	"github.com/vk/tagscript/internal/registry"
	"github.com/vk/tagscript/internal/value"
)

// Set is an insertion-ordered collection of distinct values of one element
// type. Elements are compared by their string form. The text form is
// [a|b|c], so an element whose string form contains | is never added.
type Set struct {
	elem  value.TypeID
	items []value.Value
}

// NewSet creates a set of elem-typed values, dropping duplicates.
func NewSet(elem value.TypeID, items ...value.Value) *Set {
	s := &Set{elem: elem}
	for _, it := range items {
		s.add(it)
	}
	return s
}

// NewTextSet creates a set of text values.
func NewTextSet(items ...string) *Set {
	s := &Set{elem: TextID}
	for _, it := range items {
		s.add(NewText(it))
	}
	return s
}

func (s *Set) TypeID() value.TypeID { return SetID }

func (s *Set) String() string {
	parts := make([]string, len(s.items))
	for i, it := range s.items {
		parts[i] = it.String()
	}
	return "[" + strings.Join(parts, "|") + "]"
}

func (s *Set) Clone() value.Value {
	out := &Set{elem: s.elem, items: make([]value.Value, len(s.items))}
	for i, it := range s.items {
		out.items[i] = it.Clone()
	}
	return out
}

// ElementType returns the type of the elements.
func (s *Set) ElementType() value.TypeID { return s.elem }

// Len returns the number of elements.
func (s *Set) Len() int { return len(s.items) }

// Elements returns the elements in insertion order.
func (s *Set) Elements() []value.Value {
	out := make([]value.Value, len(s.items))
	copy(out, s.items)
	return out
}

// Contains reports whether an element with text's string form is present.
func (s *Set) Contains(text string) bool { return s.index(text) >= 0 }

func (s *Set) index(text string) int {
	for i, it := range s.items {
		if it.String() == text {
			return i
		}
	}
	return -1
}

func (s *Set) add(v value.Value) bool {
	if !storable(v) || s.Contains(v.String()) {
		return false
	}
	s.items = append(s.items, v)
	return true
}

// storable reports whether v survives the [a|b] text form as one element.
func storable(v value.Value) bool {
	return v != nil && !strings.Contains(v.String(), "|")
}

func (s *Set) remove(text string) bool {
	i := s.index(text)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

func matchSet(text string) bool {
	return len(text) >= 2 && strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]")
}

func parseTextSet(text string) (*Set, bool) {
	if !matchSet(text) {
		return nil, false
	}
	inner := text[1 : len(text)-1]
	if inner == "" {
		return NewTextSet(), true
	}
	return NewTextSet(strings.Split(inner, "|")...), true
}

func registerSet(reg *registry.Registry) error {
	attrs := dispatch.NewAttributeTable(SetID)
	mods := dispatch.NewModifierTable(SetID)

	set := func(fn func(s *Set, c *chain.Chain) value.Value) dispatch.AttributeFunc {
		return func(v value.Value, c *chain.Chain) value.Value {
			s, ok := v.(*Set)
			if !ok {
				return nil
			}
			return fn(s, c)
		}
	}
	// element builds the segment context as an element of s, normalizing
	// it through the element type when possible.
	element := func(s *Set, c *chain.Chain) (value.Value, bool) {
		if v, ok := contextAs(reg, c, s.elem); ok {
			return v, true
		}
		return nil, false
	}

	err := tableErrors(
		attrs.Register(dispatch.DirectAttribute(set(func(s *Set, _ *chain.Chain) value.Value {
			return NewInteger(int64(len(s.items)))
		})), "size"),
		attrs.Register(dispatch.DirectAttribute(set(func(s *Set, _ *chain.Chain) value.Value {
			return NewBoolean(len(s.items) == 0)
		})), "is_empty", "isEmpty"),
		attrs.Register(dispatch.DirectAttribute(set(func(s *Set, c *chain.Chain) value.Value {
			e, ok := element(s, c)
			if !ok {
				return nil
			}
			return NewBoolean(s.Contains(e.String()))
		})), "contains"),
		attrs.Register(dispatch.CloningAttribute(set(func(s *Set, c *chain.Chain) value.Value {
			e, ok := element(s, c)
			if !ok || !storable(e) {
				return nil
			}
			s.add(e)
			return s
		})), "add"),
		attrs.Register(dispatch.DirectAttribute(set(func(s *Set, _ *chain.Chain) value.Value {
			return NewText(string(s.elem))
		})), "element_type"),

		mods.Register(setModifier(func(s *Set, m dispatch.Modifier) bool {
			e, ok := m.ArgAs(s.elem, reg)
			if !ok || !storable(e) {
				return false
			}
			s.add(e)
			return true
		}), "add"),
		mods.Register(setModifier(func(s *Set, m dispatch.Modifier) bool {
			e, ok := m.ArgAs(s.elem, reg)
			if !ok {
				return false
			}
			return s.remove(e.String())
		}), "remove"),
		mods.Register(setModifier(func(s *Set, _ dispatch.Modifier) bool {
			s.items = nil
			return true
		}), "clear"),
		installBuiltins(reg, attrs),
	)
	if err != nil {
		return err
	}

	construct := func(text string) (value.Value, bool) {
		s, ok := parseTextSet(text)
		if !ok {
			return nil, false
		}
		return s, true
	}
	return reg.RegisterBoth(SetID, construct, matchSet, attrs, mods)
}

func setModifier(fn func(s *Set, m dispatch.Modifier) bool) dispatch.ModifierFunc {
	return func(v value.Value, m dispatch.Modifier) bool {
		s, ok := v.(*Set)
		if !ok {
			return false
		}
		return fn(s, m)
	}
}
