package types

import (
	"github.com/vk/tagscript/internal/chain"
	"github.com/vk/tagscript/internal/dispatch"
	"github.com/vk/tagscript/internal/registry"
	"github.com/vk/tagscript/internal/value"
)

// installBuiltins registers the introspection attributes shared by every
// attributable type. They are plain direct processors on table.
func installBuiltins(reg *registry.Registry, table *dispatch.AttributeTable) error {
	direct := func(fn func(v value.Value) value.Value) dispatch.AttributeProcessor {
		return dispatch.DirectAttribute(func(v value.Value, _ *chain.Chain) value.Value { return fn(v) })
	}

	return tableErrors(
		table.Register(direct(func(v value.Value) value.Value {
			return NewText(string(v.TypeID()))
		}), "type", "type_name"),
		table.Register(direct(func(v value.Value) value.Value {
			return NewText(plural(v.TypeID()))
		}), "type_plural"),
		table.Register(direct(func(v value.Value) value.Value {
			return v.Clone()
		}), "debug_clone"),
		table.Register(direct(func(value.Value) value.Value {
			return NewTextSet(table.Names()...)
		}), "attributes"),
		table.Register(direct(func(v value.Value) value.Value {
			_, ok := value.Downgrade(v)
			return NewBoolean(ok)
		}), "is_downgradeable"),
		table.Register(direct(func(v value.Value) value.Value {
			general, ok := value.Downgrade(v)
			if !ok {
				return nil
			}
			return general
		}), "downgrade"),
		table.Register(direct(func(v value.Value) value.Value {
			_, ok := reg.ModifierTableFor(v.TypeID())
			return NewBoolean(ok)
		}), "is_modifiable"),
		table.Register(direct(func(v value.Value) value.Value {
			mods, ok := reg.ModifierTableFor(v.TypeID())
			if !ok {
				return NewTextSet()
			}
			return NewTextSet(mods.Names()...)
		}), "modifiers"),
	)
}

func plural(id value.TypeID) string {
	s := string(id)
	switch {
	case s == "":
		return s
	case s[len(s)-1] == 's' || s[len(s)-1] == 'x':
		return s + "es"
	default:
		return s + "s"
	}
}
