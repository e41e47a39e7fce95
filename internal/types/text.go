package types

import (
	"strings"
	"unicode/utf8"

	"github.com/vk/tagscript/internal/chain"
	"github.com/vk/tagscript/internal/dispatch"
	"github.com/vk/tagscript/internal/registry"
	"github.com/vk/tagscript/internal/value"
)

// Text is a mutable string value.
type Text struct {
	s string
}

// NewText creates a text value.
func NewText(s string) *Text { return &Text{s: s} }

func (t *Text) TypeID() value.TypeID { return TextID }
func (t *Text) String() string       { return t.s }
func (t *Text) Clone() value.Value   { return &Text{s: t.s} }

// Value returns the underlying string.
func (t *Text) Value() string { return t.s }

func registerText(reg *registry.Registry) error {
	attrs := dispatch.NewAttributeTable(TextID)
	mods := dispatch.NewModifierTable(TextID)

	text := func(fn func(t *Text, c *chain.Chain) value.Value) dispatch.AttributeFunc {
		return func(v value.Value, c *chain.Chain) value.Value {
			t, ok := v.(*Text)
			if !ok {
				return nil
			}
			return fn(t, c)
		}
	}
	predicate := func(test func(s, sub string) bool) dispatch.AttributeFunc {
		return text(func(t *Text, c *chain.Chain) value.Value {
			sub, ok := rawText(c)
			if !ok {
				return nil
			}
			return NewBoolean(test(t.s, sub))
		})
	}

	err := tableErrors(
		attrs.Register(dispatch.DirectAttribute(text(func(t *Text, _ *chain.Chain) value.Value {
			return NewInteger(int64(utf8.RuneCountInString(t.s)))
		})), "length"),
		attrs.Register(dispatch.DirectAttribute(text(func(t *Text, _ *chain.Chain) value.Value {
			return NewBoolean(t.s == "")
		})), "is_empty", "isEmpty"),
		attrs.Register(dispatch.DirectAttribute(text(func(t *Text, c *chain.Chain) value.Value {
			return substring(reg, t, c)
		})), "substring", "substr"),
		attrs.Register(dispatch.DirectAttribute(text(func(t *Text, _ *chain.Chain) value.Value {
			return NewText(strings.ToUpper(t.s))
		})), "to_uppercase", "toUppercase"),
		attrs.Register(dispatch.DirectAttribute(text(func(t *Text, _ *chain.Chain) value.Value {
			return NewText(strings.ToLower(t.s))
		})), "to_lowercase", "toLowercase"),
		attrs.Register(dispatch.DirectAttribute(predicate(strings.Contains)), "contains"),
		attrs.Register(dispatch.DirectAttribute(predicate(strings.HasPrefix)), "starts_with"),
		attrs.Register(dispatch.DirectAttribute(predicate(strings.HasSuffix)), "ends_with"),

		mods.Register(textModifier(func(t *Text, m dispatch.Modifier) bool {
			if !m.HasArg {
				return false
			}
			t.s += m.Arg
			return true
		}), "append"),
		mods.Register(textModifier(func(t *Text, m dispatch.Modifier) bool {
			if !m.HasArg {
				return false
			}
			t.s = m.Arg + t.s
			return true
		}), "prepend"),
		mods.Register(textModifier(func(t *Text, m dispatch.Modifier) bool {
			t.s = m.Arg
			return true
		}), "set"),
		mods.Register(textModifier(func(t *Text, _ dispatch.Modifier) bool {
			t.s = ""
			return true
		}), "clear"),
		installBuiltins(reg, attrs),
	)
	if err != nil {
		return err
	}

	construct := func(s string) (value.Value, bool) { return NewText(s), true }
	return reg.RegisterBoth(TextID, construct, matchAny, attrs, mods)
}

func textModifier(fn func(t *Text, m dispatch.Modifier) bool) dispatch.ModifierFunc {
	return func(v value.Value, m dispatch.Modifier) bool {
		t, ok := v.(*Text)
		if !ok {
			return false
		}
		return fn(t, m)
	}
}

// substring takes either a raw start index, substring(2), or keyed bounds,
// substring(start=1;end=3). Indices count runes; end is exclusive.
func substring(reg *registry.Registry, t *Text, c *chain.Chain) value.Value {
	runes := []rune(t.s)
	start, end := int64(0), int64(len(runes))

	seg := c.Current()
	if seg == nil || !seg.HasContext() {
		return nil
	}
	if seg.IsKeyed() {
		bound := func(key string, dst *int64) bool {
			if _, present := seg.Key(key); !present {
				return true
			}
			n, ok := asInt64(keyAs(reg, c, key, IntegerID))
			*dst = n
			return ok
		}
		if !bound("start", &start) || !bound("end", &end) {
			return nil
		}
	} else {
		n, ok := asInt64(contextAs(reg, c, IntegerID))
		if !ok {
			return nil
		}
		start = n
	}

	if start < 0 || end > int64(len(runes)) || start > end {
		return nil
	}
	return NewText(string(runes[start:end]))
}
