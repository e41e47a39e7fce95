package types

import (
	"strconv"

	"github.com/vk/tagscript/internal/chain"
	"github.com/vk/tagscript/internal/dispatch"
	"github.com/vk/tagscript/internal/registry"
	"github.com/vk/tagscript/internal/value"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Boolean is a truth value.
type Boolean struct {
	b bool
}

// NewBoolean creates a boolean value.
func NewBoolean(b bool) *Boolean { return &Boolean{b: b} }

func (b *Boolean) TypeID() value.TypeID { return BooleanID }
func (b *Boolean) String() string       { return strconv.FormatBool(b.b) }
func (b *Boolean) Clone() value.Value   { return &Boolean{b: b.b} }

// Bool returns the underlying truth value.
func (b *Boolean) Bool() bool { return b.b }

// AsGeneral presents the boolean as text.
func (b *Boolean) AsGeneral() (value.Value, bool) {
	return NewText(b.String()), true
}

// parseBoolean accepts the lowercase literals cty converts to bool, plus
// "1" and "0".
func parseBoolean(text string) (bool, bool) {
	switch text {
	case "1":
		return true, true
	case "0":
		return false, true
	}
	v, err := convert.Convert(cty.StringVal(text), cty.Bool)
	if err != nil || v.IsNull() || !v.IsKnown() {
		return false, false
	}
	return v.True(), true
}

// matchBoolean only claims the literals; "1" and "0" infer as integers.
func matchBoolean(text string) bool {
	return text == "true" || text == "false"
}

func registerBoolean(reg *registry.Registry) error {
	attrs := dispatch.NewAttributeTable(BooleanID)

	binary := func(fn func(a, b bool) bool) dispatch.AttributeProcessor {
		return dispatch.DirectAttribute(func(v value.Value, c *chain.Chain) value.Value {
			a, ok := v.(*Boolean)
			if !ok {
				return nil
			}
			arg, ok := contextAs(reg, c, BooleanID)
			if !ok {
				return nil
			}
			b, ok := arg.(*Boolean)
			if !ok {
				return nil
			}
			return NewBoolean(fn(a.b, b.b))
		})
	}

	err := tableErrors(
		attrs.Register(dispatch.DirectAttribute(func(v value.Value, _ *chain.Chain) value.Value {
			b, ok := v.(*Boolean)
			if !ok {
				return nil
			}
			return NewBoolean(!b.b)
		}), "not"),
		attrs.Register(binary(func(a, b bool) bool { return a && b }), "and"),
		attrs.Register(binary(func(a, b bool) bool { return a || b }), "or"),
		installBuiltins(reg, attrs),
	)
	if err != nil {
		return err
	}

	construct := func(s string) (value.Value, bool) {
		b, ok := parseBoolean(s)
		if !ok {
			return nil, false
		}
		return NewBoolean(b), true
	}
	return reg.RegisterAttributable(BooleanID, construct, matchBoolean, attrs)
}
