package types

import (
	"math/big"
	"strings"

	"github.com/vk/tagscript/internal/chain"
	"github.com/vk/tagscript/internal/dispatch"
	"github.com/vk/tagscript/internal/registry"
	"github.com/vk/tagscript/internal/value"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Number is an arbitrary precision number backed by cty.Number.
type Number struct {
	v cty.Value
}

// NewNumber wraps a known, non-null cty.Number value.
func NewNumber(v cty.Value) *Number { return &Number{v: v} }

// NewNumberFromFloat creates a number from a float64.
func NewNumberFromFloat(f float64) *Number { return &Number{v: cty.NumberFloatVal(f)} }

func (n *Number) TypeID() value.TypeID { return NumberID }
func (n *Number) Clone() value.Value   { return &Number{v: n.v} }

// String renders the number the way cty converts numbers to strings.
func (n *Number) String() string {
	s, err := convert.Convert(n.v, cty.String)
	if err != nil {
		return n.v.AsBigFloat().String()
	}
	return s.AsString()
}

// Cty returns the underlying cty value.
func (n *Number) Cty() cty.Value { return n.v }

// BigFloat returns a copy of the number as a big.Float.
func (n *Number) BigFloat() *big.Float { return n.v.AsBigFloat() }

// AsGeneral presents the number as text.
func (n *Number) AsGeneral() (value.Value, bool) {
	return NewText(n.String()), true
}

// maxBinaryExponent bounds the magnitude of every number, roughly 1e±1233.
// Rendering writes out every digit, so an unbounded exponent makes a short
// literal like 1e50000000 expensive to print.
const maxBinaryExponent = 4096

// inRange reports whether v is within the representable magnitude.
func inRange(v cty.Value) bool {
	e := v.AsBigFloat().MantExp(nil)
	return e <= maxBinaryExponent && e >= -maxBinaryExponent
}

func parseNumber(text string) (cty.Value, bool) {
	m := numberPattern.FindStringSubmatch(text)
	if m == nil {
		return cty.NilVal, false
	}
	if exp := strings.TrimLeft(strings.TrimLeft(m[2], "eE+-"), "0"); len(exp) > 5 {
		return cty.NilVal, false
	}
	v, err := convert.Convert(cty.StringVal(text), cty.Number)
	if err != nil || v.IsNull() || !v.IsKnown() || !inRange(v) {
		return cty.NilVal, false
	}
	return v, true
}

func registerNumber(reg *registry.Registry) error {
	attrs := dispatch.NewAttributeTable(NumberID)

	unary := func(fn func(v cty.Value) value.Value) dispatch.AttributeProcessor {
		return dispatch.DirectAttribute(func(v value.Value, _ *chain.Chain) value.Value {
			n, ok := v.(*Number)
			if !ok {
				return nil
			}
			return fn(n.v)
		})
	}
	binary := func(fn func(a, b cty.Value) (cty.Value, bool)) dispatch.AttributeProcessor {
		return dispatch.DirectAttribute(func(v value.Value, c *chain.Chain) value.Value {
			n, ok := v.(*Number)
			if !ok {
				return nil
			}
			arg, ok := contextAs(reg, c, NumberID)
			if !ok {
				return nil
			}
			b, ok := arg.(*Number)
			if !ok {
				return nil
			}
			r, ok := fn(n.v, b.v)
			if !ok || !inRange(r) {
				return nil
			}
			return &Number{v: r}
		})
	}
	rounding := func(fn func(f *big.Float) *big.Float) dispatch.AttributeProcessor {
		return unary(func(v cty.Value) value.Value {
			f := v.AsBigFloat()
			if f.IsInf() {
				return &Number{v: v}
			}
			return &Number{v: cty.NumberVal(fn(f))}
		})
	}

	err := tableErrors(
		attrs.Register(unary(func(v cty.Value) value.Value { return &Number{v: v.Absolute()} }), "abs"),
		attrs.Register(unary(func(v cty.Value) value.Value { return &Number{v: v.Negate()} }), "negate"),
		attrs.Register(unary(func(v cty.Value) value.Value { return NewBoolean(v.AsBigFloat().IsInt()) }), "is_integer"),
		attrs.Register(rounding(floorFloat), "floor"),
		attrs.Register(rounding(ceilFloat), "ceil"),
		attrs.Register(rounding(roundFloat), "round"),
		attrs.Register(binary(func(a, b cty.Value) (cty.Value, bool) { return a.Add(b), true }), "add"),
		attrs.Register(binary(func(a, b cty.Value) (cty.Value, bool) { return a.Subtract(b), true }), "sub"),
		attrs.Register(binary(func(a, b cty.Value) (cty.Value, bool) { return a.Multiply(b), true }), "mul"),
		attrs.Register(binary(func(a, b cty.Value) (cty.Value, bool) {
			if b.AsBigFloat().Sign() == 0 {
				return cty.NilVal, false
			}
			return a.Divide(b), true
		}), "div"),
		installBuiltins(reg, attrs),
	)
	if err != nil {
		return err
	}

	construct := func(s string) (value.Value, bool) {
		v, ok := parseNumber(s)
		if !ok {
			return nil, false
		}
		return &Number{v: v}, true
	}
	return reg.RegisterAttributable(NumberID, construct, numberPattern.MatchString, attrs)
}

// truncate rounds f toward zero and reports whether anything was dropped.
func truncate(f *big.Float) (*big.Float, bool) {
	i, acc := f.Int(nil)
	return new(big.Float).SetInt(i), acc != big.Exact
}

func floorFloat(f *big.Float) *big.Float {
	t, dropped := truncate(f)
	if dropped && f.Sign() < 0 {
		t.Sub(t, big.NewFloat(1))
	}
	return t
}

func ceilFloat(f *big.Float) *big.Float {
	t, dropped := truncate(f)
	if dropped && f.Sign() > 0 {
		t.Add(t, big.NewFloat(1))
	}
	return t
}

// roundFloat rounds half away from zero.
func roundFloat(f *big.Float) *big.Float {
	half := big.NewFloat(0.5)
	shifted := new(big.Float).SetPrec(f.Prec())
	if f.Sign() < 0 {
		shifted.Sub(f, half)
	} else {
		shifted.Add(f, half)
	}
	t, _ := truncate(shifted)
	return t
}
