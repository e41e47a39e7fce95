package types

import (
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/vk/tagscript/internal/chain"
	"github.com/vk/tagscript/internal/dispatch"
	"github.com/vk/tagscript/internal/registry"
	"github.com/vk/tagscript/internal/value"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Integer is a 64-bit signed integer. It downgrades to a Number, so any
// attribute an integer lacks, or cannot compute without overflowing, is
// retried with arbitrary precision.
type Integer struct {
	n int64
}

// NewInteger creates an integer value.
func NewInteger(n int64) *Integer { return &Integer{n: n} }

func (i *Integer) TypeID() value.TypeID { return IntegerID }
func (i *Integer) String() string       { return strconv.FormatInt(i.n, 10) }
func (i *Integer) Clone() value.Value   { return &Integer{n: i.n} }

// Int64 returns the underlying integer.
func (i *Integer) Int64() int64 { return i.n }

// AsGeneral presents the integer as a number.
func (i *Integer) AsGeneral() (value.Value, bool) {
	return &Number{v: cty.NumberIntVal(i.n)}, true
}

// parseInteger goes through cty so that the decoding into int64 rejects
// overflow the same way numeric HCL attributes do.
func parseInteger(text string) (int64, bool) {
	if !integerPattern.MatchString(text) {
		return 0, false
	}
	num, err := convert.Convert(cty.StringVal(text), cty.Number)
	if err != nil {
		return 0, false
	}
	var n int64
	if err := gocty.FromCtyValue(num, &n); err != nil {
		return 0, false
	}
	return n, true
}

func asInt64(v value.Value, ok bool) (int64, bool) {
	if !ok {
		return 0, false
	}
	i, ok := v.(*Integer)
	if !ok {
		return 0, false
	}
	return i.n, true
}

func registerInteger(reg *registry.Registry) error {
	attrs := dispatch.NewAttributeTable(IntegerID)

	unary := func(fn func(n int64) value.Value) dispatch.AttributeProcessor {
		return dispatch.DirectAttribute(func(v value.Value, _ *chain.Chain) value.Value {
			i, ok := v.(*Integer)
			if !ok {
				return nil
			}
			return fn(i.n)
		})
	}
	binary := func(fn func(a, b int64) (int64, bool)) dispatch.AttributeProcessor {
		return dispatch.DirectAttribute(func(v value.Value, c *chain.Chain) value.Value {
			i, ok := v.(*Integer)
			if !ok {
				return nil
			}
			b, ok := asInt64(contextAs(reg, c, IntegerID))
			if !ok {
				return nil
			}
			r, ok := fn(i.n, b)
			if !ok {
				return nil
			}
			return NewInteger(r)
		})
	}

	err := tableErrors(
		attrs.Register(unary(func(n int64) value.Value {
			if n == math.MinInt64 {
				return nil
			}
			if n < 0 {
				n = -n
			}
			return NewInteger(n)
		}), "abs"),
		attrs.Register(unary(func(n int64) value.Value {
			if n == math.MinInt64 {
				return nil
			}
			return NewInteger(-n)
		}), "negate"),
		attrs.Register(unary(func(n int64) value.Value { return NewBoolean(n%2 == 0) }), "is_even"),
		attrs.Register(unary(func(n int64) value.Value { return NewBoolean(n%2 != 0) }), "is_odd"),
		attrs.Register(unary(func(n int64) value.Value {
			if n < 0 || n > math.MaxInt32 || !utf8.ValidRune(rune(n)) {
				return nil
			}
			return NewChar(rune(n))
		}), "to_char"),
		attrs.Register(binary(addInt64), "add"),
		attrs.Register(binary(func(a, b int64) (int64, bool) {
			if b == math.MinInt64 {
				return 0, false
			}
			return addInt64(a, -b)
		}), "sub"),
		attrs.Register(binary(mulInt64), "mul"),
		installBuiltins(reg, attrs),
	)
	if err != nil {
		return err
	}

	construct := func(s string) (value.Value, bool) {
		n, ok := parseInteger(s)
		if !ok {
			return nil, false
		}
		return NewInteger(n), true
	}
	return reg.RegisterAttributable(IntegerID, construct, integerPattern.MatchString, attrs)
}

func addInt64(a, b int64) (int64, bool) {
	s := a + b
	if (a > 0 && b > 0 && s < 0) || (a < 0 && b < 0 && s >= 0) {
		return 0, false
	}
	return s, true
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	p := a * b
	if p/b != a {
		return 0, false
	}
	return p, true
}
