package types

import (
	"unicode"
	"unicode/utf8"

	"github.com/vk/tagscript/internal/chain"
	"github.com/vk/tagscript/internal/dispatch"
	"github.com/vk/tagscript/internal/registry"
	"github.com/vk/tagscript/internal/value"
)

// Char is a single Unicode code point.
type Char struct {
	r rune
}

// NewChar creates a char value.
func NewChar(r rune) *Char { return &Char{r: r} }

func (c *Char) TypeID() value.TypeID { return CharID }
func (c *Char) String() string       { return string(c.r) }
func (c *Char) Clone() value.Value   { return &Char{r: c.r} }

// Rune returns the code point.
func (c *Char) Rune() rune { return c.r }

// AsGeneral presents the char as a one-character text.
func (c *Char) AsGeneral() (value.Value, bool) {
	return NewText(string(c.r)), true
}

func matchChar(text string) bool {
	return utf8.RuneCountInString(text) == 1 && utf8.ValidString(text)
}

func registerChar(reg *registry.Registry) error {
	attrs := dispatch.NewAttributeTable(CharID)

	char := func(fn func(r rune) value.Value) dispatch.AttributeProcessor {
		return dispatch.DirectAttribute(func(v value.Value, _ *chain.Chain) value.Value {
			ch, ok := v.(*Char)
			if !ok {
				return nil
			}
			return fn(ch.r)
		})
	}

	err := tableErrors(
		attrs.Register(char(func(r rune) value.Value { return NewBoolean(unicode.IsLetter(r)) }), "is_letter"),
		attrs.Register(char(func(r rune) value.Value { return NewBoolean(unicode.IsDigit(r)) }), "is_digit"),
		attrs.Register(char(func(r rune) value.Value { return NewChar(unicode.ToUpper(r)) }), "to_uppercase"),
		attrs.Register(char(func(r rune) value.Value { return NewChar(unicode.ToLower(r)) }), "to_lowercase"),
		attrs.Register(char(func(r rune) value.Value { return NewInteger(int64(r)) }), "code"),
		installBuiltins(reg, attrs),
	)
	if err != nil {
		return err
	}

	construct := func(s string) (value.Value, bool) {
		if !matchChar(s) {
			return nil, false
		}
		r, _ := utf8.DecodeRuneInString(s)
		return NewChar(r), true
	}
	return reg.RegisterAttributable(CharID, construct, matchChar, attrs)
}
