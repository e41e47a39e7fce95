package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vk/tagscript/internal/value"
)

type plain struct{ s string }

func (p *plain) TypeID() value.TypeID { return "plain" }
func (p *plain) String() string       { return p.s }
func (p *plain) Clone() value.Value   { return &plain{s: p.s} }

type short struct{ plain }

func (s *short) SimpleString() string { return "short" }

type lowered struct {
	plain
	to value.Value
}

func (l *lowered) AsGeneral() (value.Value, bool) { return l.to, l.to != nil }

func TestSimpleString(t *testing.T) {
	assert.Equal(t, "abc", value.SimpleString(&plain{s: "abc"}))
	assert.Equal(t, "short", value.SimpleString(&short{plain{s: "abc"}}))
	assert.Equal(t, "", value.SimpleString(nil))
}

func TestDowngrade(t *testing.T) {
	_, ok := value.Downgrade(&plain{s: "x"})
	assert.False(t, ok)

	_, ok = value.Downgrade(&lowered{plain: plain{s: "x"}})
	assert.False(t, ok, "a downgrader returning nothing is not downgradeable")

	target := &plain{s: "general"}
	got, ok := value.Downgrade(&lowered{plain: plain{s: "x"}, to: target})
	assert.True(t, ok)
	assert.Same(t, target, got)
}
