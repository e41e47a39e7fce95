package dispatch_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/tagscript/internal/chain"
	"github.com/vk/tagscript/internal/diag"
	"github.com/vk/tagscript/internal/dispatch"
	"github.com/vk/tagscript/internal/value"
)

type word struct{ s string }

func (w *word) TypeID() value.TypeID { return "word" }
func (w *word) String() string       { return w.s }
func (w *word) Clone() value.Value   { return &word{s: w.s} }

func constant(s string) dispatch.AttributeFunc {
	return func(value.Value, *chain.Chain) value.Value { return &word{s: s} }
}

func nothing(value.Value, *chain.Chain) value.Value { return nil }

func TestValidNames(t *testing.T) {
	got := dispatch.ValidNames("ok", "", "a.b", "a(b", "x=y", "semi;", `q"`, "it's", "<t>", `back\slash`, "is_empty")
	assert.Equal(t, []string{"ok", "is_empty"}, got)
}

func TestAttributeTable_Register(t *testing.T) {
	var mu sync.Mutex
	var events []diag.Event
	diag.SetHook(diag.HookFunc(func(e diag.Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	}))
	t.Cleanup(func() { diag.SetHook(nil) })

	table := dispatch.NewAttributeTable("word")
	require.NoError(t, table.Register(dispatch.DirectAttribute(constant("first")), "x", "alias"))
	require.NoError(t, table.Register(dispatch.DirectAttribute(constant("second")), "x", "y"))

	assert.Equal(t, []string{"alias", "x", "y"}, table.Names())
	assert.Equal(t, 3, table.Len())
	assert.True(t, table.Has("alias"))
	assert.Equal(t, value.TypeID("word"), table.TypeID())

	p, ok := table.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "first", p.Fn(&word{}, nil).String(), "a taken name keeps its first processor")

	mu.Lock()
	require.Len(t, events, 1)
	assert.Equal(t, diag.DuplicateName, events[0].Kind)
	assert.Equal(t, "x", events[0].Name)
	mu.Unlock()

	err := table.Register(dispatch.DirectAttribute(constant("z")), "", "bad.name")
	assert.True(t, errors.Is(err, dispatch.ErrNoValidNames))

	err = table.Register(dispatch.AttributeProcessor{}, "nilproc")
	assert.True(t, errors.Is(err, dispatch.ErrNilProcessor))
}

func TestAttributeTable_Extend(t *testing.T) {
	t.Run("New processor runs first", func(t *testing.T) {
		table := dispatch.NewAttributeTable("word")
		require.NoError(t, table.Register(dispatch.DirectAttribute(constant("A")), "x"))
		require.NoError(t, table.Extend(dispatch.DirectAttribute(constant("B")), "x"))

		p, _ := table.Lookup("x")
		assert.Equal(t, "B", p.Fn(&word{}, nil).String())
		assert.Equal(t, dispatch.Direct, p.Kind, "direct extending direct stays direct")
	})

	t.Run("Old processor is the fallback", func(t *testing.T) {
		table := dispatch.NewAttributeTable("word")
		require.NoError(t, table.Register(dispatch.DirectAttribute(constant("A")), "x"))
		require.NoError(t, table.Extend(dispatch.DirectAttribute(nothing), "x"))

		p, _ := table.Lookup("x")
		assert.Equal(t, "A", p.Fn(&word{}, nil).String())
		assert.Equal(t, dispatch.Direct, p.Kind)
	})

	t.Run("Cloning taints the composition", func(t *testing.T) {
		table := dispatch.NewAttributeTable("word")
		require.NoError(t, table.Register(dispatch.CloningAttribute(constant("A")), "x"))
		require.NoError(t, table.Extend(dispatch.DirectAttribute(nothing), "x"))
		p, _ := table.Lookup("x")
		assert.Equal(t, dispatch.Cloning, p.Kind)

		require.NoError(t, table.Register(dispatch.DirectAttribute(constant("A")), "y"))
		require.NoError(t, table.Extend(dispatch.CloningAttribute(nothing), "y"))
		p, _ = table.Lookup("y")
		assert.Equal(t, dispatch.Cloning, p.Kind)
		assert.Equal(t, "cloning", p.Kind.String())
	})

	t.Run("Extending an unknown name registers it", func(t *testing.T) {
		table := dispatch.NewAttributeTable("word")
		require.NoError(t, table.Extend(dispatch.CloningAttribute(constant("only")), "fresh"))
		p, ok := table.Lookup("fresh")
		require.True(t, ok)
		assert.Equal(t, dispatch.Cloning, p.Kind)
		assert.Equal(t, "only", p.Fn(&word{}, nil).String())
	})

	t.Run("Both yield nothing", func(t *testing.T) {
		table := dispatch.NewAttributeTable("word")
		require.NoError(t, table.Register(dispatch.DirectAttribute(nothing), "x"))
		require.NoError(t, table.Extend(dispatch.DirectAttribute(nothing), "x"))
		p, _ := table.Lookup("x")
		assert.Nil(t, p.Fn(&word{}, nil))
	})
}

func TestModifierTable(t *testing.T) {
	table := dispatch.NewModifierTable("word")
	var calls []string

	failing := func(v value.Value, m dispatch.Modifier) bool {
		calls = append(calls, "new")
		return false
	}
	appending := func(v value.Value, m dispatch.Modifier) bool {
		calls = append(calls, "old")
		w := v.(*word)
		w.s += m.Arg
		return true
	}

	require.NoError(t, table.Register(appending, "append"))
	require.NoError(t, table.Extend(failing, "append"))
	assert.True(t, table.Has("append"))
	assert.Equal(t, []string{"append"}, table.Names())

	fn, ok := table.Lookup("append")
	require.True(t, ok)
	w := &word{s: "ab"}
	assert.True(t, fn(w, dispatch.NewModifier("append").WithArg("c")))
	assert.Equal(t, "abc", w.s)
	assert.Equal(t, []string{"new", "old"}, calls)

	calls = nil
	require.NoError(t, table.Extend(func(value.Value, dispatch.Modifier) bool {
		calls = append(calls, "newest")
		return true
	}, "append"))
	fn, _ = table.Lookup("append")
	assert.True(t, fn(w, dispatch.NewModifier("append")))
	assert.Equal(t, []string{"newest"}, calls, "a succeeding processor short-circuits the fallbacks")

	assert.True(t, errors.Is(table.Register(nil, "x"), dispatch.ErrNilProcessor))
	assert.True(t, errors.Is(table.Register(appending), dispatch.ErrNoValidNames))
}

func TestModifier(t *testing.T) {
	m := dispatch.NewModifier("set")
	assert.Equal(t, "set", m.String())
	assert.False(t, m.HasArg)
	_, ok := m.ArgAs("word", nil)
	assert.False(t, ok)

	m = m.WithArg("v")
	assert.Equal(t, "set:v", m.String())
	assert.True(t, m.HasArg)
}
