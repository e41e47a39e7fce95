package registry_test

import (
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/tagscript/internal/dispatch"
	"github.com/vk/tagscript/internal/registry"
	"github.com/vk/tagscript/internal/value"
)

type num int

func (n num) TypeID() value.TypeID { return "num" }
func (n num) String() string       { return strconv.Itoa(int(n)) }
func (n num) Clone() value.Value   { return n }

type word string

func (w word) TypeID() value.TypeID { return "word" }
func (w word) String() string       { return string(w) }
func (w word) Clone() value.Value   { return w }

func constructNum(text string) (value.Value, bool) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return nil, false
	}
	return num(n), true
}

func matchNum(text string) bool {
	_, err := strconv.Atoi(text)
	return err == nil
}

func constructWord(text string) (value.Value, bool) { return word(text), true }
func matchAny(string) bool                           { return true }

func TestRegister_Capabilities(t *testing.T) {
	attrs := dispatch.NewAttributeTable("num")
	mods := dispatch.NewModifierTable("num")

	t.Run("Identical capability is rejected", func(t *testing.T) {
		reg := registry.New()
		require.NoError(t, reg.RegisterPlain("num", constructNum, matchNum))
		err := reg.RegisterPlain("num", constructNum, matchNum)
		require.Error(t, err)
		assert.True(t, errors.Is(err, registry.ErrAlreadyRegistered))

		var regErr *registry.RegistrationError
		require.ErrorAs(t, err, &regErr)
		assert.Equal(t, registry.Plain, regErr.Have)
		assert.Equal(t, registry.Plain, regErr.Want)
	})

	t.Run("Strictly greater capability upgrades", func(t *testing.T) {
		reg := registry.New()
		require.NoError(t, reg.RegisterPlain("num", constructNum, matchNum))
		require.NoError(t, reg.RegisterAttributable("num", constructNum, matchNum, attrs))
		require.NoError(t, reg.RegisterBoth("num", constructNum, matchNum, attrs, mods))

		capability, err := reg.Capability("num")
		require.NoError(t, err)
		assert.Equal(t, registry.Both, capability)
		assert.Equal(t, []value.TypeID{"num"}, reg.Types(), "an override keeps the original position")

		got, ok := reg.ModifierTableFor("num")
		require.True(t, ok)
		assert.Same(t, mods, got)
	})

	t.Run("Downgrade is rejected", func(t *testing.T) {
		reg := registry.New()
		require.NoError(t, reg.RegisterBoth("num", constructNum, matchNum, attrs, mods))
		err := reg.RegisterAttributable("num", constructNum, matchNum, attrs)
		assert.True(t, errors.Is(err, registry.ErrAlreadyRegistered))
		err = reg.RegisterPlain("num", constructNum, matchNum)
		assert.True(t, errors.Is(err, registry.ErrAlreadyRegistered))
	})

	t.Run("Incomparable capability is rejected", func(t *testing.T) {
		reg := registry.New()
		require.NoError(t, reg.RegisterModifiable("num", constructNum, matchNum, mods))
		err := reg.RegisterAttributable("num", constructNum, matchNum, attrs)
		assert.True(t, errors.Is(err, registry.ErrAlreadyRegistered))
		require.NoError(t, reg.RegisterBoth("num", constructNum, matchNum, attrs, mods))
	})

	t.Run("Missing tables", func(t *testing.T) {
		reg := registry.New()
		assert.True(t, errors.Is(reg.RegisterAttributable("num", constructNum, matchNum, nil), registry.ErrMissingHandler))
		assert.True(t, errors.Is(reg.RegisterModifiable("num", constructNum, matchNum, nil), registry.ErrMissingHandler))
		assert.True(t, errors.Is(reg.RegisterBoth("num", constructNum, matchNum, attrs, nil), registry.ErrMissingHandler))
		assert.True(t, errors.Is(reg.RegisterBoth("num", constructNum, matchNum, nil, mods), registry.ErrMissingHandler))
		assert.True(t, errors.Is(reg.RegisterPlain("num", nil, matchNum), registry.ErrMissingHandler))
		assert.True(t, errors.Is(reg.RegisterPlain("num", constructNum, nil), registry.ErrMissingHandler))
		assert.True(t, errors.Is(reg.RegisterPlain("", constructNum, matchNum), registry.ErrMissingHandler))
		assert.Empty(t, reg.Types())
	})
}

func TestCapability_StrictlyAdds(t *testing.T) {
	tests := []struct {
		next, old registry.Capability
		want      bool
	}{
		{registry.Attributable, registry.Plain, true},
		{registry.Modifiable, registry.Plain, true},
		{registry.Both, registry.Plain, true},
		{registry.Both, registry.Attributable, true},
		{registry.Both, registry.Modifiable, true},
		{registry.Plain, registry.Plain, false},
		{registry.Attributable, registry.Modifiable, false},
		{registry.Modifiable, registry.Attributable, false},
		{registry.Attributable, registry.Both, false},
		{registry.Both, registry.Both, false},
	}
	for _, tc := range tests {
		t.Run(tc.next.String()+"_over_"+tc.old.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.next.StrictlyAdds(tc.old))
		})
	}
}

func TestQueries(t *testing.T) {
	reg := registry.New()
	attrs := dispatch.NewAttributeTable("word")
	require.NoError(t, reg.RegisterAttributable("word", constructWord, matchAny, attrs))
	require.NoError(t, reg.RegisterPlain("num", constructNum, matchNum))

	v, ok := reg.Construct("num", "12")
	require.True(t, ok)
	assert.Equal(t, num(12), v)

	_, ok = reg.Construct("num", "twelve")
	assert.False(t, ok)
	_, ok = reg.Construct("missing", "12")
	assert.False(t, ok)

	assert.True(t, reg.Matches("num", "7"))
	assert.False(t, reg.Matches("num", "x"))
	assert.False(t, reg.Matches("missing", "7"))

	table, ok := reg.AttributeTableFor("word")
	require.True(t, ok)
	assert.Same(t, attrs, table)
	_, ok = reg.AttributeTableFor("num")
	assert.False(t, ok)
	_, ok = reg.ModifierTableFor("word")
	assert.False(t, ok)
	_, ok = reg.AttributeTableFor("missing")
	assert.False(t, ok)

	_, err := reg.Capability("missing")
	assert.True(t, errors.Is(err, registry.ErrUnknownType))
}

func TestInfer(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.RegisterPlain("num", constructNum, matchNum))
	require.NoError(t, reg.RegisterPlain("word", constructWord, matchAny))

	v, ok := reg.Infer("42")
	require.True(t, ok)
	assert.Equal(t, value.TypeID("num"), v.TypeID())

	v, ok = reg.Infer("hello")
	require.True(t, ok)
	assert.Equal(t, value.TypeID("word"), v.TypeID())

	v, ok = reg.Infer("42")
	require.True(t, ok, "a cached selection still constructs")
	assert.Equal(t, num(42), v)

	empty := registry.New()
	_, ok = empty.Infer("x")
	assert.False(t, ok)
}

func TestInfer_CacheInvalidatedOnRegistration(t *testing.T) {
	reg := registry.New()
	_, ok := reg.Infer("5")
	assert.False(t, ok)

	require.NoError(t, reg.RegisterPlain("num", constructNum, matchNum))
	v, ok := reg.Infer("5")
	require.True(t, ok)
	assert.Equal(t, num(5), v)
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.RegisterPlain("num", constructNum, matchNum))
	require.NoError(t, reg.RegisterAttributable("word", constructWord, matchAny, dispatch.NewAttributeTable("word")))

	var wg sync.WaitGroup
	numGoroutines := 100
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			v, ok := reg.Infer(strconv.Itoa(i))
			assert.True(t, ok)
			assert.Equal(t, num(i), v)
			_, ok = reg.AttributeTableFor("word")
			assert.True(t, ok)
		}(i)
	}
	wg.Wait()
}

func TestDefault(t *testing.T) {
	assert.Same(t, registry.Default(), registry.Default())
}
