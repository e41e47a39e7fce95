package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/tagscript/internal/chain"
	"github.com/vk/tagscript/internal/config"
)

func TestAlias_Validate(t *testing.T) {
	valid := config.Alias{Name: "shout", TypeID: "text", Expand: "to_uppercase", Mode: config.ModeRegister}
	require.NoError(t, valid.Validate())

	testCases := []struct {
		name   string
		mutate func(a *config.Alias)
		want   string
	}{
		{"bad name", func(a *config.Alias) { a.Name = "a.b" }, "invalid attribute name"},
		{"no type", func(a *config.Alias) { a.TypeID = "" }, "type is required"},
		{"bad mode", func(a *config.Alias) { a.Mode = "replace" }, "invalid mode"},
		{"bad expansion", func(a *config.Alias) { a.Expand = "a..b" }, "invalid expansion"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := valid
			tc.mutate(&a)
			err := a.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestAlias_ValidateWrapsSyntaxError(t *testing.T) {
	a := config.Alias{Name: "x", TypeID: "text", Expand: "(", Mode: config.ModeExtend}
	require.ErrorIs(t, a.Validate(), chain.ErrSyntax)
}

func TestModel_Validate(t *testing.T) {
	m := config.NewModel()
	m.Aliases = append(m.Aliases,
		&config.Alias{Name: "ok", TypeID: "text", Expand: "length", Mode: config.ModeRegister},
		&config.Alias{Name: "", TypeID: "text", Expand: "length", Mode: config.ModeRegister},
	)
	m.Presets["answer"] = &config.Preset{Name: "answer", TypeID: "integer", Value: "42"}
	m.Presets["other"] = &config.Preset{Name: "mismatch", Value: "x"}

	err := m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid attribute name")
	assert.Contains(t, err.Error(), "stored under key")
}
