package hcl_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/tagscript/internal/config"
	"github.com/vk/tagscript/internal/hcl"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "aliases.hcl", `
alias "shout" {
  type   = "text"
  expand = "to_uppercase"
}

alias "initial" {
  type   = "text"
  expand = "substring(end=1)"
  mode   = "extend"
}
`)
	writeFile(t, dir, "presets.hcl", `
preset "answer" {
  type  = "integer"
  value = 42
}

preset "greeting" {
  value = "hello"
}

preset "letters" {
  type  = "set"
  value = ["a", "b", "c"]
}

preset "flag" {
  value = true
}
`)
	writeFile(t, dir, "notes.txt", `not hcl`)

	model, err := hcl.NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, model.Aliases, 2)
	assert.Equal(t, &config.Alias{Name: "shout", TypeID: "text", Expand: "to_uppercase", Mode: config.ModeRegister}, model.Aliases[0])
	assert.Equal(t, config.ModeExtend, model.Aliases[1].Mode)

	require.Len(t, model.Presets, 4)
	assert.Equal(t, &config.Preset{Name: "answer", TypeID: "integer", Value: "42"}, model.Presets["answer"])
	assert.Equal(t, &config.Preset{Name: "greeting", Value: "hello"}, model.Presets["greeting"])
	assert.Equal(t, "[a|b|c]", model.Presets["letters"].Value)
	assert.Equal(t, "true", model.Presets["flag"].Value)
}

func TestLoader_LoadErrors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "syntax error",
			content: `alias "x" {`,
			want:    "failed to parse HCL file",
		},
		{
			name:    "missing required attribute",
			content: `
alias "x" {
  type = "text"
}
`,
			want:    "failed to decode HCL file",
		},
		{
			name:    "invalid mode",
			content: `
alias "x" {
  type   = "text"
  expand = "length"
  mode   = "replace"
}
`,
			want:    "invalid mode",
		},
		{
			name:    "invalid expansion",
			content: `
alias "x" {
  type   = "text"
  expand = "length."
}
`,
			want:    "invalid expansion",
		},
		{
			name:    "object preset",
			content: `
preset "x" {
  value = { a = 1 }
}
`,
			want:    "unsupported value",
		},
		{
			name: "duplicate preset",
			content: `
preset "x" {
  value = 1
}
preset "x" {
  value = 2
}
`,
			want: "duplicate preset",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.hcl", tc.content)
			_, err := hcl.NewLoader().Load(context.Background(), path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoader_NoFiles(t *testing.T) {
	model, err := hcl.NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, model.Aliases)
	assert.Empty(t, model.Presets)
}
