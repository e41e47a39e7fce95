package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/tagscript/internal/cli"
)

func TestParse(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, shouldExit, err := cli.Parse([]string{
		"-type", "text",
		"-value", "abc",
		"-modify", "append:d",
		"-modify", "prepend:>",
		"-config", "a.hcl",
		"-config", "conf.d",
		"-log-level", "DEBUG",
		"-log-format", "json",
		"length",
	}, out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, "length", cfg.Expression)
	assert.Equal(t, "text", cfg.TypeID)
	assert.Equal(t, "abc", cfg.Value)
	assert.Equal(t, []string{"append:d", "prepend:>"}, cfg.Modifiers)
	assert.Equal(t, []string{"a.hcl", "conf.d"}, cfg.ConfigPaths)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.Interactive)
}

func TestParse_Defaults(t *testing.T) {
	cfg, _, err := cli.Parse([]string{"-i"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.True(t, cfg.Interactive)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestParse_ShouldExit(t *testing.T) {
	for name, args := range map[string][]string{
		"help":           {"-h"},
		"nothing to run": {"-value", "abc"},
	} {
		t.Run(name, func(t *testing.T) {
			out := &bytes.Buffer{}
			cfg, shouldExit, err := cli.Parse(args, out)
			require.NoError(t, err)
			assert.True(t, shouldExit)
			assert.Nil(t, cfg)
			assert.Contains(t, out.String(), "Usage:")
		})
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"-nope"}, "flag provided but not defined"},
		{"too many arguments", []string{"a", "b"}, "at most one expression"},
		{"bad log format", []string{"-log-format", "xml", "length"}, "invalid log-format"},
		{"bad log level", []string{"-log-level", "loud", "length"}, "invalid log-level"},
		{"bad modifier", []string{"-modify", ":x", "length"}, "invalid modifier instruction"},
		{"preset with value", []string{"-preset", "p", "-value", "v"}, "cannot be combined"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := cli.Parse(tc.args, &bytes.Buffer{})
			require.Error(t, err)

			var exitErr *cli.ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}
