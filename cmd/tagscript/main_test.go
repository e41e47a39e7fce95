package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_Expression(t *testing.T) {
	out := &bytes.Buffer{}

	err := run(strings.NewReader(""), out, &bytes.Buffer{}, []string{"-value", "abc", "length"})

	require.NoError(t, err)
	require.Equal(t, "3\n", out.String())
}

func TestRun_StartupError(t *testing.T) {
	invalidHCL := `
		alias "shout" {
			type = "text"
		// Missing closing brace here
	`
	filePath := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0600), "failed to set up test file")

	err := run(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{}, []string{"-config", filePath, "length"})

	require.Error(t, err)
	require.Contains(t, err.Error(), "startup failed")
	require.Contains(t, err.Error(), "failed to parse")
}

func TestRun_ShouldExit(t *testing.T) {
	out := &bytes.Buffer{}

	err := run(strings.NewReader(""), out, &bytes.Buffer{}, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	err := run(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_Interactive(t *testing.T) {
	out := &bytes.Buffer{}

	err := run(strings.NewReader("to_uppercase\n:quit\n"), out, &bytes.Buffer{}, []string{"-value", "hey", "-i"})

	require.NoError(t, err)
	require.Equal(t, "HEY (text)\n", out.String())
}
