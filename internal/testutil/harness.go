// Package testutil holds helpers shared by the package tests: a registry
// and runtime preloaded with the built-in types, a diagnostics recorder,
// and resolution assertions.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/tagscript/internal/registry"
	"github.com/vk/tagscript/internal/script"
	"github.com/vk/tagscript/internal/types"
)

// NewRegistry returns a fresh registry with every built-in type registered.
func NewRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	require.NoError(t, types.RegisterAll(reg))
	return reg
}

// NewRuntime returns a runtime over NewRegistry.
func NewRuntime(t *testing.T) *script.Runtime {
	t.Helper()
	return script.New(NewRegistry(t))
}
