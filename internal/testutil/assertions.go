package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/tagscript/internal/script"
	"github.com/vk/tagscript/internal/value"
)

// AssertResolves resolves expr against start and checks the type and
// string form of the result.
func AssertResolves(t *testing.T, rt *script.Runtime, start value.Value, expr string, wantType value.TypeID, want string) {
	t.Helper()

	got, err := rt.Resolve(context.Background(), expr, start)
	require.NoError(t, err, "resolving %q against %q", expr, start.String())
	require.Equal(t, wantType, got.TypeID(), "type of %q", expr)
	require.Equal(t, want, got.String(), "value of %q", expr)
}
