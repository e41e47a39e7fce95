// Package modifier implements the modifier dispatch engine, the mutating
// counterpart of package attribute: it applies a single named operation to
// a value in place.
package modifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/tagscript/internal/ctxlog"
	"github.com/vk/tagscript/internal/diag"
	"github.com/vk/tagscript/internal/dispatch"
	"github.com/vk/tagscript/internal/value"
)

var (
	// ErrUnknownModifier means the value's type has no modifier by that name.
	ErrUnknownModifier = errors.New("unknown modifier")
	// ErrRejected means the modifier processor reported failure.
	ErrRejected = errors.New("modifier rejected")
	// ErrNilValue is returned when a modifier is applied to a nil value.
	ErrNilValue = errors.New("cannot modify a nil value")
)

// Error describes a failed modifier application.
type Error struct {
	Name   string
	TypeID value.TypeID
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("modifier %q on type %q: %v", e.Name, e.TypeID, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Tables locates the modifier table of a type. The type registry
// satisfies it.
type Tables interface {
	ModifierTableFor(id value.TypeID) (*dispatch.ModifierTable, bool)
}

// Engine applies modifiers.
type Engine struct {
	tables Tables
}

// NewEngine creates an engine reading dispatch tables from tables.
func NewEngine(tables Tables) *Engine {
	return &Engine{tables: tables}
}

// Apply looks up m.Name on v's type and runs it with mutable access to v.
func (e *Engine) Apply(ctx context.Context, v value.Value, m dispatch.Modifier) error {
	if v == nil {
		return ErrNilValue
	}
	table, ok := e.tables.ModifierTableFor(v.TypeID())
	if !ok {
		return &Error{Name: m.Name, TypeID: v.TypeID(), Err: fmt.Errorf("%w: type is not modifiable", ErrUnknownModifier)}
	}
	fn, ok := table.Lookup(m.Name)
	if !ok {
		return &Error{Name: m.Name, TypeID: v.TypeID(), Err: ErrUnknownModifier}
	}

	if !fn(v, m) {
		diag.Report(diag.Event{Kind: diag.ModifierRejected, TypeID: string(v.TypeID()), Name: m.Name, Detail: m.Arg})
		return &Error{Name: m.Name, TypeID: v.TypeID(), Err: ErrRejected}
	}
	ctxlog.FromContext(ctx).Debug("Applied modifier.", "name", m.Name, "type", v.TypeID())
	return nil
}

// ParseInstruction splits "name" or "name:arg" into a Modifier. Only the
// first colon separates; the argument may itself contain colons.
func ParseInstruction(text string) (dispatch.Modifier, error) {
	name, arg, hasArg := strings.Cut(text, ":")
	if len(dispatch.ValidNames(name)) == 0 {
		return dispatch.Modifier{}, fmt.Errorf("invalid modifier name %q", name)
	}
	m := dispatch.NewModifier(name)
	if hasArg {
		m = m.WithArg(arg)
	}
	return m, nil
}
