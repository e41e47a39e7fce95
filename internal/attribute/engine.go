// Package attribute implements the attribute dispatch engine: it walks a
// chain against a value, one segment per step, replacing the value with
// whatever the segment's processor derives from it.
package attribute

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/tagscript/internal/chain"
	"github.com/vk/tagscript/internal/ctxlog"
	"github.com/vk/tagscript/internal/diag"
	"github.com/vk/tagscript/internal/dispatch"
	"github.com/vk/tagscript/internal/value"
)

var (
	// ErrUnresolvedAttribute is wrapped by every UnresolvedError.
	ErrUnresolvedAttribute = errors.New("unresolved attribute")
	// ErrNilValue is returned when resolution starts from a nil value.
	ErrNilValue = errors.New("cannot resolve attributes of a nil value")
)

// UnresolvedError reports a segment that neither the value nor its
// downgraded form could resolve.
type UnresolvedError struct {
	Name   string
	TypeID value.TypeID
	Index  int
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unresolved attribute %q for type %q at segment %d", e.Name, e.TypeID, e.Index)
}

func (e *UnresolvedError) Unwrap() error { return ErrUnresolvedAttribute }

// Tables locates the attribute table of a type. The type registry
// satisfies it.
type Tables interface {
	AttributeTableFor(id value.TypeID) (*dispatch.AttributeTable, bool)
}

// Engine resolves chains against values.
type Engine struct {
	tables Tables
}

// NewEngine creates an engine reading dispatch tables from tables.
func NewEngine(tables Tables) *Engine {
	return &Engine{tables: tables}
}

// Resolve steps through c until it is complete or a step fails. On success
// the chain is complete and the final value is returned.
func (e *Engine) Resolve(ctx context.Context, c *chain.Chain, v value.Value) (value.Value, error) {
	for !c.Complete() {
		next, err := e.Step(ctx, c, v)
		if err != nil {
			return nil, err
		}
		v = next
	}
	return v, nil
}

// Step resolves the segment at c's cursor against v and advances the cursor
// by one on success. A complete chain returns v unchanged.
func (e *Engine) Step(ctx context.Context, c *chain.Chain, v value.Value) (value.Value, error) {
	if c.Complete() {
		return v, nil
	}
	if v == nil {
		return nil, ErrNilValue
	}

	logger := ctxlog.FromContext(ctx)
	c.SetContext(ctx)
	seg := c.Current()
	index := c.Fulfilled()

	if out := e.apply(c, v, seg.Name()); out != nil {
		logger.Debug("Resolved attribute.", "name", seg.Name(), "from", v.TypeID(), "to", out.TypeID())
		c.Advance()
		return out, nil
	}

	// One-shot downgrade retry.
	if general, ok := value.Downgrade(v); ok {
		if out := e.apply(c, general, seg.Name()); out != nil {
			logger.Debug("Resolved attribute through downgrade.", "name", seg.Name(), "from", v.TypeID(), "via", general.TypeID())
			c.Advance()
			return out, nil
		}
	}

	diag.Report(diag.Event{Kind: diag.FallbackFailed, TypeID: string(v.TypeID()), Name: seg.Name(), Detail: c.String()})
	return nil, &UnresolvedError{Name: seg.Name(), TypeID: v.TypeID(), Index: index}
}

// apply runs the processor bound to name on v's type, cloning v first for
// Cloning processors. It returns nil when there is no processor or the
// processor yields nothing.
func (e *Engine) apply(c *chain.Chain, v value.Value, name string) value.Value {
	table, ok := e.tables.AttributeTableFor(v.TypeID())
	if !ok {
		return nil
	}
	p, ok := table.Lookup(name)
	if !ok {
		return nil
	}
	switch p.Kind {
	case dispatch.Direct:
		return p.Fn(v, c)
	case dispatch.Cloning:
		return p.Fn(v.Clone(), c)
	default:
		return nil
	}
}
