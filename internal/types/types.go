// Package types provides the concrete value types of the runtime and the
// built-in attributes every attributable type carries.
package types

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/vk/tagscript/internal/chain"
	"github.com/vk/tagscript/internal/registry"
	"github.com/vk/tagscript/internal/value"
)

const (
	TextID    value.TypeID = "text"
	IntegerID value.TypeID = "integer"
	NumberID  value.TypeID = "number"
	BooleanID value.TypeID = "boolean"
	CharID    value.TypeID = "char"
	SetID     value.TypeID = "set"
)

var (
	integerPattern = regexp.MustCompile(`^[+-]?[0-9]+$`)
	numberPattern  = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?$`)
)

// RegisterAll registers every built-in type on reg. Registration order is
// the inference priority: the most specific matcher comes first and text,
// which accepts anything, comes last.
func RegisterAll(reg *registry.Registry) error {
	steps := []struct {
		id       value.TypeID
		register func(*registry.Registry) error
	}{
		{BooleanID, registerBoolean},
		{IntegerID, registerInteger},
		{NumberID, registerNumber},
		{SetID, registerSet},
		{CharID, registerChar},
		{TextID, registerText},
	}
	for _, s := range steps {
		if err := s.register(reg); err != nil {
			return fmt.Errorf("failed to register type %q: %w", s.id, err)
		}
	}
	return nil
}

// tableErrors folds the results of a run of table registrations.
func tableErrors(errs ...error) error {
	return errors.Join(errs...)
}

// rawText returns the raw context of the segment at c's cursor.
func rawText(c *chain.Chain) (string, bool) {
	seg := c.Current()
	if seg == nil {
		return "", false
	}
	return seg.RawContext()
}

// contextAs builds the raw context of the segment at c's cursor as type id.
func contextAs(reg *registry.Registry, c *chain.Chain, id value.TypeID) (value.Value, bool) {
	seg := c.Current()
	if seg == nil {
		return nil, false
	}
	return seg.ContextAs(id, reg)
}

// keyAs builds the keyed context entry key of the segment at c's cursor as
// type id.
func keyAs(reg *registry.Registry, c *chain.Chain, key string, id value.TypeID) (value.Value, bool) {
	seg := c.Current()
	if seg == nil {
		return nil, false
	}
	return seg.KeyAs(key, id, reg)
}

func matchAny(string) bool { return true }
