package config

import (
	"errors"
	"fmt"

	"github.com/vk/tagscript/internal/chain"
	"github.com/vk/tagscript/internal/dispatch"
)

// AliasMode selects how an alias is added to its type's attribute table.
type AliasMode string

const (
	// ModeRegister adds the alias only if the name is free.
	ModeRegister AliasMode = "register"
	// ModeExtend composes the alias with an existing processor, which stays
	// in place as the fallback.
	ModeExtend AliasMode = "extend"
)

// Model is the unified, format-agnostic representation of the runtime
// configuration.
type Model struct {
	// Aliases are kept in declaration order; later extensions compose over
	// earlier ones.
	Aliases []*Alias
	Presets map[string]*Preset
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{Presets: make(map[string]*Preset)}
}

// Alias binds a new attribute name on a type to an expression resolved
// against the value, e.g. "shout" on text expanding to "to_uppercase".
type Alias struct {
	Name   string
	TypeID string
	Expand string
	Mode   AliasMode
}

// Preset is a named starting value.
type Preset struct {
	Name string
	// TypeID may be empty, in which case the type is inferred from Value.
	TypeID string
	Value  string
}

// Validate checks every alias and preset for problems that would otherwise
// surface only when the runtime is assembled.
func (m *Model) Validate() error {
	var errs []error
	for _, a := range m.Aliases {
		if err := a.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for name, p := range m.Presets {
		if name != p.Name {
			errs = append(errs, fmt.Errorf("preset %q is stored under key %q", p.Name, name))
		}
	}
	return errors.Join(errs...)
}

// Validate checks the alias name, mode and expansion.
func (a *Alias) Validate() error {
	if len(dispatch.ValidNames(a.Name)) == 0 {
		return fmt.Errorf("alias %q: invalid attribute name", a.Name)
	}
	if a.TypeID == "" {
		return fmt.Errorf("alias %q: type is required", a.Name)
	}
	switch a.Mode {
	case ModeRegister, ModeExtend:
	default:
		return fmt.Errorf("alias %q: invalid mode %q: must be %q or %q", a.Name, a.Mode, ModeRegister, ModeExtend)
	}
	if err := chain.Validate(a.Expand); err != nil {
		return fmt.Errorf("alias %q: invalid expansion: %w", a.Name, err)
	}
	return nil
}
