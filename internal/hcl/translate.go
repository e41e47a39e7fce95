package hcl

import (
	"fmt"
	"strings"

	"github.com/vk/tagscript/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

func translateAlias(a *aliasBlock) *config.Alias {
	mode := config.ModeRegister
	if a.Mode != nil {
		mode = config.AliasMode(*a.Mode)
	}
	return &config.Alias{
		Name:   a.Name,
		TypeID: a.Type,
		Expand: a.Expand,
		Mode:   mode,
	}
}

// translatePreset evaluates the preset value without variables or
// functions and renders it as the text a type constructor accepts.
func translatePreset(p *presetBlock) (*config.Preset, error) {
	v, diags := p.Value.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("preset %q: %w", p.Name, diags)
	}
	text, err := valueText(v)
	if err != nil {
		return nil, fmt.Errorf("preset %q: %w", p.Name, err)
	}

	preset := &config.Preset{Name: p.Name, Value: text}
	if p.Type != nil {
		preset.TypeID = *p.Type
	}
	return preset, nil
}

// valueText converts a primitive to its string form through cty. Lists,
// sets and tuples of primitives render as the set literal [a|b|c].
func valueText(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", fmt.Errorf("value must not be null")
	}
	if !v.IsWhollyKnown() {
		return "", fmt.Errorf("value must be known")
	}

	ty := v.Type()
	if ty.IsListType() || ty.IsSetType() || ty.IsTupleType() {
		parts := make([]string, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			s, err := primitiveText(elem)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return "[" + strings.Join(parts, "|") + "]", nil
	}
	return primitiveText(v)
}

func primitiveText(v cty.Value) (string, error) {
	if !v.Type().IsPrimitiveType() {
		return "", fmt.Errorf("unsupported value of type %s", v.Type().FriendlyName())
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", err
	}
	if s.IsNull() {
		return "", fmt.Errorf("value must not be null")
	}
	return s.AsString(), nil
}
