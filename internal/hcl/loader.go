package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/tagscript/internal/config"
	"github.com/vk/tagscript/internal/ctxlog"
	"github.com/vk/tagscript/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Aliases []*aliasBlock  `hcl:"alias,block"`
	Presets []*presetBlock `hcl:"preset,block"`
	Remain  hcl.Body       `hcl:",remain"`
}

type aliasBlock struct {
	Name   string  `hcl:"name,label"`
	Type   string  `hcl:"type"`
	Expand string  `hcl:"expand"`
	Mode   *string `hcl:"mode,optional"`
}

type presetBlock struct {
	Name  string         `hcl:"name,label"`
	Type  *string        `hcl:"type,optional"`
	Value hcl.Expression `hcl:"value"`
}

// Load parses every .hcl file found under paths and merges their blocks
// into one model. Aliases keep file and declaration order; a preset name
// may only be declared once.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := fsutil.FindFilesByExtension(".hcl", paths...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	model := config.NewModel()
	parser := hclparse.NewParser()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, a := range root.Aliases {
			model.Aliases = append(model.Aliases, translateAlias(a))
		}
		for _, p := range root.Presets {
			if _, exists := model.Presets[p.Name]; exists {
				return nil, fmt.Errorf("duplicate preset %q in %s", p.Name, file)
			}
			preset, err := translatePreset(p)
			if err != nil {
				return nil, fmt.Errorf("failed to translate preset in %s: %w", file, err)
			}
			model.Presets[preset.Name] = preset
		}
	}

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Debug("HCL loading complete.", "aliases", len(model.Aliases), "presets", len(model.Presets))
	return model, nil
}
