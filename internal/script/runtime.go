package script

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/vk/tagscript/internal/attribute"
	"github.com/vk/tagscript/internal/chain"
	"github.com/vk/tagscript/internal/config"
	"github.com/vk/tagscript/internal/ctxlog"
	"github.com/vk/tagscript/internal/dispatch"
	"github.com/vk/tagscript/internal/modifier"
	"github.com/vk/tagscript/internal/registry"
	"github.com/vk/tagscript/internal/value"
)

var (
	// ErrInvalidLiteral means a type rejected the text it was asked to
	// construct from.
	ErrInvalidLiteral = errors.New("invalid literal")
	// ErrUnknownPreset means no preset with the requested name is installed.
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrAliasCycle means an alias would, directly or through other aliases,
	// expand to itself.
	ErrAliasCycle = errors.New("alias cycle")
	// ErrAliasConflict means a register-mode alias names an attribute that
	// is already bound. Use extend mode to wrap an existing attribute.
	ErrAliasConflict = errors.New("alias name already bound")
)

// Runtime is safe for concurrent use once configured.
type Runtime struct {
	reg    *registry.Registry
	attrs  *attribute.Engine
	mods   *modifier.Engine
	chains *chain.Cache

	mu      sync.RWMutex
	aliases map[string][]string // alias name -> segment names of its expansion
	presets map[string]*config.Preset
}

// New creates a runtime over reg.
func New(reg *registry.Registry) *Runtime {
	return &Runtime{
		reg:     reg,
		attrs:   attribute.NewEngine(reg),
		mods:    modifier.NewEngine(reg),
		chains:  chain.NewCache(),
		aliases: make(map[string][]string),
		presets: make(map[string]*config.Preset),
	}
}

// Registry returns the type registry the runtime dispatches through.
func (r *Runtime) Registry() *registry.Registry { return r.reg }

// Parse returns a fresh chain for text from the runtime's parse cache.
func (r *Runtime) Parse(text string) (*chain.Chain, error) {
	return r.chains.Parse(text)
}

// Resolve parses text and resolves it against v. Every log line of the
// resolution carries the same resolution_id.
func (r *Runtime) Resolve(ctx context.Context, text string, v value.Value) (value.Value, error) {
	c, err := r.chains.Parse(text)
	if err != nil {
		return nil, err
	}
	return r.ResolveChain(ctx, c, v)
}

// ResolveChain resolves the remaining segments of c against v.
func (r *Runtime) ResolveChain(ctx context.Context, c *chain.Chain, v value.Value) (value.Value, error) {
	logger := ctxlog.FromContext(ctx).With("resolution_id", uuid.NewString())
	ctx = ctxlog.WithLogger(ctx, logger)

	logger.Debug("Resolution started.", "chain", c.String(), "type", typeOf(v))
	out, err := r.attrs.Resolve(ctx, c, v)
	if err != nil {
		logger.Debug("Resolution failed.", "error", err, "fulfilled", c.Fulfilled())
		return nil, fmt.Errorf("failed to resolve %q: %w", c.String(), err)
	}
	logger.Debug("Resolution finished.", "type", out.TypeID())
	return out, nil
}

// Construct builds a value of type id from text.
func (r *Runtime) Construct(id value.TypeID, text string) (value.Value, error) {
	if _, err := r.reg.Capability(id); err != nil {
		return nil, err
	}
	v, ok := r.reg.Construct(id, text)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a valid %s", ErrInvalidLiteral, text, id)
	}
	return v, nil
}

// Infer builds a value from text using the first registered type that
// accepts it.
func (r *Runtime) Infer(text string) (value.Value, error) {
	v, ok := r.reg.Infer(text)
	if !ok {
		return nil, fmt.Errorf("%w: no registered type accepts %q", ErrInvalidLiteral, text)
	}
	return v, nil
}

// Apply runs modifier m against v in place.
func (r *Runtime) Apply(ctx context.Context, v value.Value, m dispatch.Modifier) error {
	return r.mods.Apply(ctx, v, m)
}

// Install validates model and installs its aliases, in order, and presets.
func (r *Runtime) Install(ctx context.Context, model *config.Model) error {
	if err := model.Validate(); err != nil {
		return err
	}
	for _, a := range model.Aliases {
		if err := r.InstallAlias(ctx, a); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, p := range model.Presets {
		r.presets[name] = p
	}
	return nil
}

// InstallAlias binds a.Name on a.TypeID's attribute table to a processor
// that resolves a.Expand against the value. The expansion runs on its own
// chain, so the caller's cursor only ever moves by one.
func (r *Runtime) InstallAlias(ctx context.Context, a *config.Alias) error {
	if err := a.Validate(); err != nil {
		return err
	}
	id := value.TypeID(a.TypeID)
	table, ok := r.reg.AttributeTableFor(id)
	if !ok {
		if _, err := r.reg.Capability(id); err != nil {
			return fmt.Errorf("alias %q: %w", a.Name, err)
		}
		return fmt.Errorf("alias %q: type %q is not attributable", a.Name, id)
	}

	expansion, err := r.chains.Parse(a.Expand)
	if err != nil {
		return fmt.Errorf("alias %q: %w", a.Name, err)
	}
	refs := make([]string, 0, expansion.Len())
	for _, seg := range expansion.Segments() {
		refs = append(refs, seg.Name())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reaches(refs, a.Name, map[string]bool{}) {
		return fmt.Errorf("%w: %q expands to %q", ErrAliasCycle, a.Name, a.Expand)
	}

	proc := dispatch.DirectAttribute(func(v value.Value, outer *chain.Chain) value.Value {
		c, err := r.chains.Parse(a.Expand)
		if err != nil {
			return nil
		}
		out, err := r.attrs.Resolve(outer.Context(), c, v)
		if err != nil {
			return nil
		}
		return out
	})

	switch a.Mode {
	case config.ModeExtend:
		err = table.Extend(proc, a.Name)
	default:
		if table.Has(a.Name) {
			return fmt.Errorf("%w: %q is already bound on %s", ErrAliasConflict, a.Name, id)
		}
		err = table.Register(proc, a.Name)
	}
	if err != nil {
		return fmt.Errorf("alias %q: %w", a.Name, err)
	}
	r.aliases[a.Name] = append(r.aliases[a.Name], refs...)
	ctxlog.FromContext(ctx).Debug("Installed alias.", "name", a.Name, "type", id, "expand", a.Expand, "mode", a.Mode)
	return nil
}

// reaches reports whether any of refs is target or is an alias whose
// expansion reaches target. Aliases are matched by name regardless of type.
func (r *Runtime) reaches(refs []string, target string, visited map[string]bool) bool {
	for _, ref := range refs {
		if ref == target {
			return true
		}
		if visited[ref] {
			continue
		}
		visited[ref] = true
		if r.reaches(r.aliases[ref], target, visited) {
			return true
		}
	}
	return false
}

// Preset constructs a fresh value from the named preset.
func (r *Runtime) Preset(name string) (value.Value, error) {
	r.mu.RLock()
	p, ok := r.presets[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	if p.TypeID == "" {
		return r.Infer(p.Value)
	}
	return r.Construct(value.TypeID(p.TypeID), p.Value)
}

// Presets returns the installed preset names in sorted order.
func (r *Runtime) Presets() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func typeOf(v value.Value) value.TypeID {
	if v == nil {
		return ""
	}
	return v.TypeID()
}
