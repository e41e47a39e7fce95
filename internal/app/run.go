package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/tagscript/internal/ctxlog"
	"github.com/vk/tagscript/internal/types"
	"github.com/vk/tagscript/internal/value"
)

// Run builds the starting value, applies the configured modifiers, and then
// either resolves the expression and prints the result, or serves a REPL
// reading from in.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	v, err := a.startValue()
	if err != nil {
		return err
	}
	if a.logger.Enabled(ctx, slog.LevelDebug) {
		a.logger.Debug("Starting value built.", "type", v.TypeID(), "value", v.String())
	}

	mods, err := a.config.ParsedModifiers()
	if err != nil {
		return err
	}
	for _, m := range mods {
		if err := a.runtime.Apply(ctx, v, m); err != nil {
			return fmt.Errorf("failed to apply modifier %q: %w", m.String(), err)
		}
	}

	if a.config.Interactive {
		return a.REPL(ctx, in, v)
	}

	out := v
	if a.config.Expression != "" {
		out, err = a.runtime.Resolve(ctx, a.config.Expression, v)
		if err != nil {
			return err
		}
	}
	fmt.Fprintln(a.outW, value.SimpleString(out))

	a.logger.Debug("App.Run method finished.", "type", out.TypeID())
	return nil
}

// startValue returns the preset, the explicitly typed value, the inferred
// value, or empty text, in that order of preference.
func (a *App) startValue() (value.Value, error) {
	switch {
	case a.config.Preset != "":
		return a.runtime.Preset(a.config.Preset)
	case a.config.TypeID != "":
		return a.runtime.Construct(value.TypeID(a.config.TypeID), a.config.Value)
	case a.config.Value != "":
		return a.runtime.Infer(a.config.Value)
	default:
		return types.NewText(""), nil
	}
}
