package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vk/tagscript/internal/modifier"
	"github.com/vk/tagscript/internal/value"
	"golang.org/x/term"
)

const replHelp = `Commands:
  <expression>         resolve against the current value
  :type                print the type of the current value
  :value <text>        replace the current value
  :modify name[:arg]   apply a modifier to the current value
  :help                print this help
  :quit                exit`

// REPL reads one line at a time from in. Expressions are resolved against
// the current value, which only commands change. Resolution errors are
// printed and do not end the session.
func (a *App) REPL(ctx context.Context, in io.Reader, v value.Value) error {
	prompt := ""
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		prompt = "> "
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(a.outW, prompt)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, ":") {
			out, err := a.runtime.Resolve(ctx, line, v)
			if err != nil {
				fmt.Fprintf(a.outW, "error: %v\n", err)
				continue
			}
			fmt.Fprintf(a.outW, "%s (%s)\n", value.SimpleString(out), out.TypeID())
			continue
		}

		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		switch cmd {
		case ":quit", ":q":
			return nil
		case ":help":
			fmt.Fprintln(a.outW, replHelp)
		case ":type":
			fmt.Fprintln(a.outW, v.TypeID())
		case ":value":
			next, err := a.replValue(arg)
			if err != nil {
				fmt.Fprintf(a.outW, "error: %v\n", err)
				continue
			}
			v = next
			fmt.Fprintf(a.outW, "%s (%s)\n", value.SimpleString(v), v.TypeID())
		case ":modify":
			m, err := modifier.ParseInstruction(arg)
			if err == nil {
				err = a.runtime.Apply(ctx, v, m)
			}
			if err != nil {
				fmt.Fprintf(a.outW, "error: %v\n", err)
				continue
			}
			fmt.Fprintf(a.outW, "%s (%s)\n", value.SimpleString(v), v.TypeID())
		default:
			fmt.Fprintf(a.outW, "error: unknown command %q, try :help\n", cmd)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// replValue builds a replacement value with the configured type, or by
// inference when no type was configured.
func (a *App) replValue(text string) (value.Value, error) {
	if a.config.TypeID != "" {
		return a.runtime.Construct(value.TypeID(a.config.TypeID), text)
	}
	return a.runtime.Infer(text)
}
