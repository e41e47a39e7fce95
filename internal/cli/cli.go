package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/tagscript/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// listFlag collects every occurrence of a repeatable flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("tagscript", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
tagscript - resolve attribute chains against typed values.

Usage:
  tagscript [options] [EXPRESSION]

Arguments:
  EXPRESSION
    A chain of attribute segments, e.g. 'to_uppercase.substring(start=1;end=3).length'.

Examples:
  tagscript -value hello 'to_uppercase.length'
  tagscript -type text -value 42 -modify append:! length
  tagscript -config ./tagscript.hcl -preset answer is_even
  tagscript -value hello -i

Options:
`)
		flagSet.PrintDefaults()
	}

	var modifyFlag, configFlag listFlag
	typeFlag := flagSet.String("type", "", "Type of the starting value. Inferred from -value when empty.")
	valueFlag := flagSet.String("value", "", "Text of the starting value.")
	presetFlag := flagSet.String("preset", "", "Name of a preset from the configuration to start from.")
	flagSet.Var(&modifyFlag, "modify", "Modifier 'name' or 'name:arg' applied to the starting value. Repeatable, applied in order.")
	flagSet.Var(&configFlag, "config", "Path to an .hcl file or a directory of .hcl files. Repeatable.")
	interactiveFlag := flagSet.Bool("i", false, "Start an interactive session reading expressions from stdin.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("expected at most one expression, got %d arguments", flagSet.NArg())}
	}
	expression := flagSet.Arg(0)

	if expression == "" && *presetFlag == "" && !*interactiveFlag {
		slog.Debug("Nothing to resolve, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Expression:  expression,
		TypeID:      *typeFlag,
		Value:       *valueFlag,
		Preset:      *presetFlag,
		Modifiers:   modifyFlag,
		ConfigPaths: configFlag,
		Interactive: *interactiveFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
