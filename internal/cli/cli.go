package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/nestml/internal/app"
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

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("nestml", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
nestml - compiles indentation-nested element templates.

Usage:
  nestml [options] [TEMPLATE_PATH]

Arguments:
  TEMPLATE_PATH
    Path to a template file, or "-" to read the template from stdin.

Options:
`)
		flagSet.PrintDefaults()
	}

	var configPaths stringList
	templateFlag := flagSet.String("template", "", "Path to the template file, or '-' for stdin.")
	tFlag := flagSet.String("t", "", "Path to the template file (shorthand).")
	flagSet.Var(&configPaths, "config", "HCL configuration file or directory. May be repeated.")
	flagSet.Var(&configPaths, "c", "HCL configuration file or directory (shorthand).")
	formatFlag := flagSet.String("format", "html", "Output format. Options: 'html', 'json' or 'yaml'.")
	containerFlag := flagSet.String("container", "body", "Tag of the container element compiled roots are appended to.")
	dispatchFlag := flagSet.String("dispatch", "", "Comma-separated 'id:type' events to fire after compiling.")
	watchFlag := flagSet.Bool("watch", false, "Recompile whenever the template file changes.")
	logFormatFlag := flagSet.String("log-format", "auto", "Log output format. Options: 'auto', 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *templateFlag != "" {
		path = *templateFlag
	} else if *tFlag != "" {
		path = *tFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Template path determined.", "path", path)

	if path == "" {
		slog.Debug("No template path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	switch logFormat {
	case "auto", "text", "json":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'auto', 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	var dispatch []string
	for _, d := range strings.Split(*dispatchFlag, ",") {
		if d = strings.TrimSpace(d); d != "" {
			dispatch = append(dispatch, d)
		}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		TemplatePath: path,
		ConfigPaths:  configPaths,
		Format:       *formatFlag,
		ContainerTag: *containerFlag,
		Dispatch:     dispatch,
		Watch:        *watchFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
