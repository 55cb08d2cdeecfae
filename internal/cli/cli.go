package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/flowblock/internal/app"
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

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("flowblock", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
flowblock - Loads block definitions and a flow graph, builds every block and
reports its state, ports and generated code.

Usage:
  flowblock [options] -library LIBRARY_PATH [GRAPH_PATH]

Arguments:
  GRAPH_PATH
    Path to a single .hcl file or a directory of .hcl files holding
    instance and connection blocks.

Options:
`)
		flagSet.PrintDefaults()
	}

	libraryFlag := flagSet.String("library", "", "Path to the block definition file or directory.")
	graphFlag := flagSet.String("graph", "", "Path to the graph file or directory.")
	outFlag := flagSet.String("out", "", "Write the built graph to this .hcl file.")
	dbFlag := flagSet.String("db", "", "SQLite database for block snapshots. Empty keeps them in memory.")
	syncURLFlag := flagSet.String("sync-url", "", "socket.io endpoint of an editor to publish changes to.")
	syncNSFlag := flagSet.String("sync-namespace", "/", "socket.io namespace used with -sync-url.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	graphPath := *graphFlag
	if graphPath == "" && flagSet.NArg() > 0 {
		graphPath = flagSet.Arg(0)
	}

	if *libraryFlag == "" {
		slog.Debug("No library path provided, printing usage and exiting.")
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
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		LibraryPath:     *libraryFlag,
		GraphPath:       graphPath,
		OutPath:         *outFlag,
		DBPath:          *dbFlag,
		SyncURL:         *syncURLFlag,
		SyncNamespace:   *syncNSFlag,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
