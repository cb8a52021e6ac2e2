package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/depdiffgo/internal/app"
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

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("depdiffgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
DepDiffGo - A dependency change reporter for Maven builds.

Usage:
  depdiffgo [options] [CANDIDATE BASELINE]

Arguments:
  CANDIDATE
    Path to the candidate dump file, or a directory of .dot files.
  BASELINE
    Path to the baseline dump file, or a directory of .dot files.

Options:
`)
		flagSet.PrintDefaults()
	}

	candidateFlag := flagSet.String("candidate", "", "Path to the candidate dump file or directory.")
	baselineFlag := flagSet.String("baseline", "", "Path to the baseline dump file or directory.")
	configFlag := flagSet.String("config", "", "Path to the HCL settings file.")
	outputFlag := flagSet.String("output", "", "Write the rendered report to this file. '-' writes to stdout.")
	pullRequestFlag := flagSet.Int("pull-request", 0, "Pull request id to upsert the report comment on. 0 is disabled.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Render the report and print it instead of posting.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	candidate := *candidateFlag
	baseline := *baselineFlag
	if candidate == "" && flagSet.NArg() > 0 {
		candidate = flagSet.Arg(0)
	}
	if baseline == "" && flagSet.NArg() > 1 {
		baseline = flagSet.Arg(1)
	}
	slog.Debug("Dump paths determined.", "candidate", candidate, "baseline", baseline)

	if candidate == "" && baseline == "" {
		slog.Debug("No dump paths provided, printing usage and exiting.")
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
		CandidatePath: candidate,
		BaselinePath:  baseline,
		ConfigPath:    *configFlag,
		OutputPath:    *outputFlag,
		PullRequest:   *pullRequestFlag,
		DryRun:        *dryRunFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
