package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	var pse *PacksmithError
	if stderrors.As(err, &pse) {
		return a.exitCodeFromPacksmith(pse)
	}

	return 1
}

// exitCodeFromPacksmith maps PacksmithError categories to exit codes.
func (a *CLIErrorAdapter) exitCodeFromPacksmith(err *PacksmithError) int {
	switch err.Category {
	case CategoryValidation:
		return 2 // Invalid manifest or usage
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryToolchain:
		return 8 // Required external tool missing or unusable
	case CategoryFreeze, CategoryDocs, CategoryFileSystem, CategoryStore:
		return 11 // Build or docs failure
	case CategoryDaemon, CategoryRuntime:
		return 12 // Runtime error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-facing display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	var pse *PacksmithError
	if stderrors.As(err, &pse) {
		return a.formatPacksmith(pse)
	}

	return fmt.Sprintf("Error: %v", err)
}

// formatPacksmith formats a PacksmithError for display.
func (a *CLIErrorAdapter) formatPacksmith(err *PacksmithError) string {
	if a.verbose {
		return err.Error()
	}

	switch err.Category {
	case CategoryConfig, CategoryValidation:
		return err.Message
	default:
		return fmt.Sprintf("%s: %s", err.Category, err.Message)
	}
}

// HandleError processes an error and exits the program with the mapped code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	if a.shouldLog(err) {
		a.logError(err)
	}

	fmt.Fprintf(os.Stderr, "%s\n", message)
	os.Exit(exitCode)
}

// shouldLog determines if an error should also be logged.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}

	var pse *PacksmithError
	if stderrors.As(err, &pse) {
		return pse.Category == CategoryInternal ||
			pse.Category == CategoryRuntime ||
			pse.Severity == SeverityFatal
	}

	return true
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	var pse *PacksmithError
	if stderrors.As(err, &pse) {
		level := slogLevelFromSeverity(pse.Severity)
		attrs := []slog.Attr{
			slog.String("category", string(pse.Category)),
		}
		if pse.Retryable {
			attrs = append(attrs, slog.Bool("retryable", true))
		}

		a.logger.LogAttrs(context.Background(), level, pse.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}

// slogLevelFromSeverity converts PacksmithError severity to slog level.
func slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityFatal, SeverityError:
		return slog.LevelError
	case SeverityWarning:
		return slog.LevelWarn
	case SeverityInfo:
		return slog.LevelInfo
	default:
		return slog.LevelError
	}
}
