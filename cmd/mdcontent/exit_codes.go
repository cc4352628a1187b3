package main

import (
	"errors"
	"os"

	mdcontent "github.com/alnah/go-mdcontent"
	"github.com/alnah/go-mdcontent/internal/config"
	"github.com/alnah/go-mdcontent/internal/dateutil"
	"github.com/alnah/go-mdcontent/internal/yamlutil"
)

// Exit codes for mdcontent CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All documents rendered
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitContent = 4 // A document failed to parse or compile
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Content errors (exit 4)
	if errors.Is(err, mdcontent.ErrParse) ||
		errors.Is(err, mdcontent.ErrCompile) {
		return ExitContent
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, mdcontent.ErrInvalidSiteOrigin) ||
		errors.Is(err, mdcontent.ErrUnknownDialect) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, yamlutil.ErrNotMapping) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrStyleNotFound) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, ErrInvalidFlags) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadContent) ||
		errors.Is(err, ErrReadScope) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoContent) ||
		errors.Is(err, ErrOutputConflict) ||
		errors.Is(err, ErrWatch) {
		return ExitIO
	}

	return ExitGeneral
}
