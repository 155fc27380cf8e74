package cli

import (
	"errors"
	"fmt"

	"github.com/ironsheep/image-compare-mcp/internal/comparison"
)

// ExitCode is the process exit status of a command.
type ExitCode int

const (
	// ExitMatch means the images match, or a non-comparing command succeeded.
	ExitMatch ExitCode = 0

	// ExitError indicates an unspecified error, such as an unreadable image
	// or an invalid profile.
	ExitError ExitCode = 1

	// ExitMismatch means the images have the same size but differ.
	ExitMismatch ExitCode = 2

	// ExitSizeMismatch means the images have different dimensions.
	ExitSizeMismatch ExitCode = 3
)

// CLIError carries an exit code alongside an optional message. A CLIError
// without a message exits silently, which is how the compare command reports
// a mismatch after printing its result.
type CLIError struct {
	Code    ExitCode
	Message string
	Err     error
}

func (e *CLIError) Error() string {
	switch {
	case e.Message == "" && e.Err == nil:
		return fmt.Sprintf("exit status %d", e.Code)
	case e.Err != nil && e.Message == "":
		return e.Err.Error()
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// WrapCLIError creates a CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// exitCodeFor maps a command error to its exit status.
func exitCodeFor(err error) ExitCode {
	if err == nil {
		return ExitMatch
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return ExitError
}

// stateExitCode is the exit status reported for a comparison outcome.
func stateExitCode(s comparison.State) ExitCode {
	switch s {
	case comparison.Mismatch:
		return ExitMismatch
	case comparison.SizeMismatch:
		return ExitSizeMismatch
	}
	return ExitMatch
}
