// Package exitcodes provides centralized exit code definitions and error handling
// for the shipit tool. Exit codes are organized in ranges to categorize
// different types of failures:
//
//	0:     Success
//	1-9:   Input/Configuration Errors (e.g., missing flags, malformed build args)
//	10-19: Version/Chart Processing Errors (e.g., chart discovery failures)
//	20-29: Publish/Runtime Errors (e.g., build, push, or API call failures)
package exitcodes

import (
	"errors"
	"fmt"
)

// Exit code constants organized by category
const (
	// Success (0)
	ExitSuccess = 0

	// Input/Configuration Errors (1-9)
	ExitMissingRequiredFlag     = 1 // Required command flag not provided
	ExitInputConfigurationError = 2 // General configuration error
	ExitMalformedBuildArgs      = 3 // Build args JSON invalid or entry missing '='

	// Version/Chart Processing Errors (10-19)
	ExitChartDiscoveryError = 10 // Chart root enumeration failed
	ExitChartRequired       = 11 // Chart push requested but required chart missing
	ExitChartLoadFailed     = 12 // Chart failed Helm loader validation

	// Publish/Runtime Errors (20-29)
	ExitImageBuildFailed    = 20 // Container image build or push failed
	ExitChartPublishFailed  = 21 // Chart package or push failed
	ExitVisibilityFailed    = 22 // Package visibility API call failed
	ExitGitPushFailed       = 23 // Repository push failed
	ExitGeneralRuntimeError = 24 // General runtime/system error

	// Internal Errors (30-39)
	ExitInternalError = 30 // Internal error in command execution
)

// ExitCodeError wraps an error with an exit code for consistent error handling.
// This type is used throughout the codebase to propagate both error details
// and the appropriate exit code up the call stack.
type ExitCodeError struct {
	Code int   // Exit code to return
	Err  error // Underlying error
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d: %v", e.Code, e.Err)
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// IsExitCodeError checks if an error is an ExitCodeError and returns its code.
// Returns false and 0 if the error is not an ExitCodeError.
func IsExitCodeError(err error) (int, bool) {
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// CodeDescriptions maps exit codes to their human-readable descriptions
var CodeDescriptions = map[int]string{
	ExitSuccess:                 "Success",
	ExitMissingRequiredFlag:     "Required command flag not provided",
	ExitInputConfigurationError: "General configuration error",
	ExitMalformedBuildArgs:      "Build args JSON invalid or entry missing '='",
	ExitChartDiscoveryError:     "Chart root enumeration failed",
	ExitChartRequired:           "Chart push requested but required chart missing",
	ExitChartLoadFailed:         "Chart failed Helm loader validation",
	ExitImageBuildFailed:        "Container image build or push failed",
	ExitChartPublishFailed:      "Chart package or push failed",
	ExitVisibilityFailed:        "Package visibility API call failed",
	ExitGitPushFailed:           "Repository push failed",
	ExitGeneralRuntimeError:     "General runtime/system error",
	ExitInternalError:           "Internal error in command execution",
}
