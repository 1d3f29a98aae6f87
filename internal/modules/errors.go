package modules

import (
	"errors"
	"fmt"

	"github.com/sspmod/sspmod/internal/messages"
)

// Sentinel errors for module lookup and naming. Returned errors wrap one of these
// and embed the offending package's display name in their message.
var (
	// ErrHostPackageNotFound means the host package is absent from the local repository.
	// It is fatal: no destination directory can be computed without it.
	ErrHostPackageNotFound = errors.New("host package not found")

	// ErrMalformedModuleName means the pretty name does not end in /simplesamlphp-module-<name>.
	ErrMalformedModuleName = errors.New("malformed module package name")
	// ErrInvalidModuleDirName means the derived directory name has characters outside [a-z0-9_.-].
	ErrInvalidModuleDirName = errors.New("invalid module directory name")
	// ErrLeadingDotNotAllowed means the derived directory name starts with ".".
	ErrLeadingDotNotAllowed = errors.New("module directory name starts with a dot")
	// ErrInvalidOverrideType means the mixed-case override in extra is not a string.
	ErrInvalidOverrideType = errors.New("module name override is not a string")
	// ErrOverrideMismatch means the override differs from the derived name by more than case.
	ErrOverrideMismatch = errors.New("module name override does not match package name")
)

// IsValidationError reports whether err is one of the per-module naming failures.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMalformedModuleName) ||
		errors.Is(err, ErrInvalidModuleDirName) ||
		errors.Is(err, ErrLeadingDotNotAllowed) ||
		errors.Is(err, ErrInvalidOverrideType) ||
		errors.Is(err, ErrOverrideMismatch)
}

// BatchError is returned by InstallAll under ContinueOnError. Every failure has
// already been written to the event's progress output.
type BatchError struct {
	Failures []error
	Total    int
}

// Summary returns the failure count without the individual errors.
func (e *BatchError) Summary() string {
	return fmt.Sprintf(messages.ModuleBatchFailedFmt, len(e.Failures), e.Total)
}

func (e *BatchError) Error() string {
	return e.Summary() + ": " + errors.Join(e.Failures...).Error()
}

func (e *BatchError) Unwrap() []error {
	return e.Failures
}
