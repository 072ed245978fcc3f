package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	"github.com/ccollicutt/csvify/pkg/pad"
	"github.com/ccollicutt/csvify/pkg/source"
)

// ExitCode is set by commands to indicate a result that is not an error,
// such as check finding issues.
var ExitCode = 0

// Exit codes that do not come from the operating system.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// UsageError marks bad flags, arguments or configuration.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *UsageError) Unwrap() error {
	return e.Err
}

// ExitCodeFor maps a command error to a process exit status: 2 for usage
// errors, the OS errno for I/O failures that carry one, and 1 otherwise.
func ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsage
	}

	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 && int(errno) < 256 {
		return int(errno)
	}

	return ExitFailure
}

// ErrorMessage formats err as "<file>: <cause>" when the failing file is known.
func ErrorMessage(err error) string {
	var (
		lineErr     *source.LineError
		overflowErr *pad.OverflowError
		writeErr    *pad.WriteError
		pathErr     *fs.PathError
		readErr     *source.ReadError
	)

	switch {
	case errors.As(err, &lineErr):
		return lineErr.Error()
	case errors.As(err, &overflowErr):
		return overflowErr.Error()
	case errors.As(err, &writeErr):
		return fmt.Sprintf("%s: writing line %d: %v", writeErr.Source, writeErr.Line, writeErr.Err)
	case errors.As(err, &pathErr):
		return fmt.Sprintf("%s: %v", pathErr.Path, pathErr.Err)
	case errors.As(err, &readErr):
		return fmt.Sprintf("%s: %v", readErr.Source, readErr.Err)
	default:
		return err.Error()
	}
}
