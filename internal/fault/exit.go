package fault

import "errors"

// Process exit codes, one per error kind.
const (
	ExitSuccess             = 0
	ExitInternal            = 1
	ExitConfiguration       = 2
	ExitScan                = 3
	ExitMalformedDescriptor = 4
	ExitIO                  = 5
	ExitPipeline            = 6
)

// ExitCode maps err to the exit code of its kind. Unclassified errors map to
// ExitInternal.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrConfiguration):
		return ExitConfiguration
	case errors.Is(err, ErrScan):
		return ExitScan
	case errors.Is(err, ErrMalformedDescriptor):
		return ExitMalformedDescriptor
	case errors.Is(err, ErrIO):
		return ExitIO
	case errors.Is(err, ErrPipeline):
		return ExitPipeline
	default:
		return ExitInternal
	}
}
