package git

import (
	"fmt"
	"strings"
)

// AccessorError reports a git invocation that failed with no defined
// recovery. It aborts the discovery pipeline.
type AccessorError struct {
	Args     []string // git arguments of the failed invocation
	ExitCode int
	Detail   string // stderr output or a short reason
}

// Error implements the error interface.
func (e *AccessorError) Error() string {
	msg := fmt.Sprintf("git %s failed with exit code %d", strings.Join(e.Args, " "), e.ExitCode)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// RefNotFoundError reports a base reference that could not be resolved even
// after exhausting fetch strategies.
type RefNotFoundError struct {
	Ref string
}

// Error implements the error interface.
func (e *RefNotFoundError) Error() string {
	return fmt.Sprintf("could not determine the base commit for reference %q - fetch and resolution attempts exhausted", e.Ref)
}
