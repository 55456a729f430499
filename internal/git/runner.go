package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// RunResult holds the outcome of a single git invocation.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes git subcommands against a repository and returns their raw
// output. Implementations must not interpret the output; non-zero exit codes
// are reported through RunResult, not through the error, so callers can
// tolerate them explicitly. The error is reserved for failures to run git at
// all.
type Runner interface {
	Run(ctx context.Context, args ...string) (RunResult, error)
}

// ExecRunner runs the git executable as a subprocess.
type ExecRunner struct {
	RepoPath string
}

// Compile-time interface conformance check.
var _ Runner = (*ExecRunner)(nil)

// Run executes git with the given arguments in the configured repository.
func (r *ExecRunner) Run(ctx context.Context, args ...string) (RunResult, error) {
	full := append([]string{"-C", r.RepoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := RunResult{
		Stdout: stdout.String(),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}

	return res, nil
}
