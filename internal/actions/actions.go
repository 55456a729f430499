// Package actions emits GitHub Actions workflow commands and step outputs.
package actions

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Env is a handle to the automation platform's command and output channels.
type Env struct {
	// CommandWriter receives workflow commands. Defaults to stdout.
	CommandWriter io.Writer
	// OutputFile is the step-output file (GITHUB_OUTPUT). Outputs are
	// appended as key=value lines, or heredoc blocks for multiline
	// values.
	OutputFile string
}

// New creates an Env wired to the process environment.
func New() *Env {
	return &Env{
		CommandWriter: os.Stdout,
		OutputFile:    os.Getenv("GITHUB_OUTPUT"),
	}
}

// Active reports whether the process runs under GitHub Actions.
func Active() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true" || os.Getenv("GITHUB_OUTPUT") != ""
}

// Input returns the value of an action input, as exposed through the
// INPUT_<NAME> environment convention. Spaces become underscores; lookup is
// case-insensitive.
func Input(name string) string {
	key := "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
	return strings.TrimSpace(os.Getenv(key))
}

// SetOutput appends one step output. Multiline values use a heredoc block
// with a random delimiter.
func (e *Env) SetOutput(name, value string) error {
	if e.OutputFile == "" {
		return fmt.Errorf("no step-output file configured (GITHUB_OUTPUT is unset)")
	}

	f, err := os.OpenFile(e.OutputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening step-output file: %w", err)
	}
	defer f.Close()

	var line string
	if strings.ContainsAny(value, "\r\n") {
		delim := "ghadelimiter_" + uuid.NewString()
		if strings.Contains(value, delim) {
			return fmt.Errorf("output value for %q contains its own heredoc delimiter", name)
		}
		line = fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delim, value, delim)
	} else {
		line = fmt.Sprintf("%s=%s\n", name, value)
	}

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("writing step output %q: %w", name, err)
	}
	return nil
}

// Warningf emits a warning annotation.
func (e *Env) Warningf(format string, args ...any) {
	e.command("warning", fmt.Sprintf(format, args...))
}

// Noticef emits a notice annotation.
func (e *Env) Noticef(format string, args ...any) {
	e.command("notice", fmt.Sprintf(format, args...))
}

// Group starts a collapsible log group.
func (e *Env) Group(name string) {
	e.command("group", name)
}

// EndGroup closes the current log group.
func (e *Env) EndGroup() {
	e.command("endgroup", "")
}

func (e *Env) command(name, data string) {
	w := e.CommandWriter
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, "::%s::%s\n", name, escapeData(data))
}

// escapeData escapes workflow-command payload data.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}
