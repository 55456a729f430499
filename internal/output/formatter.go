package output

import (
	"time"

	"github.com/pathsift/pathsift/internal/filter"
)

// Compile-time interface conformance checks.
var (
	_ ResultWriter = (*ActionWriter)(nil)
	_ ResultWriter = (*ConsoleWriter)(nil)
	_ ResultWriter = (*JSONWriter)(nil)
)

// WriterFormat selects the result channel.
type WriterFormat string

const (
	FormatAction  WriterFormat = "action"
	FormatConsole WriterFormat = "console"
	FormatJSON    WriterFormat = "json"
)

// ListFormat selects how matched file lists are serialized.
type ListFormat string

const (
	ListNone  ListFormat = "none"
	ListLines ListFormat = "lines"
	ListShell ListFormat = "shell"
	ListCSV   ListFormat = "csv"
	ListJSON  ListFormat = "json"
)

// ParseListFormat validates a list format name.
func ParseListFormat(s string) (ListFormat, bool) {
	switch ListFormat(s) {
	case ListNone, ListLines, ListShell, ListCSV, ListJSON:
		return ListFormat(s), true
	case "":
		return ListNone, true
	default:
		return "", false
	}
}

// Options controls output behavior.
type Options struct {
	ListFormat ListFormat
	OutputPath string // file path for console/json writers; stdout when empty
}

// Report holds the results of one evaluation run.
type Report struct {
	RepoPath    string
	Base        string
	Comparison  string // which comparison produced the change-set
	GeneratedAt time.Time
	Results     []filter.RuleResult
}

// ResultWriter emits per-rule results to a result channel.
type ResultWriter interface {
	Write(report *Report, options Options) error
}

// NewResultWriter creates a writer for the specified format.
func NewResultWriter(format WriterFormat) ResultWriter {
	switch format {
	case FormatAction:
		return NewActionWriter()
	case FormatJSON:
		return &JSONWriter{}
	default:
		return &ConsoleWriter{}
	}
}
