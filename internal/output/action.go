package output

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pathsift/pathsift/internal/actions"
	"github.com/pathsift/pathsift/internal/filter"
)

// ActionWriter maps rule results to GitHub Actions step outputs: for each
// rule a boolean flag, a file count and (optionally) a serialized file list,
// plus one aggregate "changes" output listing every matched rule name.
type ActionWriter struct {
	Env *actions.Env
}

// NewActionWriter creates an ActionWriter wired to the process environment.
func NewActionWriter() *ActionWriter {
	return &ActionWriter{Env: actions.New()}
}

// Write emits the report to the step-output channel.
func (w *ActionWriter) Write(report *Report, options Options) error {
	w.Env.Group("Rule results")
	defer w.Env.EndGroup()

	for _, res := range report.Results {
		if err := w.Env.SetOutput(res.Rule, strconv.FormatBool(res.Matched)); err != nil {
			return err
		}
		if err := w.Env.SetOutput(res.Rule+"_count", strconv.Itoa(res.Count)); err != nil {
			return err
		}
		if options.ListFormat != ListNone && options.ListFormat != "" {
			list, err := FormatFileList(res.Files, options.ListFormat)
			if err != nil {
				return fmt.Errorf("serializing file list for rule %q: %w", res.Rule, err)
			}
			if err := w.Env.SetOutput(res.Rule+"_files", list); err != nil {
				return err
			}
		}
		w.Env.Noticef("%s: %v (%d files)", res.Rule, res.Matched, res.Count)
	}

	matched, err := json.Marshal(filter.MatchedNames(report.Results))
	if err != nil {
		return err
	}
	return w.Env.SetOutput("changes", string(matched))
}
