package output

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pathsift/pathsift/internal/filter"
)

// JSONWriter writes rule results as a single JSON document.
type JSONWriter struct{}

// jsonReport is the serialized report layout.
type jsonReport struct {
	RepoPath    string              `json:"repoPath"`
	Base        string              `json:"base,omitempty"`
	Comparison  string              `json:"comparison"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Results     []filter.RuleResult `json:"results"`
	Changes     []string            `json:"changes"`
	Error       bool                `json:"error"`
}

// Write outputs the report as indented JSON.
func (w *JSONWriter) Write(report *Report, options Options) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	doc := jsonReport{
		RepoPath:    report.RepoPath,
		Base:        report.Base,
		Comparison:  report.Comparison,
		GeneratedAt: report.GeneratedAt,
		Results:     report.Results,
		Changes:     filter.MatchedNames(report.Results),
		Error:       filter.ErrorMatched(report.Results),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = fmt.Fprintf(out, "%s\n", data)
	return err
}
