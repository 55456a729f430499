package output

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
)

// ConsoleWriter writes rule results to the console for human inspection.
type ConsoleWriter struct{}

// Write outputs the report as a table, with per-rule file listings when a
// list format other than none is selected.
func (w *ConsoleWriter) Write(report *Report, options Options) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	color.Green("Changed-path rule results")
	fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	if report.Base != "" {
		fmt.Fprintf(out, "Base: %s (%s comparison)\n", report.Base, report.Comparison)
	} else {
		fmt.Fprintf(out, "Comparison: %s\n", report.Comparison)
	}
	fmt.Fprintf(out, "Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02T15:04:05"))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Rule\tMatched\tCount")
	for _, res := range report.Results {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", res.Rule, matchedLabel(res.Matched), res.Count)
	}
	tw.Flush()

	if options.ListFormat != ListNone && options.ListFormat != "" {
		for _, res := range report.Results {
			if !res.Matched {
				continue
			}
			list, err := FormatFileList(res.Files, options.ListFormat)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s:\n%s\n", res.Rule, list)
		}
	}

	return nil
}

func matchedLabel(matched bool) string {
	if matched {
		return color.GreenString("yes")
	}
	return color.RedString("no")
}
