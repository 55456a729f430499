package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/pathsift/pathsift/config"
	"github.com/pathsift/pathsift/internal/actions"
	"github.com/pathsift/pathsift/internal/filter"
	gitpkg "github.com/pathsift/pathsift/internal/git"
	"github.com/pathsift/pathsift/internal/output"
)

// RunCmd creates the run command: discover the change-set, evaluate the
// rules and emit per-rule results.
func RunCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "filters",
			Aliases: []string{"f"},
			Usage:   "Path to the YAML rule definitions",
		},
		&cli.StringFlag{
			Name:  "list-files",
			Usage: "File list serialization: none, lines, shell, csv or json",
		},
		&cli.StringFlag{
			Name:  "quantifier",
			Usage: "Clause quantifier: some or every",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Result channel: action, console or json (default: action under CI, console otherwise)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path for console/json formats (default: stdout)",
		},
	}
	flags = append(flags, baseFlags()...)
	flags = append(flags, commonFlags()...)

	return &cli.Command{
		Name:   "run",
		Usage:  "Detect changed paths and evaluate filter rules against them",
		Flags:  flags,
		Action: runAction,
	}
}

func runAction(c *cli.Context) error {
	cfg, err := loadRunConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Rule parsing happens before any discovery work: a malformed rule
	// source must fail without touching the repository.
	rules, err := loadRules(cfg)
	if err != nil {
		return err
	}
	quantifier, err := filter.ParseQuantifier(cfg.Quantifier)
	if err != nil {
		return err
	}
	listFormat, ok := output.ParseListFormat(cfg.ListFormat)
	if !ok {
		return fmt.Errorf("unknown list-files format %q", cfg.ListFormat)
	}

	env := actions.New()
	disc := newDiscoverer(cfg, warnFunc(env))

	changes, comparison, err := discoverChanges(c, cfg, disc)
	if err != nil {
		return err
	}

	results := filter.EvaluateWith(rules, changes, filter.EvalOptions{Quantifier: quantifier})

	report := &output.Report{
		RepoPath:    cfg.RepoPath,
		Base:        cfg.Base,
		Comparison:  comparison,
		GeneratedAt: time.Now(),
		Results:     results,
	}
	writer := output.NewResultWriter(resolveWriterFormat(c.String("format")))
	if err := writer.Write(report, output.Options{ListFormat: listFormat, OutputPath: c.String("output")}); err != nil {
		return err
	}

	if filter.ErrorMatched(results) {
		return cli.Exit(fmt.Sprintf("rule %q matched changed paths - failing the run", filter.ErrorRuleName), 1)
	}
	return nil
}

// discoverChanges selects and runs the discovery operation implied by the
// flags and configuration. It returns the change-set and a label naming the
// comparison that produced it.
func discoverChanges(c *cli.Context, cfg *config.Config, disc *gitpkg.Discoverer) (gitpkg.ChangeSet, string, error) {
	ctx := c.Context

	switch {
	case c.Bool("all"):
		cs, err := disc.AllTrackedAsAdded(ctx)
		return cs, "all-tracked", err

	case c.Bool("since-last-commit"):
		cs, err := disc.ChangesInLastCommit(ctx)
		return cs, "last-commit", err

	case cfg.Base == "" || cfg.Base == "HEAD":
		cs, err := disc.ChangesInWorkingTree(ctx)
		return cs, "working-tree", err

	default:
		mode, label := compareMode(c.String("compare"), cfg.Base)
		cs, err := disc.ChangesBetween(ctx, cfg.Base, mode)
		return cs, label, err
	}
}

// compareMode resolves the comparison mode. "auto" picks a direct two-point
// comparison for commit-hash bases and a merge-base comparison for symbolic
// references.
func compareMode(flag, base string) (gitpkg.CompareMode, string) {
	switch flag {
	case "direct":
		return gitpkg.DirectCompare, "direct"
	case "merge-base":
		return gitpkg.MergeBaseCompare, "merge-base"
	default:
		if isCommitHash(base) {
			return gitpkg.DirectCompare, "direct"
		}
		return gitpkg.MergeBaseCompare, "merge-base"
	}
}

// isCommitHash reports whether s looks like a full commit hash.
func isCommitHash(s string) bool {
	if len(s) != 40 && len(s) != 64 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// resolveWriterFormat picks the result channel: explicit flag first, then
// the platform output channel when available, console otherwise.
func resolveWriterFormat(flag string) output.WriterFormat {
	switch flag {
	case "action":
		return output.FormatAction
	case "console":
		return output.FormatConsole
	case "json":
		return output.FormatJSON
	}
	if actions.Active() {
		return output.FormatAction
	}
	return output.FormatConsole
}
