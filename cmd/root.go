package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/pathsift/pathsift/config"
	"github.com/pathsift/pathsift/internal/actions"
	"github.com/pathsift/pathsift/internal/filter"
	gitpkg "github.com/pathsift/pathsift/internal/git"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "pathsift",
		Usage:   "Detect changed paths in a git repository and classify them against filter rules",
		Version: "1.0.0",
		Commands: []*cli.Command{
			RunCmd(),
			DiffCmd(),
			LintCmd(),
		},
		Action: func(c *cli.Context) error {
			return cli.ShowAppHelp(c)
		},
	}
}

// Common flags shared across commands.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "working-directory",
			Aliases: []string{"C"},
			Usage:   "Path to the git repository",
		},
		&cli.StringFlag{
			Name:  "remote",
			Usage: "Remote to fetch from when deepening history",
		},
	}
}

// baseFlags returns the flags controlling change-set discovery.
func baseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "base",
			Aliases: []string{"b"},
			Usage:   "Base reference to compare against (empty: working tree vs HEAD)",
		},
		&cli.StringFlag{
			Name:  "ref",
			Usage: "Remote-side name of the compared line of development",
		},
		&cli.StringFlag{
			Name:  "compare",
			Value: "auto",
			Usage: "Comparison mode: auto, merge-base or direct",
		},
		&cli.IntFlag{
			Name:  "initial-fetch-depth",
			Usage: "Initial shallow-fetch depth for the merge-base search",
		},
		&cli.BoolFlag{
			Name:  "all",
			Usage: "Skip the baseline and report every tracked file as added",
		},
		&cli.BoolFlag{
			Name:  "since-last-commit",
			Usage: "Compare HEAD against its immediate parent",
		},
	}
}

// loadRunConfig builds the effective configuration: defaults, then action
// inputs, then CLI flags.
func loadRunConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if err := cfg.ApplyInputs(actions.Input); err != nil {
		return nil, err
	}

	if v := c.String("working-directory"); v != "" {
		cfg.RepoPath = v
	}
	if v := c.String("remote"); v != "" {
		cfg.Remote = v
	}
	if v := c.String("filters"); v != "" {
		cfg.RulesFile = v
		cfg.RulesInline = ""
	}
	if v := c.String("base"); v != "" {
		cfg.Base = v
	}
	if v := c.String("ref"); v != "" {
		cfg.Ref = v
	}
	if v := c.String("list-files"); v != "" {
		cfg.ListFormat = v
	}
	if v := c.String("quantifier"); v != "" {
		cfg.Quantifier = v
	}
	if c.IsSet("initial-fetch-depth") {
		cfg.InitialFetchDepth = c.Int("initial-fetch-depth")
	}

	return cfg, nil
}

// loadRules parses the configured rule source.
func loadRules(cfg *config.Config) ([]filter.Rule, error) {
	if cfg.RulesInline != "" {
		return filter.ParseRules([]byte(cfg.RulesInline))
	}
	return filter.LoadRulesFile(cfg.RulesFile)
}

// newDiscoverer wires the discoverer over the configured repository.
func newDiscoverer(cfg *config.Config, warnf func(string, ...any)) *gitpkg.Discoverer {
	return gitpkg.NewDiscoverer(
		&gitpkg.ExecRunner{RepoPath: cfg.RepoPath},
		&gitpkg.StoreInspector{RepoPath: cfg.RepoPath},
		gitpkg.Options{
			Remote:            cfg.Remote,
			HeadRef:           cfg.Ref,
			InitialFetchDepth: cfg.InitialFetchDepth,
			Warnf:             warnf,
		},
	)
}

// warnFunc routes warnings to the platform annotation channel when running
// under the automation platform, and to stderr otherwise.
func warnFunc(env *actions.Env) func(string, ...any) {
	if actions.Active() {
		return env.Warningf
	}
	return func(format string, args ...any) {
		color.New(color.FgYellow).Fprintf(os.Stderr, "warning: "+format+"\n", args...)
	}
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
