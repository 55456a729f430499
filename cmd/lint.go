package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/pathsift/pathsift/internal/filter"
)

// LintCmd creates the lint command: parse a rule file and report problems
// without running any discovery.
func LintCmd() *cli.Command {
	return &cli.Command{
		Name:      "lint",
		Usage:     "Validate a rule file",
		ArgsUsage: "[rule file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "filters",
				Aliases: []string{"f"},
				Usage:   "Path to the YAML rule definitions",
			},
		},
		Action: lintAction,
	}
}

func lintAction(c *cli.Context) error {
	path := c.String("filters")
	if path == "" && c.NArg() > 0 {
		path = c.Args().Get(0)
	}
	if path == "" {
		return fmt.Errorf("no rule file given")
	}

	rules, err := filter.LoadRulesFile(path)
	if err != nil {
		return err
	}

	color.Green("%s: %d rules OK", path, len(rules))
	for _, rule := range rules {
		marker := " "
		if rule.Name == filter.ErrorRuleName {
			marker = "!"
		}
		fmt.Printf("%s %s (%d clauses)\n", marker, rule.Name, len(rule.Clauses))
		if len(rule.Clauses) == 0 {
			color.Yellow("  rule %q has no clauses and will never match", rule.Name)
		}
	}
	return nil
}
