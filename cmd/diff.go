package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/pathsift/pathsift/internal/actions"
)

// DiffCmd creates the diff command: print the discovered change-set without
// evaluating any rules. Useful for debugging baseline resolution.
func DiffCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print the change-set as JSON",
		},
	}
	flags = append(flags, baseFlags()...)
	flags = append(flags, commonFlags()...)

	return &cli.Command{
		Name:   "diff",
		Usage:  "Print the discovered change-set",
		Flags:  flags,
		Action: diffAction,
	}
}

func diffAction(c *cli.Context) error {
	cfg, err := loadRunConfig(c)
	if err != nil {
		return err
	}

	env := actions.New()
	disc := newDiscoverer(cfg, warnFunc(env))

	changes, comparison, err := discoverChanges(c, cfg, disc)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		type entry struct {
			Path   string `json:"path"`
			Status string `json:"status"`
		}
		doc := struct {
			Comparison string  `json:"comparison"`
			Changes    []entry `json:"changes"`
		}{Comparison: comparison, Changes: make([]entry, 0, len(changes))}
		for _, ch := range changes {
			doc.Changes = append(doc.Changes, entry{Path: ch.Path, Status: ch.Status.String()})
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("%d changed files (%s comparison)\n\n", len(changes), comparison)
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Status\tPath")
	for _, ch := range changes {
		fmt.Fprintf(tw, "%s\t%s\n", ch.Status, ch.Path)
	}
	return tw.Flush()
}
