// Package config holds the run configuration for pathsift.
package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config is the root configuration structure. Values come from defaults,
// then action inputs (INPUT_* environment), then CLI flags, in that order.
type Config struct {
	// RepoPath is the working directory of the repository.
	RepoPath string `json:"repoPath"`
	// Remote is the remote fetched from when deepening history.
	Remote string `json:"remote"`
	// Base is the base reference to compare against. Empty means the
	// current working tree is compared to HEAD.
	Base string `json:"base"`
	// Ref is the remote-side name of the line of development under
	// comparison, used in fetch refspecs.
	Ref string `json:"ref"`
	// RulesFile is the path to the YAML rule definitions.
	RulesFile string `json:"rulesFile"`
	// RulesInline holds rule definitions given directly instead of via
	// a file.
	RulesInline string `json:"rulesInline"`
	// ListFormat selects file-list serialization: none, lines, shell,
	// csv or json.
	ListFormat string `json:"listFormat"`
	// InitialFetchDepth is the first shallow-fetch depth used by the
	// merge-base search.
	InitialFetchDepth int `json:"initialFetchDepth"`
	// Quantifier is the clause quantifier: some or every.
	Quantifier string `json:"quantifier"`
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		RepoPath:          ".",
		Remote:            "origin",
		ListFormat:        "none",
		InitialFetchDepth: 10,
		Quantifier:        "some",
	}
}

// ApplyInputs overrides configuration from action inputs. The lookup
// receives the input name ("filters", "base", ...) and returns its value or
// "". A filters input containing a newline is treated as inline rule source
// rather than a file path.
func (c *Config) ApplyInputs(input func(name string) string) error {
	if v := input("working-directory"); v != "" {
		c.RepoPath = v
	}
	if v := input("filters"); v != "" {
		if strings.ContainsAny(v, "\n") {
			c.RulesInline = v
		} else {
			c.RulesFile = v
		}
	}
	if v := input("base"); v != "" {
		c.Base = v
	}
	if v := input("ref"); v != "" {
		c.Ref = v
	}
	if v := input("list-files"); v != "" {
		c.ListFormat = v
	}
	if v := input("predicate-quantifier"); v != "" {
		c.Quantifier = v
	}
	if v := input("initial-fetch-depth"); v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid initial-fetch-depth %q: %w", v, err)
		}
		c.InitialFetchDepth = depth
	}
	return nil
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.RulesFile == "" && c.RulesInline == "" {
		return fmt.Errorf("no rule definitions: provide a rule file or inline rules")
	}
	if c.RulesFile != "" && c.RulesInline != "" {
		return fmt.Errorf("rule file and inline rules are mutually exclusive")
	}
	if c.InitialFetchDepth <= 0 {
		return fmt.Errorf("initial fetch depth must be positive, got %d", c.InitialFetchDepth)
	}
	return nil
}
