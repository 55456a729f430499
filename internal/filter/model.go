package filter

import (
	"fmt"

	"github.com/pathsift/pathsift/internal/git"
)

// ErrorRuleName is the conventional rule name that escalates a match into a
// hard failure condition for the caller.
const ErrorRuleName = "error"

// Clause is a single pattern clause of a rule, resolved into a uniform
// representation at load time regardless of how it was written in the source
// (bare glob or status-qualified mapping).
type Clause struct {
	// Statuses restricts the clause to the given change statuses.
	// nil means any status; an empty non-nil set is an explicit
	// contradiction and matches nothing.
	Statuses []git.ChangeStatus
	// Pattern is the glob pattern with any leading "!" stripped.
	Pattern string
	// Negate marks an exclusion clause: it removes files matched by
	// earlier clauses of the same rule.
	Negate bool
}

// statusAllows reports whether the clause applies to a change status.
func (c Clause) statusAllows(s git.ChangeStatus) bool {
	if c.Statuses == nil {
		return true
	}
	for _, allowed := range c.Statuses {
		if allowed == s {
			return true
		}
	}
	return false
}

// Rule is a named, ordered group of pattern clauses.
type Rule struct {
	Name    string
	Clauses []Clause
}

// RuleResult is the evaluation outcome for one rule. Count always equals
// len(Files); Files holds matched paths in change-set order.
type RuleResult struct {
	Rule    string   `json:"rule"`
	Matched bool     `json:"matched"`
	Files   []string `json:"files"`
	Count   int      `json:"count"`
}

// Quantifier controls how a file must relate to a rule's positive clauses.
type Quantifier int

const (
	// QuantifierSome includes a file when at least one positive clause
	// matches it. This is the default.
	QuantifierSome Quantifier = iota
	// QuantifierEvery includes a file only when every positive clause
	// matches it.
	QuantifierEvery
)

// ParseQuantifier parses a quantifier name ("some" or "every").
func ParseQuantifier(s string) (Quantifier, error) {
	switch s {
	case "", "some":
		return QuantifierSome, nil
	case "every":
		return QuantifierEvery, nil
	default:
		return 0, &ConfigurationError{Msg: fmt.Sprintf("unknown quantifier %q (expected \"some\" or \"every\")", s)}
	}
}
