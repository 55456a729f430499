package filter

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/pathsift/pathsift/internal/git"
)

// EvalOptions controls rule evaluation.
type EvalOptions struct {
	Quantifier Quantifier
}

// Evaluate evaluates every rule against a change-set with default options.
// Evaluation is pure: it holds no state and may be invoked repeatedly or
// concurrently on independent change-sets.
func Evaluate(rules []Rule, changes git.ChangeSet) []RuleResult {
	return EvaluateWith(rules, changes, EvalOptions{})
}

// EvaluateWith evaluates every rule against a change-set. Results keep the
// declaration order of the rules; per-rule file lists keep change-set order.
func EvaluateWith(rules []Rule, changes git.ChangeSet, opts EvalOptions) []RuleResult {
	results := make([]RuleResult, 0, len(rules))
	for _, rule := range rules {
		files := matchRule(rule, changes, opts.Quantifier)
		results = append(results, RuleResult{
			Rule:    rule.Name,
			Matched: len(files) > 0,
			Files:   files,
			Count:   len(files),
		})
	}
	return results
}

// MatchedNames returns the names of all matched rules, in result order.
func MatchedNames(results []RuleResult) []string {
	names := make([]string, 0, len(results))
	for _, r := range results {
		if r.Matched {
			names = append(names, r.Rule)
		}
	}
	return names
}

// ErrorMatched reports whether the conventional "error" rule matched,
// flagging the whole evaluation as a hard failure condition.
func ErrorMatched(results []RuleResult) bool {
	for _, r := range results {
		if r.Rule == ErrorRuleName && r.Matched {
			return true
		}
	}
	return false
}

// matchRule computes the match set of one rule. A rule with zero clauses
// never matches. Positive clauses add files (any clause under
// QuantifierSome, all positive clauses under QuantifierEvery); negated
// clauses remove previously matched files, evaluated in clause order.
func matchRule(rule Rule, changes git.ChangeSet, q Quantifier) []string {
	if len(rule.Clauses) == 0 || len(changes) == 0 {
		return []string{}
	}

	matched := make(map[string]bool, len(changes))

	if q == QuantifierEvery {
		for _, change := range changes {
			if matchesEveryPositive(rule.Clauses, change) {
				matched[change.Path] = true
			}
		}
		for _, clause := range rule.Clauses {
			if !clause.Negate {
				continue
			}
			for _, change := range changes {
				if matched[change.Path] && clauseMatches(clause, change) {
					delete(matched, change.Path)
				}
			}
		}
	} else {
		for _, clause := range rule.Clauses {
			if clause.Negate {
				for _, change := range changes {
					if matched[change.Path] && clauseMatches(clause, change) {
						delete(matched, change.Path)
					}
				}
				continue
			}
			for _, change := range changes {
				if clauseMatches(clause, change) {
					matched[change.Path] = true
				}
			}
		}
	}

	// Change-set order, de-duplicated.
	files := make([]string, 0, len(matched))
	emitted := make(map[string]bool, len(matched))
	for _, change := range changes {
		if matched[change.Path] && !emitted[change.Path] {
			files = append(files, change.Path)
			emitted[change.Path] = true
		}
	}
	return files
}

// matchesEveryPositive reports whether a change satisfies all positive
// clauses of a rule. A rule without positive clauses matches nothing.
func matchesEveryPositive(clauses []Clause, change git.FileChange) bool {
	positives := 0
	for _, clause := range clauses {
		if clause.Negate {
			continue
		}
		positives++
		if !clauseMatches(clause, change) {
			return false
		}
	}
	return positives > 0
}

// clauseMatches reports whether one clause matches one file change.
// Matching is case-sensitive and evaluated against the full relative path.
func clauseMatches(clause Clause, change git.FileChange) bool {
	if !clause.statusAllows(change.Status) {
		return false
	}
	ok, err := doublestar.Match(clause.Pattern, change.Path)
	return err == nil && ok
}
