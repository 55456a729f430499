package filter

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/pathsift/pathsift/internal/git"
)

func changeSetGen() *rapid.Generator[git.ChangeSet] {
	segment := rapid.StringMatching(`[a-z]{1,5}`)
	status := rapid.SampledFrom(git.AllStatuses())
	change := rapid.Custom(func(t *rapid.T) git.FileChange {
		depth := rapid.IntRange(1, 3).Draw(t, "depth")
		parts := make([]string, depth)
		for i := range parts {
			parts[i] = segment.Draw(t, "segment")
		}
		return git.FileChange{
			Path:   strings.Join(parts, "/"),
			Status: status.Draw(t, "status"),
		}
	})
	return rapid.Custom(func(t *rapid.T) git.ChangeSet {
		return rapid.SliceOfN(change, 0, 20).Draw(t, "changes")
	})
}

func rulesGen() *rapid.Generator[[]Rule] {
	pattern := rapid.SampledFrom([]string{
		"**", "*", "**/*", "a*/**", "**/b*", "x/**", "*/*",
	})
	clause := rapid.Custom(func(t *rapid.T) Clause {
		var statuses []git.ChangeStatus
		if rapid.Bool().Draw(t, "qualified") {
			statuses = rapid.SliceOfN(rapid.SampledFrom(git.AllStatuses()), 1, 3).Draw(t, "statuses")
		}
		return Clause{
			Statuses: statuses,
			Pattern:  pattern.Draw(t, "pattern"),
			Negate:   rapid.Bool().Draw(t, "negate"),
		}
	})
	rule := rapid.Custom(func(t *rapid.T) Rule {
		return Rule{
			Name:    rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "name"),
			Clauses: rapid.SliceOfN(clause, 0, 4).Draw(t, "clauses"),
		}
	})
	return rapid.SliceOfN(rule, 0, 5)
}

func TestEvaluate_FilesAreSubsetOfChangeSet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rules := rulesGen().Draw(t, "rules")
		changes := changeSetGen().Draw(t, "changes")

		paths := make(map[string]bool, len(changes))
		for _, c := range changes {
			paths[c.Path] = true
		}

		for _, r := range Evaluate(rules, changes) {
			seen := make(map[string]bool, len(r.Files))
			for _, f := range r.Files {
				if !paths[f] {
					t.Fatalf("rule %q matched %q which is not in the change-set", r.Rule, f)
				}
				if seen[f] {
					t.Fatalf("rule %q reported %q twice", r.Rule, f)
				}
				seen[f] = true
			}
			if r.Count != len(r.Files) {
				t.Fatalf("rule %q Count = %d, want %d", r.Rule, r.Count, len(r.Files))
			}
			if r.Matched != (len(r.Files) > 0) {
				t.Fatalf("rule %q Matched = %v with %d files", r.Rule, r.Matched, len(r.Files))
			}
		}
	})
}

func TestEvaluate_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rules := rulesGen().Draw(t, "rules")
		changes := changeSetGen().Draw(t, "changes")
		q := rapid.SampledFrom([]Quantifier{QuantifierSome, QuantifierEvery}).Draw(t, "quantifier")

		first := EvaluateWith(rules, changes, EvalOptions{Quantifier: q})
		second := EvaluateWith(rules, changes, EvalOptions{Quantifier: q})

		if len(first) != len(second) {
			t.Fatalf("result counts differ: %d vs %d", len(first), len(second))
		}
		for i := range first {
			a, b := first[i], second[i]
			if a.Rule != b.Rule || a.Matched != b.Matched || a.Count != b.Count {
				t.Fatalf("results[%d] differ: %+v vs %+v", i, a, b)
			}
			for j := range a.Files {
				if a.Files[j] != b.Files[j] {
					t.Fatalf("results[%d].Files differ: %v vs %v", i, a.Files, b.Files)
				}
			}
		}
	})
}

func TestEvaluate_EveryIsSubsetOfSome(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rules := rulesGen().Draw(t, "rules")
		changes := changeSetGen().Draw(t, "changes")

		some := EvaluateWith(rules, changes, EvalOptions{Quantifier: QuantifierSome})
		every := EvaluateWith(rules, changes, EvalOptions{Quantifier: QuantifierEvery})

		for i := range every {
			inSome := make(map[string]bool, len(some[i].Files))
			for _, f := range some[i].Files {
				inSome[f] = true
			}
			for _, f := range every[i].Files {
				if !inSome[f] {
					t.Fatalf("rule %q: %q matched under every but not some", every[i].Rule, f)
				}
			}
		}
	})
}

func TestEvaluate_NegationNeverGrowsMatchSet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		changes := changeSetGen().Draw(t, "changes")
		base := Rule{Name: "r", Clauses: []Clause{{Pattern: "**"}}}
		negated := Rule{Name: "r", Clauses: []Clause{
			{Pattern: "**"},
			{Pattern: rapid.SampledFrom([]string{"**", "a*/**", "*/*"}).Draw(t, "neg"), Negate: true},
		}}

		before := Evaluate([]Rule{base}, changes)[0]
		after := Evaluate([]Rule{negated}, changes)[0]

		if after.Count > before.Count {
			t.Fatalf("negation grew the match set: %d -> %d", before.Count, after.Count)
		}
		inBefore := make(map[string]bool, len(before.Files))
		for _, f := range before.Files {
			inBefore[f] = true
		}
		for _, f := range after.Files {
			if !inBefore[f] {
				t.Fatalf("%q appeared only after adding a negation clause", f)
			}
		}
	})
}
