package config

import (
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.RepoPath != "." {
		t.Errorf("RepoPath = %q, want %q", c.RepoPath, ".")
	}
	if c.Remote != "origin" {
		t.Errorf("Remote = %q, want %q", c.Remote, "origin")
	}
	if c.InitialFetchDepth != 10 {
		t.Errorf("InitialFetchDepth = %d, want 10", c.InitialFetchDepth)
	}
	if c.ListFormat != "none" || c.Quantifier != "some" {
		t.Errorf("defaults wrong: %+v", c)
	}
}

func TestApplyInputs(t *testing.T) {
	inputs := map[string]string{
		"working-directory":    "/repo",
		"filters":              ".github/filters.yml",
		"base":                 "main",
		"ref":                  "feature",
		"list-files":           "shell",
		"predicate-quantifier": "every",
		"initial-fetch-depth":  "50",
	}

	c := Default()
	if err := c.ApplyInputs(func(name string) string { return inputs[name] }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.RepoPath != "/repo" || c.Base != "main" || c.Ref != "feature" {
		t.Errorf("inputs not applied: %+v", c)
	}
	if c.RulesFile != ".github/filters.yml" || c.RulesInline != "" {
		t.Errorf("single-line filters should be a file path: %+v", c)
	}
	if c.ListFormat != "shell" || c.Quantifier != "every" || c.InitialFetchDepth != 50 {
		t.Errorf("inputs not applied: %+v", c)
	}
}

func TestApplyInputs_InlineFilters(t *testing.T) {
	inline := "docs:\n  - docs/**\n"
	c := Default()
	if err := c.ApplyInputs(func(name string) string {
		if name == "filters" {
			return inline
		}
		return ""
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.RulesInline != inline || c.RulesFile != "" {
		t.Errorf("multiline filters should be inline rule source: %+v", c)
	}
}

func TestApplyInputs_EmptyLeavesDefaults(t *testing.T) {
	c := Default()
	if err := c.ApplyInputs(func(string) string { return "" }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *c != *Default() {
		t.Errorf("empty inputs must not change defaults: %+v", c)
	}
}

func TestApplyInputs_BadDepth(t *testing.T) {
	c := Default()
	err := c.ApplyInputs(func(name string) string {
		if name == "initial-fetch-depth" {
			return "lots"
		}
		return ""
	})
	if err == nil || !strings.Contains(err.Error(), "initial-fetch-depth") {
		t.Fatalf("expected a depth parse error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	c := Default()
	c.RulesFile = "filters.yml"
	if err := c.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	c = Default()
	if err := c.Validate(); err == nil {
		t.Error("expected error when no rule source is given")
	}

	c = Default()
	c.RulesFile = "filters.yml"
	c.RulesInline = "docs: [docs/**]"
	if err := c.Validate(); err == nil {
		t.Error("expected error for both rule sources at once")
	}

	c = Default()
	c.RulesFile = "filters.yml"
	c.InitialFetchDepth = 0
	if err := c.Validate(); err == nil {
		t.Error("expected error for non-positive fetch depth")
	}
}
