package filter

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/pathsift/pathsift/internal/git"
)

// LoadRulesFile reads and parses a YAML rule file.
func LoadRulesFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Msg: fmt.Sprintf("reading rule file %q", path), Err: err}
	}
	return ParseRules(data)
}

// ParseRules parses YAML rule definitions. The document is a mapping from
// rule name to an ordered sequence of clauses; each clause is either a bare
// glob string (any status) or a mapping of status qualifiers to glob(s):
//
//	docs:
//	  - "docs/**"
//	src:
//	  - added|modified: "src/**/*.go"
//	  - "!src/generated/**"
//
// The document is walked as a node tree so that rule order is preserved and
// duplicate rule names are rejected instead of silently merged.
func ParseRules(data []byte) ([]Rule, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigurationError{Msg: "parsing YAML", Err: err}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, &ConfigurationError{Msg: "rule source is empty"}
	}

	root := resolveAlias(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, &ConfigurationError{Msg: fmt.Sprintf("expected a mapping of rule names at the top level, got %s", nodeKind(root))}
	}

	rules := make([]Rule, 0, len(root.Content)/2)
	seen := make(map[string]struct{}, len(root.Content)/2)

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode := root.Content[i]
		valNode := resolveAlias(root.Content[i+1])

		name := keyNode.Value
		if name == "" {
			return nil, &ConfigurationError{Msg: fmt.Sprintf("empty rule name at line %d", keyNode.Line)}
		}
		if _, dup := seen[name]; dup {
			return nil, &ConfigurationError{Msg: fmt.Sprintf("duplicate rule name %q at line %d", name, keyNode.Line)}
		}
		seen[name] = struct{}{}

		clauses, err := parseClauses(name, valNode)
		if err != nil {
			return nil, err
		}
		rules = append(rules, Rule{Name: name, Clauses: clauses})
	}

	return rules, nil
}

// parseClauses parses the value of one rule: a sequence of clause nodes or a
// single clause node.
func parseClauses(rule string, node *yaml.Node) ([]Clause, error) {
	var items []*yaml.Node
	switch node.Kind {
	case yaml.SequenceNode:
		items = node.Content
	case yaml.ScalarNode, yaml.MappingNode:
		items = []*yaml.Node{node}
	default:
		return nil, &ConfigurationError{Msg: fmt.Sprintf("rule %q: expected a clause list, got %s (line %d)", rule, nodeKind(node), node.Line)}
	}

	var clauses []Clause
	for _, item := range items {
		item = resolveAlias(item)
		switch item.Kind {
		case yaml.ScalarNode:
			cl, err := newClause(rule, nil, item.Value, item.Line)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, cl)
		case yaml.MappingNode:
			for j := 0; j+1 < len(item.Content); j += 2 {
				keyNode := item.Content[j]
				valNode := resolveAlias(item.Content[j+1])

				statuses, err := parseStatusKey(rule, keyNode.Value, keyNode.Line)
				if err != nil {
					return nil, err
				}

				globs, err := scalarOrSequence(rule, valNode)
				if err != nil {
					return nil, err
				}
				for _, glob := range globs {
					cl, err := newClause(rule, statuses, glob, valNode.Line)
					if err != nil {
						return nil, err
					}
					clauses = append(clauses, cl)
				}
			}
		default:
			return nil, &ConfigurationError{Msg: fmt.Sprintf("rule %q: clause must be a glob string or a status mapping, got %s (line %d)", rule, nodeKind(item), item.Line)}
		}
	}

	return clauses, nil
}

// newClause builds a clause, stripping negation and validating the pattern.
func newClause(rule string, statuses []git.ChangeStatus, glob string, line int) (Clause, error) {
	negate := strings.HasPrefix(glob, "!")
	pattern := strings.TrimPrefix(glob, "!")
	if pattern == "" {
		return Clause{}, &ConfigurationError{Msg: fmt.Sprintf("rule %q: empty glob pattern (line %d)", rule, line)}
	}
	if !doublestar.ValidatePattern(pattern) {
		return Clause{}, &ConfigurationError{Msg: fmt.Sprintf("rule %q: invalid glob pattern %q (line %d)", rule, pattern, line)}
	}
	return Clause{Statuses: statuses, Pattern: pattern, Negate: negate}, nil
}

// parseStatusKey parses a status-qualifier key: one or more status names
// separated by "|" or ",", or the any-status wildcard.
func parseStatusKey(rule, key string, line int) ([]git.ChangeStatus, error) {
	key = strings.TrimSpace(key)
	if key == "*" || strings.EqualFold(key, "any") {
		return nil, nil
	}

	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '|' || r == ',' })
	statuses := make([]git.ChangeStatus, 0, len(parts))
	for _, part := range parts {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		status, ok := statusByName(part)
		if !ok {
			return nil, &ConfigurationError{Msg: fmt.Sprintf("rule %q: unknown change status %q (line %d)", rule, part, line)}
		}
		statuses = append(statuses, status)
	}
	if len(statuses) == 0 {
		return nil, &ConfigurationError{Msg: fmt.Sprintf("rule %q: empty status qualifier %q (line %d)", rule, key, line)}
	}
	return statuses, nil
}

func statusByName(name string) (git.ChangeStatus, bool) {
	for _, s := range git.AllStatuses() {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

// scalarOrSequence flattens a scalar node or a sequence of scalars into
// strings.
func scalarOrSequence(rule string, node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return []string{node.Value}, nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			item = resolveAlias(item)
			if item.Kind != yaml.ScalarNode {
				return nil, &ConfigurationError{Msg: fmt.Sprintf("rule %q: expected a glob string, got %s (line %d)", rule, nodeKind(item), item.Line)}
			}
			out = append(out, item.Value)
		}
		return out, nil
	default:
		return nil, &ConfigurationError{Msg: fmt.Sprintf("rule %q: expected a glob string or list, got %s (line %d)", rule, nodeKind(node), node.Line)}
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

func nodeKind(node *yaml.Node) string {
	switch node.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown node"
	}
}
