package git

import "context"

// MockRunner is a test double for Runner. It records every invocation and
// delegates to a handler, allowing tests to simulate fetch/deepen sequences
// deterministically without a real repository.
type MockRunner struct {
	// Handler produces the result for one invocation. A nil handler
	// returns an empty successful result.
	Handler func(args []string) RunResult
	// Err, when set, is returned from every call (simulates a missing
	// git executable).
	Err error
	// Calls records the arguments of every invocation, in order.
	Calls [][]string
}

// Run records the call and delegates to the handler.
func (m *MockRunner) Run(_ context.Context, args ...string) (RunResult, error) {
	m.Calls = append(m.Calls, args)
	if m.Err != nil {
		return RunResult{}, m.Err
	}
	if m.Handler == nil {
		return RunResult{}, nil
	}
	return m.Handler(args), nil
}

// Compile-time interface conformance check.
var _ Runner = (*MockRunner)(nil)

// MockInspector is a test double for Inspector backed by static data.
type MockInspector struct {
	// Commits holds revisions considered locally present.
	Commits map[string]bool
	// Refs maps short names to fully-qualified candidate refs.
	Refs map[string][]string
	// Tracked lists index paths returned by TrackedFiles.
	Tracked []string
	// TrackedErr, when set, is returned by TrackedFiles.
	TrackedErr error
	// HasCommitFunc, when set, overrides the Commits map lookup.
	HasCommitFunc func(rev string) bool
}

// HasCommit reports presence from HasCommitFunc or the Commits map.
func (m *MockInspector) HasCommit(rev string) bool {
	if m.HasCommitFunc != nil {
		return m.HasCommitFunc(rev)
	}
	return m.Commits[rev]
}

// LocalRefs returns the configured candidates for a short name.
func (m *MockInspector) LocalRefs(shortName string) ([]string, error) {
	return m.Refs[shortName], nil
}

// TrackedFiles returns the configured index listing.
func (m *MockInspector) TrackedFiles() ([]string, error) {
	if m.TrackedErr != nil {
		return nil, m.TrackedErr
	}
	return m.Tracked, nil
}

// Compile-time interface conformance check.
var _ Inspector = (*MockInspector)(nil)
