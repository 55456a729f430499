package git

import (
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Inspector performs read-only lookups against the local object/ref store.
// It never touches the network; everything that fetches goes through Runner.
type Inspector interface {
	// HasCommit reports whether rev resolves to a commit that is present
	// locally. rev may be a SHA, a ref name, or a revision expression
	// such as "HEAD^".
	HasCommit(rev string) bool

	// LocalRefs returns the fully-qualified names of local references
	// matching a short name, e.g. "main" matches "refs/heads/main",
	// "refs/remotes/origin/main" and "refs/tags/main".
	LocalRefs(shortName string) ([]string, error)

	// TrackedFiles lists every path currently recorded in the index.
	TrackedFiles() ([]string, error)
}

// StoreInspector reads the repository through go-git. The repository is
// re-opened on every call so that objects added by fetches issued between
// calls are always visible.
type StoreInspector struct {
	RepoPath string
}

// Compile-time interface conformance check.
var _ Inspector = (*StoreInspector)(nil)

func (s *StoreInspector) open() (*gogit.Repository, error) {
	return gogit.PlainOpenWithOptions(s.RepoPath, &gogit.PlainOpenOptions{DetectDotGit: true})
}

// HasCommit reports whether rev resolves to a locally present commit.
func (s *StoreInspector) HasCommit(rev string) bool {
	repo, err := s.open()
	if err != nil {
		return false
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return false
	}
	_, err = repo.CommitObject(*hash)
	return err == nil
}

// LocalRefs returns fully-qualified local references matching shortName.
func (s *StoreInspector) LocalRefs(shortName string) ([]string, error) {
	repo, err := s.open()
	if err != nil {
		return nil, err
	}

	iter, err := repo.References()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var matches []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().String()
		if refMatchesShortName(name, shortName) {
			matches = append(matches, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// TrackedFiles lists every path in the index.
func (s *StoreInspector) TrackedFiles() ([]string, error) {
	repo, err := s.open()
	if err != nil {
		return nil, err
	}

	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(idx.Entries))
	for _, entry := range idx.Entries {
		files = append(files, entry.Name)
	}
	return files, nil
}

// refMatchesShortName reports whether a fully-qualified ref name corresponds
// to the given short name under the usual heads/tags/remotes prefixes.
func refMatchesShortName(full, short string) bool {
	if full == short {
		return true
	}
	if !strings.HasSuffix(full, "/"+strings.TrimPrefix(short, "/")) {
		return false
	}
	prefix := strings.TrimSuffix(full, "/"+strings.TrimPrefix(short, "/"))
	switch {
	case prefix == "refs/heads", prefix == "refs/tags":
		return true
	case strings.HasPrefix(prefix, "refs/remotes/") && !strings.Contains(strings.TrimPrefix(prefix, "refs/remotes/"), "/"):
		return true
	}
	return false
}
