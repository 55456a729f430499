package git

// ChangeStatus represents the type of change reported for a file.
type ChangeStatus int

const (
	StatusAdded ChangeStatus = iota
	StatusCopied
	StatusDeleted
	StatusModified
	StatusRenamed
	StatusUnmerged
)

// String returns a string representation of the change status.
func (s ChangeStatus) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusCopied:
		return "copied"
	case StatusDeleted:
		return "deleted"
	case StatusModified:
		return "modified"
	case StatusRenamed:
		return "renamed"
	case StatusUnmerged:
		return "unmerged"
	default:
		return "unknown"
	}
}

// AllStatuses lists every change status, in declaration order.
func AllStatuses() []ChangeStatus {
	return []ChangeStatus{
		StatusAdded,
		StatusCopied,
		StatusDeleted,
		StatusModified,
		StatusRenamed,
		StatusUnmerged,
	}
}

// ParseChangeStatus maps a git status code ("A", "M", "R100", ...) to a
// ChangeStatus. Rename/copy codes carry a similarity score suffix; only the
// leading letter is significant.
func ParseChangeStatus(code string) (ChangeStatus, bool) {
	if code == "" {
		return 0, false
	}
	switch code[0] {
	case 'A':
		return StatusAdded, true
	case 'C':
		return StatusCopied, true
	case 'D':
		return StatusDeleted, true
	case 'M':
		return StatusModified, true
	case 'R':
		return StatusRenamed, true
	case 'U':
		return StatusUnmerged, true
	default:
		return 0, false
	}
}

// FileChange is a single changed file within a change-set.
// Paths are repository-relative and forward-slash separated.
type FileChange struct {
	Path   string
	Status ChangeStatus
}

// ChangeSet is an ordered collection of file changes. The order is the order
// reported by the underlying comparison; callers must not assume it is sorted.
// A change-set contains at most one entry per path.
type ChangeSet []FileChange

// Paths returns the paths of all changes in change-set order.
func (cs ChangeSet) Paths() []string {
	paths := make([]string, len(cs))
	for i, c := range cs {
		paths[i] = c.Path
	}
	return paths
}

// dedupe removes entries whose path was already seen, keeping the first
// occurrence. Diff output normally has unique paths; this guards the
// at-most-one-record-per-path invariant against odd accessor output.
func dedupe(cs ChangeSet) ChangeSet {
	seen := make(map[string]struct{}, len(cs))
	out := cs[:0]
	for _, c := range cs {
		if _, ok := seen[c.Path]; ok {
			continue
		}
		seen[c.Path] = struct{}{}
		out = append(out, c)
	}
	return out
}
