package git

import (
	"bytes"
	"fmt"
)

// ParseNameStatus parses NUL-delimited `--name-status -z` output into a
// change-set. The stream is a flat sequence of tokens separated by NUL,
// alternating status code and path:
//
//	A\0foo.txt\0D\0bar.txt\0
//
// Rename/copy codes carry a similarity score ("R100") which is stripped
// before lookup. Trailing empty tokens (from a trailing NUL, or none) are
// tolerated. Diffs are run with --no-renames, so every record is a
// (status, path) pair; two-path rename records never occur.
func ParseNameStatus(data []byte) (ChangeSet, error) {
	tokens := bytes.Split(data, []byte{0x00})

	changes := make(ChangeSet, 0, len(tokens)/2)
	i := 0
	for i < len(tokens) {
		code := string(bytes.TrimSpace(tokens[i]))
		if code == "" {
			i++
			continue
		}

		if i+1 >= len(tokens) {
			return nil, fmt.Errorf("unexpected diff output: status %q has no path token", code)
		}
		path := string(tokens[i+1])
		if path == "" {
			return nil, fmt.Errorf("unexpected diff output: empty path for status %q", code)
		}

		status, ok := ParseChangeStatus(code)
		if !ok {
			return nil, fmt.Errorf("unexpected diff output: unknown status code %q", code)
		}

		changes = append(changes, FileChange{Path: path, Status: status})
		i += 2
	}

	return dedupe(changes), nil
}
