package git

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// DefaultFetchDepth is the initial number of commits fetched when searching
// for a merge base in a shallow clone.
const DefaultFetchDepth = 10

// CompareMode selects how ChangesBetween establishes its baseline.
type CompareMode int

const (
	// MergeBaseCompare compares against the nearest common ancestor of the
	// base and the current HEAD (three-dot diff), deepening a shallow
	// clone as needed to find one.
	MergeBaseCompare CompareMode = iota
	// DirectCompare compares the two snapshots literally (two-dot diff),
	// without regard to a shared ancestor.
	DirectCompare
)

// Options configures a Discoverer.
type Options struct {
	// Remote is the remote fetched from. Default "origin".
	Remote string
	// HeadRef is the remote-side name of the line of development under
	// comparison, included in fetch refspecs so both sides of the
	// merge-base search gain history. Default "HEAD".
	HeadRef string
	// InitialFetchDepth is the depth of the first shallow fetch.
	// Default DefaultFetchDepth.
	InitialFetchDepth int
	// Warnf receives non-fatal diagnostics, e.g. when the merge-base
	// search is abandoned. Defaults to stderr.
	Warnf func(format string, args ...any)
}

// Discoverer produces change-sets from a git repository. All repository
// mutation (fetching) goes through the Runner; local object and ref lookups
// go through the Inspector. Calls are strictly sequential - the local object
// store is shared mutable state and concurrent fetches into it are unsafe.
type Discoverer struct {
	runner    Runner
	inspector Inspector
	remote    string
	headRef   string
	depth     int
	warnf     func(format string, args ...any)
}

// NewDiscoverer creates a Discoverer over the given runner and inspector.
func NewDiscoverer(runner Runner, inspector Inspector, opts Options) *Discoverer {
	if opts.Remote == "" {
		opts.Remote = "origin"
	}
	if opts.HeadRef == "" {
		opts.HeadRef = "HEAD"
	}
	if opts.InitialFetchDepth <= 0 {
		opts.InitialFetchDepth = DefaultFetchDepth
	}
	if opts.Warnf == nil {
		opts.Warnf = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
		}
	}
	return &Discoverer{
		runner:    runner,
		inspector: inspector,
		remote:    opts.Remote,
		headRef:   opts.HeadRef,
		depth:     opts.InitialFetchDepth,
		warnf:     opts.Warnf,
	}
}

// ChangesInLastCommit compares HEAD against its immediate parent.
func (d *Discoverer) ChangesInLastCommit(ctx context.Context) (ChangeSet, error) {
	if !d.inspector.HasCommit("HEAD^") {
		return nil, &AccessorError{
			Args:     []string{"log", "--name-status", "-n", "1"},
			ExitCode: 128,
			Detail:   "HEAD has no parent commit to compare against",
		}
	}
	out, err := d.run(ctx, "log", "--format=", "--no-renames", "--name-status", "-z", "-n", "1")
	if err != nil {
		return nil, err
	}
	return ParseNameStatus([]byte(out))
}

// ChangesInWorkingTree compares HEAD against the current working state,
// including staged and unstaged modifications.
func (d *Discoverer) ChangesInWorkingTree(ctx context.Context) (ChangeSet, error) {
	out, err := d.run(ctx, "diff", "--no-renames", "--name-status", "-z", "HEAD")
	if err != nil {
		return nil, err
	}
	return ParseNameStatus([]byte(out))
}

// AllTrackedAsAdded lists every tracked file, each reported as added. Used
// when no baseline exists and the caller wants everything treated as new.
func (d *Discoverer) AllTrackedAsAdded(_ context.Context) (ChangeSet, error) {
	files, err := d.inspector.TrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("listing tracked files: %w", err)
	}
	changes := make(ChangeSet, 0, len(files))
	for _, f := range files {
		changes = append(changes, FileChange{Path: f, Status: StatusAdded})
	}
	return dedupe(changes), nil
}

// ChangesBetween compares a base reference against the current HEAD.
func (d *Discoverer) ChangesBetween(ctx context.Context, base string, mode CompareMode) (ChangeSet, error) {
	if base == "" {
		return nil, fmt.Errorf("base reference must not be empty")
	}
	if mode == DirectCompare {
		if err := d.ensureCommit(ctx, base); err != nil {
			return nil, err
		}
		return d.diffRange(ctx, base+"..HEAD")
	}

	fullBase, found, err := d.searchMergeBase(ctx, base)
	if err != nil {
		return nil, err
	}
	if !found {
		d.warnf("could not find a merge base between %q and HEAD after exhausting fetch attempts; falling back to a direct %s..HEAD comparison", base, fullBase)
		return d.diffRange(ctx, fullBase+"..HEAD")
	}
	return d.diffRange(ctx, fullBase+"...HEAD")
}

// ensureCommit makes sure base resolves to a locally present commit,
// fetching a single minimal unit of history for it if necessary.
func (d *Discoverer) ensureCommit(ctx context.Context, base string) error {
	if d.inspector.HasCommit(base) {
		return nil
	}
	if err := d.fetch(ctx, "fetch", "--depth=1", "--no-tags", d.remote, base); err != nil {
		return err
	}
	if !d.inspector.HasCommit(base) {
		return &RefNotFoundError{Ref: base}
	}
	return nil
}

// searchPhase enumerates the states of the merge-base search. Modelling the
// retry loop as an explicit state machine keeps the termination guarantee
// checkable: depth doubling saturates, a stalled commit count forces the
// final phase, and the final phase always returns.
type searchPhase int

const (
	phaseProbe  searchPhase = iota // inspect what is already local
	phaseSeed                      // initial shallow fetch and ref resolution
	phaseDeepen                    // double the depth while history grows
	phaseFinal                     // one unrestricted full-history fetch
)

// searchMergeBase resolves base to a fully-qualified reference and searches
// for a common ancestor with HEAD, deepening the clone as needed.
// It returns the resolved reference and whether a merge base exists; found ==
// false means the caller should fall back to a direct comparison.
func (d *Discoverer) searchMergeBase(ctx context.Context, base string) (fullBase string, found bool, err error) {
	depth := d.depth
	lastCount := 0
	phase := phaseProbe

	for {
		switch phase {
		case phaseProbe:
			if fullBase = d.resolveLocalRef(base); fullBase != "" {
				ok, err := d.hasMergeBase(ctx, fullBase)
				if err != nil {
					return "", false, err
				}
				if ok {
					return fullBase, true, nil
				}
			}
			phase = phaseSeed

		case phaseSeed:
			if err := d.fetchShallow(ctx, depth, false, base); err != nil {
				return "", false, err
			}
			if d.resolveLocalRef(base) == "" {
				// The base may name a tag rather than a branch.
				if err := d.fetchShallow(ctx, depth, true, base); err != nil {
					return "", false, err
				}
			}
			if fullBase = d.resolveLocalRef(base); fullBase == "" {
				return "", false, &RefNotFoundError{Ref: base}
			}
			if lastCount, err = d.commitCount(ctx); err != nil {
				return "", false, err
			}
			phase = phaseDeepen

		case phaseDeepen:
			ok, err := d.hasMergeBase(ctx, fullBase)
			if err != nil {
				return "", false, err
			}
			if ok {
				return fullBase, true, nil
			}
			depth = saturatingDouble(depth)
			if err := d.fetchShallow(ctx, depth, false, base); err != nil {
				return "", false, err
			}
			count, err := d.commitCount(ctx)
			if err != nil {
				return "", false, err
			}
			if count <= lastCount {
				// Deepening added no history; bounded attempts are
				// exhausted.
				phase = phaseFinal
				continue
			}
			lastCount = count

		case phaseFinal:
			if err := d.fetch(ctx, "fetch", d.remote); err != nil {
				return "", false, err
			}
			ok, err := d.hasMergeBase(ctx, fullBase)
			if err != nil {
				return "", false, err
			}
			return fullBase, ok, nil
		}
	}
}

// resolveLocalRef resolves a base reference to a fully-qualified local ref
// name, or "" when nothing matches. When several refs share the short name,
// a tracked remote reference is preferred.
func (d *Discoverer) resolveLocalRef(base string) string {
	if strings.HasPrefix(base, "refs/") {
		if d.inspector.HasCommit(base) {
			return base
		}
		return ""
	}

	refs, err := d.inspector.LocalRefs(base)
	if err != nil || len(refs) == 0 {
		return ""
	}
	if len(refs) > 1 {
		remotePrefix := "refs/remotes/" + d.remote + "/"
		for _, ref := range refs {
			if strings.HasPrefix(ref, remotePrefix) {
				return ref
			}
		}
		d.warnf("reference %q is ambiguous (%s); using %s", base, strings.Join(refs, ", "), refs[0])
	}
	return refs[0]
}

// hasMergeBase reports whether a common ancestor of ref and HEAD exists
// locally. Exit code 1 means "no merge base" and is tolerated.
func (d *Discoverer) hasMergeBase(ctx context.Context, ref string) (bool, error) {
	args := []string{"merge-base", ref, "HEAD"}
	res, err := d.runner.Run(ctx, args...)
	if err != nil {
		return false, fmt.Errorf("running git %s: %w", strings.Join(args, " "), err)
	}
	switch res.ExitCode {
	case 0:
		return true, nil
	case 1:
		return false, nil
	default:
		return false, &AccessorError{Args: args, ExitCode: res.ExitCode, Detail: res.Stderr}
	}
}

// commitCount returns the number of commits reachable from any ref.
func (d *Discoverer) commitCount(ctx context.Context) (int, error) {
	out, err := d.run(ctx, "rev-list", "--count", "--all")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("parse rev-list count %q: %w", strings.TrimSpace(out), err)
	}
	return n, nil
}

// fetchShallow fetches the base and head lines of development at the given
// depth. Failures are tolerated: the surrounding search re-checks repository
// state and retries or falls back on its own.
func (d *Discoverer) fetchShallow(ctx context.Context, depth int, withTags bool, base string) error {
	args := []string{"fetch", fmt.Sprintf("--depth=%d", depth)}
	if withTags {
		args = append(args, "--tags")
	} else {
		args = append(args, "--no-tags")
	}
	args = append(args, d.remote, d.baseRefspec(base), d.headRef)
	return d.fetch(ctx, args...)
}

// baseRefspec builds a fetch refspec that stores the base under the remote's
// tracking namespace, so a later resolveLocalRef can prefer it.
func (d *Discoverer) baseRefspec(base string) string {
	short := base
	if strings.HasPrefix(base, "refs/heads/") {
		short = strings.TrimPrefix(base, "refs/heads/")
	} else if strings.HasPrefix(base, "refs/") {
		return base
	}
	return fmt.Sprintf("+refs/heads/%s:refs/remotes/%s/%s", short, d.remote, short)
}

// fetch runs a fetch, tolerating non-zero exit codes. Only a failure to run
// git at all is returned.
func (d *Discoverer) fetch(ctx context.Context, args ...string) error {
	if _, err := d.runner.Run(ctx, args...); err != nil {
		return fmt.Errorf("running git %s: %w", strings.Join(args, " "), err)
	}
	return nil
}

// diffRange parses the NUL-delimited name-status diff for a range spec.
func (d *Discoverer) diffRange(ctx context.Context, spec string) (ChangeSet, error) {
	out, err := d.run(ctx, "diff", "--no-renames", "--name-status", "-z", spec)
	if err != nil {
		return nil, err
	}
	return ParseNameStatus([]byte(out))
}

// run executes a git subcommand and requires a zero exit code.
func (d *Discoverer) run(ctx context.Context, args ...string) (string, error) {
	res, err := d.runner.Run(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("running git %s: %w", strings.Join(args, " "), err)
	}
	if res.ExitCode != 0 {
		return "", &AccessorError{Args: args, ExitCode: res.ExitCode, Detail: res.Stderr}
	}
	return res.Stdout, nil
}

func saturatingDouble(depth int) int {
	if depth >= math.MaxInt32/2 {
		return math.MaxInt32
	}
	return depth * 2
}
