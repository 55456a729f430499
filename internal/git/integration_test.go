package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestDiscoverer_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git executable not available")
	}

	// Create a temporary git repo
	dir := t.TempDir()

	runGit := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Test",
			"GIT_AUTHOR_EMAIL=test@test.com",
			"GIT_COMMITTER_NAME=Test",
			"GIT_COMMITTER_EMAIL=test@test.com",
		)
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("git %v failed: %v: %s", args, err, string(out))
		}
	}

	writeFile := func(name, content string) {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	runGit("init", "-b", "main")
	writeFile("base.go", "package main\n")
	writeFile("docs/readme.md", "# readme\n")
	runGit("add", ".")
	runGit("commit", "-m", "initial commit")

	runGit("checkout", "-b", "feature")
	writeFile("added.go", "package added\n")
	writeFile("base.go", "package main\n// modified\n")
	runGit("add", ".")
	runGit("commit", "-m", "feature changes")

	disc := NewDiscoverer(
		&ExecRunner{RepoPath: dir},
		&StoreInspector{RepoPath: dir},
		Options{Warnf: func(format string, args ...any) {
			t.Logf("warning: "+format, args...)
		}},
	)
	ctx := context.Background()

	t.Run("merge base comparison", func(t *testing.T) {
		changes, err := disc.ChangesBetween(ctx, "main", MergeBaseCompare)
		if err != nil {
			t.Fatalf("ChangesBetween failed: %v", err)
		}
		byPath := make(map[string]ChangeStatus, len(changes))
		for _, c := range changes {
			byPath[c.Path] = c.Status
		}
		if len(byPath) != 2 {
			t.Fatalf("expected 2 changed files, got %+v", changes)
		}
		if byPath["added.go"] != StatusAdded {
			t.Errorf("added.go status = %v, want %v", byPath["added.go"], StatusAdded)
		}
		if byPath["base.go"] != StatusModified {
			t.Errorf("base.go status = %v, want %v", byPath["base.go"], StatusModified)
		}
	})

	t.Run("last commit", func(t *testing.T) {
		changes, err := disc.ChangesInLastCommit(ctx)
		if err != nil {
			t.Fatalf("ChangesInLastCommit failed: %v", err)
		}
		if len(changes) != 2 {
			t.Fatalf("expected 2 changed files, got %+v", changes)
		}
	})

	t.Run("working tree", func(t *testing.T) {
		writeFile("added.go", "package added\n// dirty\n")
		defer writeFile("added.go", "package added\n")

		changes, err := disc.ChangesInWorkingTree(ctx)
		if err != nil {
			t.Fatalf("ChangesInWorkingTree failed: %v", err)
		}
		if len(changes) != 1 || changes[0].Path != "added.go" || changes[0].Status != StatusModified {
			t.Fatalf("unexpected change-set: %+v", changes)
		}
	})

	t.Run("all tracked", func(t *testing.T) {
		changes, err := disc.AllTrackedAsAdded(ctx)
		if err != nil {
			t.Fatalf("AllTrackedAsAdded failed: %v", err)
		}
		if len(changes) != 3 {
			t.Fatalf("expected 3 tracked files, got %+v", changes)
		}
		for _, c := range changes {
			if c.Status != StatusAdded {
				t.Errorf("%s status = %v, want %v", c.Path, c.Status, StatusAdded)
			}
		}
	})

	t.Run("direct comparison by hash", func(t *testing.T) {
		cmd := exec.Command("git", "-C", dir, "rev-parse", "main")
		out, err := cmd.Output()
		if err != nil {
			t.Fatal(err)
		}
		sha := string(out[:40])

		changes, err := disc.ChangesBetween(ctx, sha, DirectCompare)
		if err != nil {
			t.Fatalf("ChangesBetween failed: %v", err)
		}
		if len(changes) != 2 {
			t.Fatalf("expected 2 changed files, got %+v", changes)
		}
	})
}
