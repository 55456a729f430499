package git

import "testing"

func TestParseChangeStatus(t *testing.T) {
	tests := []struct {
		code   string
		want   ChangeStatus
		wantOK bool
	}{
		{"A", StatusAdded, true},
		{"C", StatusCopied, true},
		{"D", StatusDeleted, true},
		{"M", StatusModified, true},
		{"R", StatusRenamed, true},
		{"R100", StatusRenamed, true},
		{"C62", StatusCopied, true},
		{"U", StatusUnmerged, true},
		{"", 0, false},
		{"X", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseChangeStatus(tt.code)
		if ok != tt.wantOK {
			t.Errorf("ParseChangeStatus(%q) ok = %v, want %v", tt.code, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseChangeStatus(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestChangeStatus_String(t *testing.T) {
	tests := []struct {
		status ChangeStatus
		want   string
	}{
		{StatusAdded, "added"},
		{StatusCopied, "copied"},
		{StatusDeleted, "deleted"},
		{StatusModified, "modified"},
		{StatusRenamed, "renamed"},
		{StatusUnmerged, "unmerged"},
		{ChangeStatus(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestChangeSet_Paths(t *testing.T) {
	cs := ChangeSet{
		{Path: "b.go", Status: StatusModified},
		{Path: "a.go", Status: StatusAdded},
	}
	paths := cs.Paths()
	if len(paths) != 2 || paths[0] != "b.go" || paths[1] != "a.go" {
		t.Errorf("Paths() = %v, want change-set order preserved", paths)
	}
}
