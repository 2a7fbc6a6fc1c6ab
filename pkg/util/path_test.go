package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveFromPrefersBaseDir(t *testing.T) {
	base, work := t.TempDir(), t.TempDir()
	chdir(t, work)
	for _, dir := range []string{base, work} {
		if err := os.WriteFile(filepath.Join(dir, "model.yaml"), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if got := resolveFrom(base, "model.yaml"); got != filepath.Join(base, "model.yaml") {
		t.Fatalf("got %s", got)
	}
}

func TestResolveFromFallsBackToWorkingDir(t *testing.T) {
	base, work := t.TempDir(), t.TempDir()
	chdir(t, work)
	if err := os.WriteFile("series.csv", []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := resolveFrom(base, "series.csv"); got != "series.csv" {
		t.Fatalf("got %s", got)
	}
	if got := resolveFrom(base, "missing.csv"); got != filepath.Join(base, "missing.csv") {
		t.Fatalf("missing file should resolve under base, got %s", got)
	}
}

func TestResolvePathKeepsAbsolute(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "a.csv")
	if got := ResolvePath(abs); got != abs {
		t.Fatalf("got %s", got)
	}
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
