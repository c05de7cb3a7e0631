package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestVersionGetters(t *testing.T) {
	oldVersion, oldBuild, oldCommit := Version, Build, GitCommit
	t.Cleanup(func() { Version, Build, GitCommit = oldVersion, oldBuild, oldCommit })
	Version, Build, GitCommit = "2.1.0", "2026-10-01T10:00:00Z", "abc1234"

	if GetVersion() != "2.1.0" || GetBuild() != "2026-10-01T10:00:00Z" || GetGitCommit() != "abc1234" {
		t.Errorf("unexpected getters: %s %s %s", GetVersion(), GetBuild(), GetGitCommit())
	}
}

func TestLoadVersionFile_FillsDefaults(t *testing.T) {
	oldBuild, oldCommit := Build, GitCommit
	t.Cleanup(func() { Build, GitCommit = oldBuild, oldCommit })
	Build, GitCommit = "unknown", "unknown"

	path := filepath.Join(t.TempDir(), ".version")
	content := "# generated\nbuild: 2026-10-01T10:00:00Z\ncommit: abc1234\nbogus line\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	loadVersionFile(path)

	if Build != "2026-10-01T10:00:00Z" {
		t.Errorf("expected build from file, got %q", Build)
	}
	if GitCommit != "abc1234" {
		t.Errorf("expected commit from file, got %q", GitCommit)
	}
}

func TestLoadVersionFile_DoesNotOverrideLdflags(t *testing.T) {
	oldBuild := Build
	t.Cleanup(func() { Build = oldBuild })
	Build = "from-ldflags"

	path := filepath.Join(t.TempDir(), ".version")
	if err := os.WriteFile(path, []byte("build: from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}

	loadVersionFile(path)

	if Build != "from-ldflags" {
		t.Errorf("expected ldflags value to win, got %q", Build)
	}
}

func TestLoadVersionFile_Missing(t *testing.T) {
	// Must not panic
	loadVersionFile(filepath.Join(t.TempDir(), "nope"))
}
