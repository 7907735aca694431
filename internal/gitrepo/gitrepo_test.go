package gitrepo

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	// Commits need an identity; keep the user's global config out of it.
	t.Setenv("GIT_CONFIG_GLOBAL", filepath.Join(t.TempDir(), "gitconfig"))
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_AUTHOR_NAME", "Test Author")
	t.Setenv("GIT_AUTHOR_EMAIL", "author@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test Author")
	t.Setenv("GIT_COMMITTER_EMAIL", "author@example.com")
}

func TestInitCreatesInitialCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# app\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Init(dir); err != nil {
		t.Fatalf("Init() error: %v", err)
	}

	cmd := exec.Command("git", "log", "--format=%s")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("git log: %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != InitialCommitMessage {
		t.Errorf("commit subject = %q, want %q", got, InitialCommitMessage)
	}
}

func TestInitSkipsExistingWorkTree(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Init(dir); err != nil {
		t.Fatalf("Init() error: %v", err)
	}

	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := Init(sub); err != nil {
		t.Fatalf("Init(nested) error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(sub, ".git")); err == nil {
		t.Error("nested directory should not get its own repository")
	}
}

func TestUserConfigMissingKey(t *testing.T) {
	requireGit(t)
	if got := UserConfig("createkit.nonexistent"); got != "" {
		t.Errorf("UserConfig() = %q, want empty", got)
	}
}
