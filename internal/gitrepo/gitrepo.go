// Package gitrepo initializes a git repository in a freshly generated
// project and reads the user's git identity for answer defaults.
package gitrepo

import (
	"fmt"
	"os/exec"
	"strings"
)

// InitialCommitMessage is used for the first commit of a generated project.
const InitialCommitMessage = "Initial commit"

// Init creates a repository in dir, stages everything, and records the
// initial commit. Nothing is done when dir is already inside a work tree.
func Init(dir string) error {
	if err := ensureGit(); err != nil {
		return err
	}

	if insideWorkTree(dir) {
		return nil
	}

	steps := [][]string{
		{"init"},
		{"add", "-A"},
		{"commit", "-m", InitialCommitMessage},
	}
	for _, args := range steps {
		if err := run(dir, args...); err != nil {
			return err
		}
	}
	return nil
}

// UserConfig returns `git config --get <key>` or "" when git or the key is
// unavailable.
func UserConfig(key string) string {
	if ensureGit() != nil {
		return ""
	}
	out, err := exec.Command("git", "config", "--get", key).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func insideWorkTree(dir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = dir
	out, err := cmd.Output()
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

func run(dir string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s: %w\n%s", args[0], err, strings.TrimSpace(string(output)))
	}
	return nil
}

// ensureGit checks that git is available on PATH.
func ensureGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git is required but not found in PATH")
	}
	return nil
}
