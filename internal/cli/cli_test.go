package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/createkit/createkit/internal/pkgmanager"
	"github.com/createkit/createkit/internal/versioncheck"
	"github.com/spf13/viper"
)

// recordingRunner captures commands instead of executing them.
type recordingRunner struct {
	commands []string
}

func (r *recordingRunner) Run(_ context.Context, c pkgmanager.CommandSpec) error {
	r.commands = append(r.commands, c.String())
	return nil
}

// resetFlags restores every flag variable, since the command tree is global.
func resetFlags() {
	verbose = false
	versionShort, versionJSON = false, false
	createTemplate, createTemplatesDir, createDescription = "", "", ""
	createAuthor, createEmail, createLicense, createNodePM = "", "", "", ""
	createSkipGit, createSkipInstall, createYes = false, false, false
	createSet = nil
	templatesDir, templatesJSON = "", false
	doctorDir, doctorLatest = "", false
	pmDir, pmManager, pmDev = ".", "", false
}

// execute runs the root command with an isolated home directory and fake
// package manager plumbing.
func execute(t *testing.T, args ...string) (string, *recordingRunner, error) {
	t.Helper()
	return executeIn(t, t.TempDir(), args...)
}

func executeIn(t *testing.T, home string, args ...string) (string, *recordingRunner, error) {
	t.Helper()
	resetFlags()

	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("npm_config_user_agent", "")
	viper.Reset()
	t.Cleanup(viper.Reset)

	runner := &recordingRunner{}
	origAdapter, origDetector, origVersion, origChecker := newAdapter, newDetector, doctorVersion, newChecker
	newAdapter = func(out io.Writer) *pkgmanager.Adapter {
		return &pkgmanager.Adapter{Runner: runner, Out: out}
	}
	newDetector = func() *pkgmanager.Detector {
		return &pkgmanager.Detector{Probes: []pkgmanager.Probe{pkgmanager.LockfileProbe{}}, Fallback: pkgmanager.NPM}
	}
	t.Cleanup(func() {
		newAdapter, newDetector, doctorVersion, newChecker = origAdapter, origDetector, origVersion, origChecker
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), runner, err
}

func TestParseSet(t *testing.T) {
	got, err := parseSet([]string{"language=typescript", "empty=", "url=a=b"})
	if err != nil {
		t.Fatalf("parseSet() error: %v", err)
	}
	if got["language"] != "typescript" || got["empty"] != "" || got["url"] != "a=b" {
		t.Errorf("parseSet() = %v", got)
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := parseSet([]string{bad}); err == nil {
			t.Errorf("parseSet(%q) should fail", bad)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	buildVersion, buildCommit, buildDate = "1.2.3", "abc123", "2026-01-01"

	out, _, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "1.2.3" {
		t.Errorf("version --short = %q", out)
	}

	out, _, err = execute(t, "version", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("version --json output is not JSON: %v\n%s", err, out)
	}
	if info["commit"] != "abc123" {
		t.Errorf("commit = %q", info["commit"])
	}
}

func TestConfigSetAndGet(t *testing.T) {
	home := t.TempDir()

	out, _, err := executeIn(t, home, "config", "set", "author", "Jane Doe")
	if err != nil {
		t.Fatalf("config set: %v", err)
	}
	if !strings.Contains(out, "Set author = Jane Doe") {
		t.Errorf("config set output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(home, ".createkit", "config.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	out, _, err = executeIn(t, home, "config", "get", "author")
	if err != nil {
		t.Fatalf("config get: %v", err)
	}
	if strings.TrimSpace(out) != "Jane Doe" {
		t.Errorf("config get author = %q", out)
	}

	out, _, err = executeIn(t, home, "config", "list")
	if err != nil {
		t.Fatalf("config list: %v", err)
	}
	if !strings.Contains(out, "Jane Doe") || !strings.Contains(out, "MIT") {
		t.Errorf("config list = %q", out)
	}
}

func TestConfigEnvOverride(t *testing.T) {
	t.Setenv("CREATEKIT_EMAIL", "env@example.com")
	out, _, err := execute(t, "config", "get", "email")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "env@example.com" {
		t.Errorf("config get email = %q", out)
	}
}

func TestConfigRejectsUnknownKey(t *testing.T) {
	if _, _, err := execute(t, "config", "get", "colour"); err == nil {
		t.Error("config get with unknown key should fail")
	}
	if _, _, err := execute(t, "config", "set", "colour", "blue"); err == nil {
		t.Error("config set with unknown key should fail")
	}
}

func TestCreateCommand(t *testing.T) {
	chdir(t, t.TempDir())
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	out, runner, err := execute(t, "my-app", "--yes", "--skip-git", "--node-pm", "yarn", "--author", "Jane", "--email", "jane@example.com", "--license", "ISC")
	if err != nil {
		t.Fatalf("create: %v\n%s", err, out)
	}

	dir := filepath.Join(wd, "my-app")
	want := "yarnpkg install --cwd " + dir
	if len(runner.commands) != 1 || runner.commands[0] != want {
		t.Errorf("commands = %q, want [%q]", runner.commands, want)
	}
	for _, s := range []string{"Created " + dir, "package.json", "LICENSE", "yarn start"} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}

	pkg, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(pkg), `"license": "ISC"`) {
		t.Errorf("package.json = %s", pkg)
	}
}

func TestCreateCommandRejectsBadName(t *testing.T) {
	chdir(t, t.TempDir())
	if _, _, err := execute(t, "Bad Name", "--yes", "--skip-git", "--skip-install"); err == nil {
		t.Fatal("expected invalid name error")
	}
}

func TestPmAdd(t *testing.T) {
	dir := t.TempDir()

	_, runner, err := execute(t, "pm", "add", "--dir", dir, "--node-pm", "pnpm", "-D", "vitest", "tsx")
	if err != nil {
		t.Fatalf("pm add: %v", err)
	}
	want := "pnpm add --dir " + dir + " vitest tsx -D"
	if len(runner.commands) != 1 || runner.commands[0] != want {
		t.Errorf("commands = %q, want [%q]", runner.commands, want)
	}
}

func TestPmDetectsFromLockfile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pnpm-lock.yaml"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	_, runner, err := execute(t, "pm", "install", "--dir", dir)
	if err != nil {
		t.Fatalf("pm install: %v", err)
	}
	if len(runner.commands) != 1 || !strings.HasPrefix(runner.commands[0], "pnpm install") {
		t.Errorf("commands = %q", runner.commands)
	}
}

func TestPmAutoFromConfigIgnoresCase(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "yarn.lock"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CREATEKIT_PACKAGE_MANAGER", "Auto")

	_, runner, err := execute(t, "pm", "install", "--dir", dir)
	if err != nil {
		t.Fatalf("pm install: %v", err)
	}
	want := "yarnpkg install --cwd " + dir
	if len(runner.commands) != 1 || runner.commands[0] != want {
		t.Errorf("commands = %q, want [%q]", runner.commands, want)
	}
}

func TestPmErrors(t *testing.T) {
	if _, _, err := execute(t, "pm", "init", "--dir", t.TempDir(), "--node-pm", "bun"); err == nil {
		t.Error("unknown package manager should fail")
	}
	if _, _, err := execute(t, "pm", "init", "--dir", filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("missing directory should fail")
	}
}

func TestTemplatesCommand(t *testing.T) {
	out, _, err := execute(t, "templates")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "NAME") || !strings.Contains(out, "default") || !strings.Contains(out, "Minimal Node.js package") {
		t.Errorf("templates output = %q", out)
	}
}

func TestDoctorCommand(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "yarn.lock"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	orig := doctorVersion
	t.Cleanup(func() { doctorVersion = orig })

	out, _, err := executeWithVersion(t, func(_ context.Context, exe string) (string, error) {
		if exe == "pnpm" {
			return "9.1.0\n", nil
		}
		return "", errors.New("not installed")
	}, "doctor", "--dir", dir)
	if err != nil {
		t.Fatal(err)
	}

	for _, s := range []string{"[ OK ] pnpm 9.1.0", "[MISS] npm", "lockfile", "-> yarn", "Selected: yarn"} {
		if !strings.Contains(out, s) {
			t.Errorf("doctor output missing %q:\n%s", s, out)
		}
	}
}

// executeWithVersion is execute with a fake version command for doctor.
func executeWithVersion(t *testing.T, fn pkgmanager.VersionFunc, args ...string) (string, *recordingRunner, error) {
	t.Helper()
	doctorVersion = fn
	return execute(t, args...)
}

func TestDoctorLatest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": "pnpm", "version": "9.1.0"}`))
	}))
	t.Cleanup(server.Close)

	cacheDir := t.TempDir()
	orig := newChecker
	t.Cleanup(func() { newChecker = orig })
	newChecker = func() *versioncheck.Checker {
		return versioncheck.NewChecker(cacheDir, versioncheck.WithHTTPClient(server.Client()), versioncheck.WithRegistry(server.URL))
	}

	out, _, err := executeWithVersion(t, func(_ context.Context, exe string) (string, error) {
		if exe == "pnpm" {
			return "8.15.0", nil
		}
		return "", errors.New("not installed")
	}, "doctor", "--latest", "--dir", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "update available: 8.15.0 -> 9.1.0") {
		t.Errorf("doctor --latest output:\n%s", out)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
