package pkgmanager

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog/log"
)

// AgentEnvVar is set by npm, yarn, and pnpm for every process they spawn,
// e.g. "pnpm/9.1.0 npm/? node/v20.11.0 darwin arm64".
const AgentEnvVar = "npm_config_user_agent"

// Probe inspects a single detection signal. ok is false when the signal is
// absent or not recognized; probes never fail loudly.
type Probe interface {
	Name() string
	Probe(ctx context.Context, dir string) (m Manager, ok bool)
}

// ProbeResult records the outcome of one probe for diagnostics.
type ProbeResult struct {
	Probe   string
	Manager Manager
	Matched bool
}

// Detector resolves a manager by running its probes in order and taking the
// first match. Fallback is used when no probe matches.
type Detector struct {
	Probes   []Probe
	Fallback Manager
}

// NewDetector returns a detector with the standard probe order: lockfiles in
// dir, the invoking agent environment variable, then executable availability.
func NewDetector() *Detector {
	return &Detector{
		Probes: []Probe{
			LockfileProbe{},
			AgentProbe{},
			ExecutableProbe{},
		},
		Fallback: NPM,
	}
}

// Detect returns the manager to use for dir.
func Detect(ctx context.Context, dir string) Manager {
	return NewDetector().Detect(ctx, dir)
}

// Detect runs the probes in order and returns the first match, or the
// fallback when none match.
func (d *Detector) Detect(ctx context.Context, dir string) Manager {
	for _, p := range d.Probes {
		if m, ok := p.Probe(ctx, dir); ok {
			log.Debug().Str("probe", p.Name()).Str("manager", m.String()).Str("dir", dir).Msg("package manager detected")
			return m
		}
	}
	log.Debug().Str("manager", d.Fallback.String()).Str("dir", dir).Msg("no probe matched, using fallback")
	return d.Fallback
}

// Explain runs every probe without short-circuiting, for "doctor" output.
func (d *Detector) Explain(ctx context.Context, dir string) []ProbeResult {
	results := make([]ProbeResult, 0, len(d.Probes))
	for _, p := range d.Probes {
		m, ok := p.Probe(ctx, dir)
		results = append(results, ProbeResult{Probe: p.Name(), Manager: m, Matched: ok})
	}
	return results
}

// ─── Lockfile probe ────────────────────────────────────────────────

// LockfileProbe looks for lockfiles in the target directory. yarn.lock wins
// over pnpm-lock.yaml, which wins over package-lock.json.
type LockfileProbe struct{}

// Name implements Probe.
func (LockfileProbe) Name() string { return "lockfile" }

// Probe implements Probe.
func (LockfileProbe) Probe(_ context.Context, dir string) (Manager, bool) {
	for _, m := range []Manager{Yarn, PNPM, NPM} {
		if _, err := os.Stat(filepath.Join(dir, m.Lockfile())); err == nil {
			return m, true
		}
	}
	return NPM, false
}

// ─── Agent probe ───────────────────────────────────────────────────

// AgentProbe reads the user agent a package manager exports to the processes
// it runs, which identifies the manager used to launch the scaffolder
// (e.g. "pnpm create ...").
type AgentProbe struct {
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// Name implements Probe.
func (AgentProbe) Name() string { return "agent" }

// Probe implements Probe.
func (a AgentProbe) Probe(_ context.Context, _ string) (Manager, bool) {
	getenv := a.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	agent := strings.TrimSpace(getenv(AgentEnvVar))
	switch {
	case strings.HasPrefix(agent, "yarn"):
		return Yarn, true
	case strings.HasPrefix(agent, "pnpm"):
		return PNPM, true
	case strings.HasPrefix(agent, "npm"):
		return NPM, true
	default:
		return NPM, false
	}
}

// ─── Executable probe ──────────────────────────────────────────────

// VersionFunc runs "<exe> --version" and returns its standard output.
type VersionFunc func(ctx context.Context, exe string) (string, error)

// ExecutableProbe checks whether an alternative manager is installed by
// asking it for its version. npm is not probed since it is the fallback.
type ExecutableProbe struct {
	// Version defaults to running the executable.
	Version VersionFunc
	// Candidates defaults to yarn then pnpm.
	Candidates []Manager
}

// Name implements Probe.
func (ExecutableProbe) Name() string { return "executable" }

// Probe implements Probe.
func (e ExecutableProbe) Probe(ctx context.Context, _ string) (Manager, bool) {
	candidates := e.Candidates
	if candidates == nil {
		candidates = []Manager{Yarn, PNPM}
	}
	for _, m := range candidates {
		_, err := InstalledVersion(ctx, m, e.Version)
		if err == nil {
			return m, true
		}
		log.Debug().Err(err).Str("manager", m.String()).Msg("executable probe failed")
	}
	return NPM, false
}

// InstalledVersion runs the manager's version command and parses the output
// as a semantic version. A nil fn runs the real executable.
func InstalledVersion(ctx context.Context, m Manager, fn VersionFunc) (*semver.Version, error) {
	if fn == nil {
		fn = execVersion
	}
	out, err := fn(ctx, m.Executable())
	if err != nil {
		return nil, fmt.Errorf("running %s --version: %w", m.Executable(), err)
	}
	v, err := semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(out), "v"))
	if err != nil {
		return nil, fmt.Errorf("parsing %s version %q: %w", m.Executable(), strings.TrimSpace(out), err)
	}
	return v, nil
}

func execVersion(ctx context.Context, exe string) (string, error) {
	path, err := exec.LookPath(exe)
	if err != nil {
		return "", err
	}
	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
