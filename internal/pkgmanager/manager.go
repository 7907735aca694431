package pkgmanager

import (
	"fmt"
	"strings"
)

// Manager identifies a supported package manager.
type Manager int

// Supported package managers. The zero value is npm, which is also the
// detection fallback.
const (
	NPM Manager = iota
	Yarn
	PNPM
)

// All returns every supported manager in display order.
func All() []Manager {
	return []Manager{NPM, Yarn, PNPM}
}

// String returns the manager's canonical name.
func (m Manager) String() string {
	switch m {
	case NPM:
		return "npm"
	case Yarn:
		return "yarn"
	case PNPM:
		return "pnpm"
	default:
		return fmt.Sprintf("Manager(%d)", int(m))
	}
}

// Executable returns the binary invoked for the manager. Yarn is invoked as
// "yarnpkg" because some distributions ship an unrelated "yarn" binary.
func (m Manager) Executable() string {
	if m == Yarn {
		return "yarnpkg"
	}
	return m.String()
}

// Lockfile returns the lockfile name the manager writes.
func (m Manager) Lockfile() string {
	switch m {
	case Yarn:
		return "yarn.lock"
	case PNPM:
		return "pnpm-lock.yaml"
	default:
		return "package-lock.json"
	}
}

// Parse converts a manager name into a Manager. Matching is case-insensitive
// and ignores surrounding whitespace.
func Parse(name string) (Manager, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "npm":
		return NPM, nil
	case "yarn", "yarnpkg":
		return Yarn, nil
	case "pnpm":
		return PNPM, nil
	default:
		return NPM, fmt.Errorf("unknown package manager %q: supported managers are npm, yarn, and pnpm", name)
	}
}
