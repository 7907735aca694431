package pkgmanager

import "strings"

// Op names an adapter operation.
type Op int

// Adapter operations.
const (
	OpInit Op = iota
	OpInstall
	OpAdd
)

// String returns the operation name as used in logs.
func (o Op) String() string {
	switch o {
	case OpInit:
		return "init"
	case OpInstall:
		return "install"
	case OpAdd:
		return "add"
	default:
		return "unknown"
	}
}

// CommandSpec is a fully resolved subprocess invocation.
type CommandSpec struct {
	Name string   // executable, e.g. "yarnpkg"
	Args []string // arguments in order
	Dir  string   // working directory of the child process
}

// String returns the command line as echoed to the user.
func (c CommandSpec) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// commandTable holds the argument builders for one manager. Each manager
// has its own conventions for targeting a directory: npm relies on the
// working directory alone, yarn takes --cwd, pnpm takes --dir for some
// subcommands.
type commandTable struct {
	init    func(dir string) []string
	install func(dir string) []string
	add     func(dir string, deps []string, dev bool) []string
}

var commandTables = map[Manager]commandTable{
	NPM: {
		init:    func(string) []string { return []string{"init", "-y"} },
		install: func(string) []string { return []string{"install"} },
		add: func(_ string, deps []string, dev bool) []string {
			flag := "-S"
			if dev {
				flag = "-D"
			}
			return append([]string{"install", flag}, deps...)
		},
	},
	Yarn: {
		init:    func(dir string) []string { return []string{"init", "-y", "--cwd", dir} },
		install: func(dir string) []string { return []string{"install", "--cwd", dir} },
		add: func(dir string, deps []string, dev bool) []string {
			args := append([]string{"add", "--cwd", dir}, deps...)
			if dev {
				args = append(args, "-D")
			}
			return args
		},
	},
	PNPM: {
		init:    func(string) []string { return []string{"init", "-y"} },
		install: func(dir string) []string { return []string{"install", "--dir", dir} },
		add: func(dir string, deps []string, dev bool) []string {
			args := append([]string{"add", "--dir", dir}, deps...)
			if dev {
				args = append(args, "-D")
			}
			return args
		},
	},
}

// table returns the command table for m, falling back to npm for values
// outside the enum.
func (m Manager) table() commandTable {
	if t, ok := commandTables[m]; ok {
		return t
	}
	return commandTables[NPM]
}

// InitCommand builds the non-interactive manifest creation command.
func InitCommand(m Manager, rootDir string) CommandSpec {
	return CommandSpec{Name: m.Executable(), Args: m.table().init(rootDir), Dir: rootDir}
}

// InstallCommand builds the command installing every dependency already
// declared in the manifest at rootDir.
func InstallCommand(m Manager, rootDir string) CommandSpec {
	return CommandSpec{Name: m.Executable(), Args: m.table().install(rootDir), Dir: rootDir}
}

// AddCommand builds the command adding deps to the manifest at rootDir,
// as development dependencies when dev is set.
func AddCommand(m Manager, rootDir string, deps []string, dev bool) CommandSpec {
	copied := append([]string(nil), deps...)
	return CommandSpec{Name: m.Executable(), Args: m.table().add(rootDir, copied, dev), Dir: rootDir}
}
