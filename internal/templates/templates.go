package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sahilm/fuzzy"
	"go.yaml.in/yaml/v3"
)

// MetadataFile is the optional per-template descriptor.
const MetadataFile = "template.yaml"

//go:embed all:builtin
var builtinFS embed.FS

// Template is a renderable template directory.
type Template struct {
	Name     string
	FS       fs.FS
	Meta     *Metadata
	Warnings []string // metadata issues that did not prevent loading
}

// Metadata is the parsed content of template.yaml.
type Metadata struct {
	Description     string     `yaml:"description,omitempty"`
	Version         string     `yaml:"version,omitempty"`
	MinCLIVersion   string     `yaml:"min_cli_version,omitempty"`
	Caveat          string     `yaml:"caveat,omitempty"`
	Ignore          []string   `yaml:"ignore,omitempty"`
	Dependencies    []string   `yaml:"dependencies,omitempty"`
	DevDependencies []string   `yaml:"dev_dependencies,omitempty"`
	Extra           []Question `yaml:"extra,omitempty"`
}

// Question is an additional answer a template asks for. Its value is
// available to the template as {{.<name>}}.
type Question struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Default     string   `yaml:"default,omitempty"`
	Choices     []string `yaml:"choices,omitempty"`
}

// Builtin returns the embedded templates root.
func Builtin() fs.FS {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return sub
}

// Open returns the templates root at dir, or the built-in root when dir is
// empty.
func Open(dir string) (fs.FS, error) {
	if dir == "" {
		return Builtin(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("templates directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("templates directory %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}

// Discover loads every template directory directly under root, sorted by
// name. Hidden directories are skipped.
func Discover(root fs.FS) ([]*Template, error) {
	entries, err := fs.ReadDir(root, ".")
	if err != nil {
		return nil, fmt.Errorf("reading templates root: %w", err)
	}

	var result []*Template
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		t, err := Load(root, entry.Name())
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Load reads a single template named name from root.
func Load(root fs.FS, name string) (*Template, error) {
	sub, err := fs.Sub(root, name)
	if err != nil {
		return nil, fmt.Errorf("opening template %q: %w", name, err)
	}

	meta, warnings, err := loadMetadata(sub)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", name, err)
	}

	return &Template{Name: name, FS: sub, Meta: meta, Warnings: warnings}, nil
}

// Names returns the template names in order.
func Names(ts []*Template) []string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.Name
	}
	return names
}

// Lookup finds the template called name. The error suggests the closest
// match when there is one.
func Lookup(ts []*Template, name string) (*Template, error) {
	for _, t := range ts {
		if t.Name == name {
			return t, nil
		}
	}

	names := Names(ts)
	if matches := fuzzy.Find(name, names); len(matches) > 0 {
		return nil, fmt.Errorf("template %q not found; did you mean %q?", name, matches[0].Str)
	}
	return nil, fmt.Errorf("template %q not found; available templates: %s", name, strings.Join(names, ", "))
}

// loadMetadata parses template.yaml if present. Schema issues, invalid
// ignore globs, and a non-semver version are reported as warnings.
func loadMetadata(fsys fs.FS) (*Metadata, []string, error) {
	data, err := fs.ReadFile(fsys, MetadataFile)
	if errors.Is(err, fs.ErrNotExist) {
		return &Metadata{}, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", MetadataFile, err)
	}

	var meta Metadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", MetadataFile, err)
	}

	var warnings []string
	valResult, valErr := Validate(data)
	if valErr != nil {
		warnings = append(warnings, fmt.Sprintf("Could not validate %s: %v", MetadataFile, valErr))
	} else if !valResult.Valid {
		for _, issue := range valResult.Issues {
			msg := issue.Message
			if issue.Path != "" {
				msg = issue.Path + ": " + msg
			}
			warnings = append(warnings, MetadataFile+": "+msg)
		}
	}

	for _, pattern := range meta.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			warnings = append(warnings, fmt.Sprintf("%s: invalid ignore pattern %q", MetadataFile, pattern))
		}
	}

	if meta.Version != "" {
		if _, err := parseSemver(meta.Version); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: version %q is not a semantic version", MetadataFile, meta.Version))
		}
	}

	return &meta, warnings, nil
}
