package templates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"
)

// excludedNames are never copied out of a template.
var excludedNames = map[string]bool{
	"node_modules": true,
	".git":         true,
	".DS_Store":    true,
}

// renamedFiles maps template file names to their output names. Package
// registries strip .gitignore from published tarballs, so templates ship it
// without the dot.
var renamedFiles = map[string]string{
	"gitignore": ".gitignore",
}

// funcs are available to every template. json quotes a value for use
// inside JSON files such as package.json.
var funcs = template.FuncMap{
	"json": jsonValue,
}

func jsonValue(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func newTemplate(name string) *template.Template {
	return template.New(name).Funcs(funcs).Option("missingkey=error")
}

// Result holds the outcome of rendering a template.
type Result struct {
	OutputDir string
	Files     []string // slash-separated paths relative to OutputDir
	Warnings  []string
}

// Render instantiates t into outputDir using data for placeholders. The
// output directory must be absent or empty.
func Render(t *Template, data map[string]any, outputDir string) (*Result, error) {
	if err := prepareOutputDir(outputDir); err != nil {
		return nil, err
	}

	var ignore []string
	if t.Meta != nil {
		ignore = t.Meta.Ignore
	}

	result := &Result{OutputDir: outputDir}

	err := fs.WalkDir(t.FS, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p == "." {
			return nil
		}
		if skip(p, d, ignore) {
			log.Debug().Str("template", t.Name).Str("path", p).Msg("skipping template entry")
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := renderPath(p, data)
		if err != nil {
			return err
		}
		dst := filepath.Join(outputDir, filepath.FromSlash(rel))

		if d.IsDir() {
			return os.MkdirAll(dst, 0755)
		}
		if !d.Type().IsRegular() {
			// Symlinks and other special files are not copied.
			return nil
		}

		warning, err := renderFile(t.FS, p, dst, data)
		if err != nil {
			return err
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Files = append(result.Files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rendering template %q: %w", t.Name, err)
	}

	return result, nil
}

// RenderString renders a single template string, e.g. a caveat.
func RenderString(name, text string, data map[string]any) (string, error) {
	tmpl, err := newTemplate(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing %s: %w", name, err)
	}
	return buf.String(), nil
}

// prepareOutputDir creates dir, refusing to reuse a non-empty directory.
func prepareOutputDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("output path %s exists and is not a directory", dir)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("reading output directory: %w", err)
		}
		if len(entries) > 0 {
			return fmt.Errorf("output directory %s is not empty; remove existing files first", dir)
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}

// skip reports whether a template entry stays out of the output.
func skip(p string, d fs.DirEntry, ignore []string) bool {
	if excludedNames[d.Name()] {
		return true
	}
	if p == MetadataFile {
		return true
	}
	for _, pattern := range ignore {
		if ok, err := doublestar.Match(pattern, p); err == nil && ok {
			return true
		}
	}
	return false
}

// renderPath renders placeholders in each path segment, strips a .tmpl
// suffix, and applies renamedFiles to the final segment.
func renderPath(p string, data map[string]any) (string, error) {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		if strings.Contains(seg, "{{") {
			rendered, err := RenderString(p, seg, data)
			if err != nil {
				return "", err
			}
			rendered = strings.TrimSpace(rendered)
			if rendered == "" || strings.ContainsAny(rendered, `/\`) || rendered == "." || rendered == ".." {
				return "", fmt.Errorf("path segment %q rendered to invalid name %q", seg, rendered)
			}
			seg = rendered
		}
		segments[i] = seg
	}

	last := strings.TrimSuffix(segments[len(segments)-1], ".tmpl")
	if renamed, ok := renamedFiles[last]; ok {
		last = renamed
	}
	segments[len(segments)-1] = last

	return path.Join(segments...), nil
}

// renderFile writes the rendered contents of src to dst. Handlebars files,
// binary files, and files whose contents are not valid Go templates are
// copied verbatim; the latter produce a warning.
func renderFile(fsys fs.FS, src, dst string, data map[string]any) (string, error) {
	content, err := fs.ReadFile(fsys, src)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", src, err)
	}
	info, err := fs.Stat(fsys, src)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", src, err)
	}
	mode := info.Mode().Perm() | 0o644

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", fmt.Errorf("creating directory for %s: %w", dst, err)
	}

	verbatim := strings.HasSuffix(src, ".hbs") || !utf8.Valid(content) || !bytes.Contains(content, []byte("{{"))
	if verbatim {
		return "", writeFile(dst, content, mode)
	}

	tmpl, err := newTemplate(src).Parse(string(content))
	if err != nil {
		if err := writeFile(dst, content, mode); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s copied without substitution: %v", src, err), nil
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", src, err)
	}
	return "", writeFile(dst, buf.Bytes(), mode)
}

func writeFile(dst string, content []byte, mode fs.FileMode) error {
	if err := os.WriteFile(dst, content, mode); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}
