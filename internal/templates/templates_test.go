package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/createkit/createkit/internal/branding"
)

func testData() map[string]any {
	return map[string]any{
		"name":           "my-app",
		"description":    "A tiny app",
		"author":         "Jane Doe",
		"email":          "jane@example.com",
		"contact":        "Jane Doe <jane@example.com>",
		"license":        "MIT",
		"template":       "web",
		"packageManager": "pnpm",
		"year":           2026,
		"language":       "typescript",
	}
}

func testRoot() fstest.MapFS {
	return fstest.MapFS{
		"web/template.yaml": {Data: []byte(`description: Web starter
version: 1.2.0
ignore:
  - "**/*.log"
  - fixtures/**
dependencies: [react]
dev_dependencies: [vite]
caveat: "cd {{.name}}"
extra:
  - name: language
    default: javascript
    choices: [javascript, typescript]
`)},
		"web/package.json":                   {Data: []byte(`{"name": "{{.name}}", "license": "{{.license}}"}`)},
		"web/gitignore":                      {Data: []byte("node_modules/\n")},
		"web/src/{{.name}}.ts.tmpl":          {Data: []byte("export const lang = '{{.language}}';\n")},
		"web/src/view.hbs":                   {Data: []byte("<p>{{title}}</p>\n")},
		"web/src/app.jsx":                    {Data: []byte("const s = <div style={{ color: 'red' }} />;\n")},
		"web/logo.png":                       {Data: []byte{0x89, 'P', 'N', 'G', 0xff, 0xfe, '{', '{'}},
		"web/debug.log":                      {Data: []byte("noise")},
		"web/fixtures/data.json":             {Data: []byte("{}")},
		"web/node_modules/left-pad/index.js": {Data: []byte("module.exports = 1")},
		"cli/index.js":                       {Data: []byte("#!/usr/bin/env node\n"), Mode: 0755},
		".hidden/file":                       {Data: []byte("x")},
	}
}

func TestDiscover(t *testing.T) {
	ts, err := Discover(testRoot())
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	if got := strings.Join(Names(ts), ","); got != "cli,web" {
		t.Fatalf("templates = %s, want cli,web", got)
	}

	web := ts[1]
	if web.Meta.Description != "Web starter" || web.Meta.Version != "1.2.0" {
		t.Errorf("metadata = %+v", web.Meta)
	}
	if len(web.Meta.Extra) != 1 || web.Meta.Extra[0].Name != "language" || len(web.Meta.Extra[0].Choices) != 2 {
		t.Errorf("extra = %+v", web.Meta.Extra)
	}
	if len(web.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", web.Warnings)
	}

	cli := ts[0]
	if cli.Meta == nil || cli.Meta.Description != "" {
		t.Errorf("template without metadata should get empty Metadata, got %+v", cli.Meta)
	}
}

func TestDiscoverBuiltin(t *testing.T) {
	ts, err := Discover(Builtin())
	if err != nil {
		t.Fatalf("Discover(Builtin()) error: %v", err)
	}
	if len(ts) != 1 || ts[0].Name != "default" {
		t.Fatalf("builtin templates = %v, want [default]", Names(ts))
	}
	if len(ts[0].Warnings) != 0 {
		t.Errorf("builtin template has warnings: %v", ts[0].Warnings)
	}
}

func TestLookup(t *testing.T) {
	ts, err := Discover(testRoot())
	if err != nil {
		t.Fatal(err)
	}

	if tmpl, err := Lookup(ts, "web"); err != nil || tmpl.Name != "web" {
		t.Errorf("Lookup(web) = %v, %v", tmpl, err)
	}

	_, err = Lookup(ts, "wb")
	if err == nil || !strings.Contains(err.Error(), `did you mean "web"?`) {
		t.Errorf("Lookup(wb) error = %v, want suggestion", err)
	}

	_, err = Lookup(ts, "zzz")
	if err == nil || !strings.Contains(err.Error(), "available templates: cli, web") {
		t.Errorf("Lookup(zzz) error = %v, want listing", err)
	}
}

func TestLoadMetadataWarnings(t *testing.T) {
	root := fstest.MapFS{
		"bad/template.yaml": {Data: []byte(`description: Bad
version: not-a-version
colour: blue
ignore:
  - "[unclosed"
`)},
	}

	tmpl, err := Load(root, "bad")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	joined := strings.Join(tmpl.Warnings, "\n")
	for _, want := range []string{"not a semantic version", `invalid ignore pattern "[unclosed"`, "template.yaml: "} {
		if !strings.Contains(joined, want) {
			t.Errorf("warnings missing %q:\n%s", want, joined)
		}
	}
}

func TestLoadMetadataInvalidYAML(t *testing.T) {
	root := fstest.MapFS{
		"broken/template.yaml": {Data: []byte("description: [unterminated\n")},
	}
	if _, err := Load(root, "broken"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestOpen(t *testing.T) {
	if _, err := Open(""); err != nil {
		t.Errorf("Open(\"\") error: %v", err)
	}

	dir := t.TempDir()
	if _, err := Open(dir); err != nil {
		t.Errorf("Open(dir) error: %v", err)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(file); err == nil {
		t.Error("Open(file) should fail")
	}
	if _, err := Open(filepath.Join(dir, "missing")); err == nil {
		t.Error("Open(missing) should fail")
	}
}

func TestCheckCompatibility(t *testing.T) {
	tmpl := &Template{Name: "web", Meta: &Metadata{MinCLIVersion: "1.4.0"}}

	tests := []struct {
		cli     string
		wantErr bool
	}{
		{"1.4.0", false},
		{"v2.0.0", false},
		{"1.3.9", true},
		{"dev", false},
	}
	for _, tt := range tests {
		err := tmpl.CheckCompatibility(tt.cli)
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckCompatibility(%q) error = %v, wantErr %v", tt.cli, err, tt.wantErr)
		}
	}

	err := tmpl.CheckCompatibility("1.0.0")
	if want := "requires " + branding.CLIName() + " 1.4.0 or newer"; err == nil || !strings.Contains(err.Error(), want) {
		t.Errorf("CheckCompatibility(1.0.0) error = %v, want %q", err, want)
	}

	if err := (&Template{Name: "plain", Meta: &Metadata{}}).CheckCompatibility("0.0.1"); err != nil {
		t.Errorf("no requirement should be compatible: %v", err)
	}
}
