// Package create generates a new package from a template: it resolves the
// answers, renders the template, writes a license, installs dependencies with
// the chosen package manager, runs the caller's after hook, and records the
// initial git commit.
package create

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/createkit/createkit/internal/gitrepo"
	"github.com/createkit/createkit/internal/license"
	"github.com/createkit/createkit/internal/pkgmanager"
	"github.com/createkit/createkit/internal/prompt"
	"github.com/createkit/createkit/internal/templates"
	"github.com/createkit/createkit/internal/ui"
	"github.com/rs/zerolog/log"
)

// manifestFile marks a directory as a Node.js package.
const manifestFile = "package.json"

// Options configures Run. Empty answer fields are prompted for, or take
// their defaults when Interactive is false.
type Options struct {
	Name           string
	TemplatesDir   string // empty selects the built-in templates
	Template       string
	Description    string
	Author         string
	Email          string
	License        string
	PackageManager string // npm, yarn, pnpm, or "auto"
	Extra          map[string]string

	// Defaults pre-fill questions that are still asked.
	Defaults Defaults

	// ModifyName rewrites the package name before anything is created.
	ModifyName func(name string) string

	SkipGitInit bool
	SkipInstall bool

	Interactive bool
	In          io.Reader
	Out         io.Writer

	// CLIVersion is checked against a template's min_cli_version.
	CLIVersion string
	// WorkDir is where the package directory is created and where the
	// package manager is detected. Defaults to the current directory.
	WorkDir string

	// After runs once dependencies are installed.
	After func(ctx context.Context, h *AfterHookOptions) error
	// Caveat overrides the template's caveat. Both are rendered with the
	// template data.
	Caveat string

	Adapter   *pkgmanager.Adapter
	Detector  *pkgmanager.Detector
	GitInit   func(dir string) error
	GitConfig func(key string) string
	Now       func() time.Time
}

// Result describes a generated package.
type Result struct {
	PackageDir     string
	Files          []string
	Warnings       []string
	PackageManager pkgmanager.Manager
	Installed      bool
	Caveat         string
}

// AfterHookOptions is handed to Options.After.
type AfterHookOptions struct {
	PackageDir     string
	TemplateDir    string // empty for built-in templates
	Year           int
	PackageManager pkgmanager.Manager
	Answers        Answers

	adapter *pkgmanager.Adapter
	out     io.Writer
}

// Run executes name with args inside the package directory.
func (h *AfterHookOptions) Run(ctx context.Context, name string, args ...string) error {
	c := pkgmanager.CommandSpec{Name: name, Args: args, Dir: h.PackageDir}
	ui.PrintCommand(h.out, c.String())

	runner := h.adapter.Runner
	if runner == nil {
		runner = &pkgmanager.ExecRunner{}
	}
	if err := runner.Run(ctx, c); err != nil {
		return fmt.Errorf("running %s: %w", c, err)
	}
	return nil
}

// InstallPackage adds names to the package with the selected manager,
// creating package.json first when the template did not ship one.
func (h *AfterHookOptions) InstallPackage(ctx context.Context, dev bool, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	if _, err := os.Stat(filepath.Join(h.PackageDir, manifestFile)); errors.Is(err, os.ErrNotExist) {
		if err := h.adapter.InitPackage(ctx, h.PackageDir, h.PackageManager); err != nil {
			return err
		}
	}
	return h.adapter.AddDeps(ctx, h.PackageDir, names, pkgmanager.AddOptions{Dev: dev, Manager: h.PackageManager})
}

// Run creates a package according to opts.
func Run(ctx context.Context, opts Options) (*Result, error) {
	opts.setDefaults()

	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		workDir = wd
	}

	r := &resolver{opts: &opts, prompter: prompt.New(opts.In, opts.Out, opts.Interactive)}

	name, err := r.name()
	if err != nil {
		return nil, err
	}
	dir := packageDir(workDir, name)

	root, err := templates.Open(opts.TemplatesDir)
	if err != nil {
		return nil, err
	}
	ts, err := templates.Discover(root)
	if err != nil {
		return nil, err
	}
	tmpl, err := r.template(ts)
	if err != nil {
		return nil, err
	}
	if err := tmpl.CheckCompatibility(opts.CLIVersion); err != nil {
		return nil, err
	}

	answers, pm, err := resolveAnswers(ctx, r, filepath.Base(dir), tmpl, workDir)
	if err != nil {
		return nil, err
	}

	year := opts.Now().Year()
	data := answers.Data(year)

	fmt.Fprintf(opts.Out, "\nCreating a new package in %s\n\n", ui.Accent(opts.Out, dir))

	rendered, err := templates.Render(tmpl, data, dir)
	if err != nil {
		return nil, err
	}

	result := &Result{
		PackageDir:     dir,
		Files:          rendered.Files,
		PackageManager: pm,
	}
	result.Warnings = append(result.Warnings, tmpl.Warnings...)
	result.Warnings = append(result.Warnings, rendered.Warnings...)

	if written, err := license.Write(dir, answers.License, license.Data{Year: year, Holder: answers.Contact}); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("license not written: %v", err))
	} else if written {
		result.Files = append(result.Files, license.FileName)
	}

	hook := &AfterHookOptions{
		PackageDir:     dir,
		Year:           year,
		PackageManager: pm,
		Answers:        answers,
		adapter:        opts.Adapter,
		out:            opts.Out,
	}
	if opts.TemplatesDir != "" {
		hook.TemplateDir = filepath.Join(opts.TemplatesDir, tmpl.Name)
	}

	if !opts.SkipInstall {
		installed, err := install(ctx, hook, tmpl.Meta)
		if err != nil {
			return nil, err
		}
		result.Installed = installed
	}

	if opts.After != nil {
		if err := opts.After(ctx, hook); err != nil {
			return nil, fmt.Errorf("after hook: %w", err)
		}
	}

	if !opts.SkipGitInit {
		if err := opts.GitInit(dir); err != nil {
			log.Debug().Err(err).Str("dir", dir).Msg("git init failed")
			result.Warnings = append(result.Warnings, fmt.Sprintf("git repository not initialized: %v", err))
		}
	}

	caveat := opts.Caveat
	if caveat == "" && tmpl.Meta != nil {
		caveat = tmpl.Meta.Caveat
	}
	if caveat != "" {
		text, err := templates.RenderString("caveat", caveat, data)
		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
		} else {
			result.Caveat = text
		}
	}

	return result, nil
}

func (o *Options) setDefaults() {
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Adapter == nil {
		o.Adapter = pkgmanager.New(o.Out)
	}
	if o.GitInit == nil {
		o.GitInit = gitrepo.Init
	}
	if o.GitConfig == nil {
		o.GitConfig = gitrepo.UserConfig
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// resolveAnswers asks the remaining questions in a fixed order.
func resolveAnswers(ctx context.Context, r *resolver, name string, tmpl *templates.Template, workDir string) (Answers, pkgmanager.Manager, error) {
	a := Answers{Name: name, Template: tmpl.Name}
	var err error

	if a.Description, err = r.text(r.opts.Description, "Description", orDefault(r.opts.Defaults.Description, DefaultDescription)); err != nil {
		return a, 0, err
	}
	if a.Author, err = r.text(r.opts.Author, "Author", firstNonEmpty(r.opts.Defaults.Author, r.opts.GitConfig("user.name"), DefaultAuthor)); err != nil {
		return a, 0, err
	}
	if a.Email, err = r.text(r.opts.Email, "Email", firstNonEmpty(r.opts.Defaults.Email, r.opts.GitConfig("user.email"), DefaultEmail)); err != nil {
		return a, 0, err
	}
	a.Contact = contact(a.Author, a.Email)

	if a.License, err = r.license(); err != nil {
		return a, 0, err
	}

	pm, err := r.packageManager(ctx, workDir)
	if err != nil {
		return a, 0, err
	}
	a.PackageManager = pm.String()

	var questions []templates.Question
	if tmpl.Meta != nil {
		questions = tmpl.Meta.Extra
	}
	if a.Extra, err = r.extras(questions); err != nil {
		return a, 0, err
	}

	return a, pm, nil
}

// install installs the dependencies the template declares: the manifest's
// own first, then the metadata's dependencies and dev_dependencies. It
// reports whether any package manager command ran.
func install(ctx context.Context, h *AfterHookOptions, meta *templates.Metadata) (bool, error) {
	installed := false
	if _, err := os.Stat(filepath.Join(h.PackageDir, manifestFile)); err == nil {
		if err := h.adapter.InstallDeps(ctx, h.PackageDir, h.PackageManager); err != nil {
			return false, err
		}
		installed = true
	}
	if meta == nil {
		return installed, nil
	}
	if err := h.InstallPackage(ctx, false, meta.Dependencies...); err != nil {
		return false, err
	}
	if err := h.InstallPackage(ctx, true, meta.DevDependencies...); err != nil {
		return false, err
	}
	return installed || len(meta.Dependencies) > 0 || len(meta.DevDependencies) > 0, nil
}

func orDefault(value, def string) string {
	return firstNonEmpty(value, def)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
