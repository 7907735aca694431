package create

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/createkit/createkit/internal/license"
	"github.com/createkit/createkit/internal/pkgmanager"
	"github.com/createkit/createkit/internal/prompt"
	"github.com/createkit/createkit/internal/templates"
)

// Fallbacks used when neither a flag, the config file, nor git supplies a
// value.
const (
	DefaultDescription = "description"
	DefaultAuthor      = "Your name"
	DefaultEmail       = "Your email"
	DefaultLicense     = "MIT"
	DefaultTemplate    = "default"

	// AutoPackageManager selects detection instead of a fixed manager.
	AutoPackageManager = "auto"
)

// namePattern follows npm's rules for unscoped package names.
var namePattern = regexp.MustCompile(`^[a-z0-9~][a-z0-9._~-]*$`)

// ValidateName checks the last path element of name as a package name.
func ValidateName(name string) error {
	base := filepath.Base(name)
	if len(base) > 214 {
		return fmt.Errorf("invalid package name %q: longer than 214 characters", base)
	}
	if !namePattern.MatchString(base) {
		return fmt.Errorf("invalid package name %q: must match %s", base, namePattern)
	}
	return nil
}

// Defaults are the values offered when a question is asked. Options fields
// of the same name are answers and skip the question.
type Defaults struct {
	Description    string
	Author         string
	Email          string
	License        string
	Template       string
	PackageManager string
}

// Answers records everything the user chose for the new package.
type Answers struct {
	Name           string
	Description    string
	Author         string
	Email          string
	Contact        string // "Author <email>"
	License        string
	Template       string
	PackageManager string
	Extra          map[string]string
}

// Data returns the placeholder values available to templates.
func (a *Answers) Data(year int) map[string]any {
	data := map[string]any{
		"name":           a.Name,
		"description":    a.Description,
		"author":         a.Author,
		"email":          a.Email,
		"contact":        a.Contact,
		"license":        a.License,
		"template":       a.Template,
		"packageManager": a.PackageManager,
		"year":           year,
	}
	for k, v := range a.Extra {
		if _, builtin := data[k]; builtin {
			continue
		}
		data[k] = v
	}
	return data
}

// contact formats the package.json author field.
func contact(author, email string) string {
	if email == "" {
		return author
	}
	return fmt.Sprintf("%s <%s>", author, email)
}

// resolver fills in Answers from options, prompting for whatever is missing.
type resolver struct {
	opts     *Options
	prompter *prompt.Prompter
}

func (r *resolver) name() (string, error) {
	name := r.opts.Name
	if name == "" {
		var err error
		name, err = r.prompter.Required("Package name", "")
		if err != nil {
			return "", err
		}
	}
	if r.opts.ModifyName != nil {
		name = r.opts.ModifyName(name)
	}
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return name, nil
}

func (r *resolver) template(ts []*templates.Template) (*templates.Template, error) {
	if len(ts) == 0 {
		return nil, fmt.Errorf("no templates found")
	}
	if r.opts.Template != "" {
		return templates.Lookup(ts, r.opts.Template)
	}
	if len(ts) == 1 {
		return ts[0], nil
	}
	choice, err := r.prompter.Select("Template", templates.Names(ts), orDefault(r.opts.Defaults.Template, DefaultTemplate))
	if err != nil {
		return nil, err
	}
	return templates.Lookup(ts, choice)
}

// text returns value when set, otherwise asks with def as the default.
func (r *resolver) text(value, label, def string) (string, error) {
	if value != "" {
		return value, nil
	}
	return r.prompter.Input(label, def)
}

func (r *resolver) license() (string, error) {
	if r.opts.License != "" {
		return r.opts.License, nil
	}
	def := orDefault(r.opts.Defaults.License, DefaultLicense)
	if !r.prompter.Interactive() {
		// Keep identifiers outside the menu; license.Write reports them.
		return def, nil
	}
	return r.prompter.Select("License", license.Supported(), def)
}

// packageManager returns the manager to use. "auto" runs detection against
// the working directory.
func (r *resolver) packageManager(ctx context.Context, workDir string) (pkgmanager.Manager, error) {
	choice := r.opts.PackageManager
	if choice == "" && !r.prompter.Interactive() {
		choice = orDefault(r.opts.Defaults.PackageManager, AutoPackageManager)
	}
	if choice == "" {
		items := []string{AutoPackageManager}
		for _, m := range pkgmanager.All() {
			items = append(items, m.String())
		}
		var err error
		choice, err = r.prompter.Select("Package manager", items, orDefault(r.opts.Defaults.PackageManager, AutoPackageManager))
		if err != nil {
			return 0, err
		}
	}
	if strings.EqualFold(choice, AutoPackageManager) {
		detector := r.opts.Detector
		if detector == nil {
			detector = pkgmanager.NewDetector()
		}
		return detector.Detect(ctx, workDir), nil
	}
	return pkgmanager.Parse(choice)
}

// extras answers the template's additional questions. Values passed in
// Options.Extra win; unknown keys are passed through to the template data.
func (r *resolver) extras(questions []templates.Question) (map[string]string, error) {
	result := make(map[string]string, len(r.opts.Extra)+len(questions))
	for k, v := range r.opts.Extra {
		result[k] = v
	}

	for _, q := range questions {
		if _, ok := result[q.Name]; ok {
			continue
		}
		label := q.Description
		if label == "" {
			label = q.Name
		}

		var (
			answer string
			err    error
		)
		if len(q.Choices) > 0 {
			answer, err = r.prompter.Select(label, q.Choices, q.Default)
		} else {
			answer, err = r.prompter.Input(label, q.Default)
		}
		if err != nil {
			return nil, err
		}
		result[q.Name] = answer
	}
	return result, nil
}

// packageDir resolves the directory for name relative to workDir.
func packageDir(workDir, name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(workDir, name)
}
