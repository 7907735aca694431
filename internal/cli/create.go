package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/createkit/createkit/internal/config"
	"github.com/createkit/createkit/internal/create"
	"github.com/createkit/createkit/internal/pkgmanager"
	"github.com/createkit/createkit/internal/ui"
	"github.com/spf13/cobra"
)

var (
	createTemplate     string
	createTemplatesDir string
	createDescription  string
	createAuthor       string
	createEmail        string
	createLicense      string
	createNodePM       string
	createSkipGit      bool
	createSkipInstall  bool
	createYes          bool
	createSet          []string
)

// newAdapter builds the package manager adapter used by create and pm.
// Tests replace it with a recording runner.
var newAdapter = pkgmanager.New

func init() {
	f := rootCmd.Flags()
	f.StringVar(&createTemplate, "template", "", "Template to use")
	f.StringVar(&createTemplatesDir, "templates-dir", "", "Directory containing templates (default: built-in)")
	f.StringVar(&createDescription, "description", "", "Package description")
	f.StringVar(&createAuthor, "author", "", "Package author")
	f.StringVar(&createEmail, "email", "", "Package author email")
	f.StringVar(&createLicense, "license", "", "License identifier")
	f.StringVar(&createNodePM, "node-pm", "", "Package manager: npm, yarn, pnpm, or auto")
	f.BoolVar(&createSkipGit, "skip-git", false, "Do not initialize a git repository")
	f.BoolVar(&createSkipInstall, "skip-install", false, "Do not install dependencies")
	f.BoolVarP(&createYes, "yes", "y", false, "Use defaults instead of prompting")
	f.StringArrayVar(&createSet, "set", nil, "Answer a template question (key=value, repeatable)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	opts, err := createOptions(cmd, args)
	if err != nil {
		return err
	}

	result, err := create.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}

	printCreateResult(cmd.OutOrStdout(), result)
	return nil
}

// createOptions maps flags and config onto create.Options. Flags are
// answers; config values only pre-fill the questions.
func createOptions(cmd *cobra.Command, args []string) (create.Options, error) {
	extra, err := parseSet(createSet)
	if err != nil {
		return create.Options{}, err
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	templatesDir := createTemplatesDir
	if templatesDir == "" {
		templatesDir = config.Get(config.KeyTemplatesDir)
	}

	out := cmd.OutOrStdout()
	in := cmd.InOrStdin()

	return create.Options{
		Name:           name,
		TemplatesDir:   templatesDir,
		Template:       createTemplate,
		Description:    createDescription,
		Author:         createAuthor,
		Email:          createEmail,
		License:        createLicense,
		PackageManager: createNodePM,
		Extra:          extra,
		Defaults: create.Defaults{
			Author:         config.Get(config.KeyAuthor),
			Email:          config.Get(config.KeyEmail),
			License:        config.Get(config.KeyLicense),
			Template:       config.Get(config.KeyTemplate),
			PackageManager: config.Get(config.KeyPackageManager),
		},
		SkipGitInit: createSkipGit,
		SkipInstall: createSkipInstall,
		Interactive: !createYes && ui.IsTerminal(in),
		In:          in,
		Out:         out,
		CLIVersion:  buildVersion,
		Adapter:     newAdapter(out),
		Detector:    newDetector(),
	}, nil
}

// parseSet turns repeated key=value flags into a map.
func parseSet(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set value %q: expected key=value", pair)
		}
		values[key] = value
	}
	return values, nil
}

func printCreateResult(w io.Writer, result *create.Result) {
	fmt.Fprintln(w)
	ui.Success(w, "Created %s", result.PackageDir)
	for _, f := range result.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintln(w)
		for _, warning := range result.Warnings {
			ui.Warn(w, "%s", warning)
		}
	}
	if result.Caveat != "" {
		fmt.Fprintf(w, "\n%s\n", strings.TrimRight(result.Caveat, "\n"))
	}
}
