package cli

import (
	"github.com/createkit/createkit/internal/branding"
	"github.com/createkit/createkit/internal/config"
	"github.com/createkit/createkit/internal/logging"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName() + " <name>",
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates a new Node.js package from a template, writes its license,
installs its dependencies with npm, yarn, or pnpm, and records the initial git commit.

Examples:
  ` + branding.CLIName() + ` my-app
  ` + branding.CLIName() + ` my-app --template web --node-pm pnpm --yes
  ` + branding.CLIName() + ` my-app --set language=typescript

Report issues at https://github.com/` + branding.GitHubRepo() + `/issues`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(cmd.ErrOrStderr(), verbose)
		config.Load()
	},
	RunE: runCreate,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs to stderr")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
