package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/createkit/createkit/internal/config"
	"github.com/createkit/createkit/internal/create"
	"github.com/createkit/createkit/internal/pkgmanager"
	"github.com/spf13/cobra"
)

var (
	pmDir     string
	pmManager string
	pmDev     bool
)

func init() {
	pmCmd.PersistentFlags().StringVar(&pmDir, "dir", ".", "Package directory")
	pmCmd.PersistentFlags().StringVar(&pmManager, "node-pm", "", "Package manager: npm, yarn, or pnpm (default: detect)")
	pmAddCmd.Flags().BoolVarP(&pmDev, "dev", "D", false, "Add as development dependencies")

	pmCmd.AddCommand(pmInitCmd)
	pmCmd.AddCommand(pmInstallCmd)
	pmCmd.AddCommand(pmAddCmd)
	rootCmd.AddCommand(pmCmd)
}

var pmCmd = &cobra.Command{
	Use:   "pm",
	Short: "Run package manager operations on an existing package",
	Long: `Run the same package manager commands the create flow uses against an
existing directory. The manager comes from --node-pm, the package_manager
config key, or detection in the directory, in that order.`,
}

var pmInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create package.json without prompting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, m, err := pmTarget(cmd)
		if err != nil {
			return err
		}
		return newAdapter(cmd.OutOrStdout()).InitPackage(cmd.Context(), dir, m)
	},
}

var pmInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the dependencies declared in package.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, m, err := pmTarget(cmd)
		if err != nil {
			return err
		}
		return newAdapter(cmd.OutOrStdout()).InstallDeps(cmd.Context(), dir, m)
	},
}

var pmAddCmd = &cobra.Command{
	Use:   "add <package>...",
	Short: "Add dependencies to package.json",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, m, err := pmTarget(cmd)
		if err != nil {
			return err
		}
		return newAdapter(cmd.OutOrStdout()).AddDeps(cmd.Context(), dir, args, pkgmanager.AddOptions{Dev: pmDev, Manager: m})
	},
}

// pmTarget resolves the absolute package directory and the manager to use.
func pmTarget(cmd *cobra.Command) (string, pkgmanager.Manager, error) {
	dir, err := filepath.Abs(pmDir)
	if err != nil {
		return "", 0, fmt.Errorf("resolving %s: %w", pmDir, err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", 0, fmt.Errorf("package directory: %w", err)
	}
	if !info.IsDir() {
		return "", 0, fmt.Errorf("package directory %s is not a directory", dir)
	}

	name := pmManager
	if name == "" {
		name = config.Get(config.KeyPackageManager)
	}
	if name == "" || strings.EqualFold(name, create.AutoPackageManager) {
		return dir, newDetector().Detect(cmd.Context(), dir), nil
	}
	m, err := pkgmanager.Parse(name)
	if err != nil {
		return "", 0, err
	}
	return dir, m, nil
}
