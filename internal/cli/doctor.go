package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/createkit/createkit/internal/config"
	"github.com/createkit/createkit/internal/pkgmanager"
	"github.com/createkit/createkit/internal/ui"
	"github.com/createkit/createkit/internal/versioncheck"
	"github.com/spf13/cobra"
)

var (
	doctorDir    string
	doctorLatest bool
)

// Replaced in tests.
var (
	newDetector   = pkgmanager.NewDetector
	doctorVersion pkgmanager.VersionFunc
	newChecker    = func() *versioncheck.Checker { return versioncheck.NewChecker(config.Dir()) }
)

func init() {
	doctorCmd.Flags().StringVar(&doctorDir, "dir", "", "Directory to run detection in (default: current directory)")
	doctorCmd.Flags().BoolVar(&doctorLatest, "latest", false, "Compare installed versions with the npm registry")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Show installed package managers and which one would be used",
	Long: `Report each package manager's installed version, every detection probe's
verdict for the directory, and the manager a new package would use.
With --latest, installed versions are compared with the newest releases on
the npm registry (cached for a day).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := doctorDir
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting working directory: %w", err)
			}
			dir = wd
		}

		out := cmd.OutOrStdout()
		ctx := cmd.Context()

		var checker *versioncheck.Checker
		if doctorLatest {
			checker = newChecker()
		}

		fmt.Fprintln(out, "Package managers:")
		for _, m := range pkgmanager.All() {
			v, err := pkgmanager.InstalledVersion(ctx, m, doctorVersion)
			if err != nil {
				fmt.Fprintf(out, "  [MISS] %s: %v\n", m, err)
				continue
			}
			fmt.Fprintf(out, "  [ OK ] %s %s\n", m, v)
			if checker != nil {
				reportLatest(ctx, out, checker, m, v.String())
			}
		}

		fmt.Fprintln(out, "\nTools:")
		checkBinary(out, "git")
		checkBinary(out, "node")

		detector := newDetector()
		fmt.Fprintf(out, "\nDetection in %s:\n", dir)
		for _, r := range detector.Explain(ctx, dir) {
			if r.Matched {
				fmt.Fprintf(out, "  [ OK ] %-10s -> %s\n", r.Probe, r.Manager)
			} else {
				fmt.Fprintf(out, "  [ -- ] %-10s no match\n", r.Probe)
			}
		}
		fmt.Fprintf(out, "\nSelected: %s\n", detector.Detect(ctx, dir))
		return nil
	},
}

func reportLatest(ctx context.Context, w io.Writer, checker *versioncheck.Checker, m pkgmanager.Manager, installed string) {
	latest, err := checker.Latest(ctx, m)
	if err != nil {
		ui.Warn(w, "%s: could not check latest version: %v", m, err)
		return
	}
	available, err := versioncheck.IsUpdateAvailable(installed, latest)
	if err != nil {
		ui.Warn(w, "%s: %v", m, err)
		return
	}
	if available {
		fmt.Fprintf(w, "         update available: %s -> %s\n", installed, latest)
	}
}

func checkBinary(w io.Writer, name string) {
	path, err := exec.LookPath(name)
	if err != nil {
		fmt.Fprintf(w, "  [MISS] %s not found\n", name)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s found at %s\n", name, path)
}
