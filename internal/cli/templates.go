package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/createkit/createkit/internal/config"
	"github.com/createkit/createkit/internal/templates"
	"github.com/spf13/cobra"
)

var (
	templatesDir  string
	templatesJSON bool
)

func init() {
	templatesCmd.Flags().StringVar(&templatesDir, "templates-dir", "", "Directory containing templates (default: built-in)")
	templatesCmd.Flags().BoolVar(&templatesJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(templatesCmd)
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplates,
}

// templateEntry represents a template for display.
type templateEntry struct {
	Name         string   `json:"name"`
	Version      string   `json:"version,omitempty"`
	Description  string   `json:"description,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}

func runTemplates(cmd *cobra.Command, args []string) error {
	dir := templatesDir
	if dir == "" {
		dir = config.Get(config.KeyTemplatesDir)
	}
	root, err := templates.Open(dir)
	if err != nil {
		return err
	}
	ts, err := templates.Discover(root)
	if err != nil {
		return err
	}

	entries := make([]templateEntry, 0, len(ts))
	for _, t := range ts {
		e := templateEntry{Name: t.Name, Warnings: t.Warnings}
		if t.Meta != nil {
			e.Version = t.Meta.Version
			e.Description = t.Meta.Description
			e.Dependencies = append(append([]string(nil), t.Meta.Dependencies...), t.Meta.DevDependencies...)
		}
		entries = append(entries, e)
	}

	out := cmd.OutOrStdout()
	if templatesJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling templates: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No templates found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tDESCRIPTION")
	for _, e := range entries {
		version := e.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, version, e.Description)
	}
	return w.Flush()
}
