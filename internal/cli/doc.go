// Package cli defines the Cobra command tree for the createkit CLI. The root
// command creates a package; each other file registers one subcommand.
// Commands delegate to internal packages for the work and only handle flag
// parsing, output formatting, and user interaction.
package cli
