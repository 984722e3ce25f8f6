// Package commands wires the oeectl subcommands.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oeelens/oee-apiserver/internal/cli/ui"
)

const version = "0.1.0"

// rootCmd is the root command
var rootCmd = &cobra.Command{
	Use:     "oeectl",
	Short:   "Manufacturing analytics CLI",
	Version: version,
	Long: `A command-line tool for exploring manufacturing telemetry through the
OEE API server. Provides an interactive analysis chat, machine and data
file listings, and PDF report export.`,
	Example: `  # List machines with imported data
  $ oeectl machines

  # Show the imported files of one machine
  $ oeectl machines MC_PRESS_9

  # Start an interactive analysis chat
  $ oeectl chat

  # Run a one-shot query and save the report as PDF
  $ oeectl export -m MC_PRESS_9 -q "give me a comprehensive report for january 2025"`,
}

// Execute executes the root command
func Execute() error {
	rootCmd.SetVersionTemplate(formatVersion())
	return rootCmd.Execute()
}

func init() {
	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add subcommands
	rootCmd.AddCommand(machinesCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(exportCmd)

	// Set custom template with bold uppercase headers
	rootCmd.SetUsageTemplate(usageTemplate())
	rootCmd.SetHelpTemplate(usageTemplate())
}

func usageTemplate() string {
	return `{{if .Long}}{{.Long}}

{{end}}` + ui.Styles.Bold.Render("USAGE") + `
  {{.UseLine}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}

{{if .HasExample}}` + ui.Styles.Bold.Render("EXAMPLES") + `
{{.Example}}

{{end}}{{if .HasAvailableSubCommands}}` + ui.Styles.Bold.Render("COMMANDS") + `{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableLocalFlags}}` + ui.Styles.Bold.Render("OPTIONS") + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
}

// formatVersion formats the version output
func formatVersion() string {
	return fmt.Sprintf("oeectl version %s\n", version)
}
