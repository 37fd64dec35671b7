// Package cli wires the scriptdebug command tree.
package cli

import (
	"github.com/spf13/cobra"

	configcmd "github.com/sfcc-studio/scriptdebug/internal/cli/config"
	"github.com/sfcc-studio/scriptdebug/internal/cli/debug"
	"github.com/sfcc-studio/scriptdebug/internal/cli/helpers"
	"github.com/sfcc-studio/scriptdebug/pkg/version"
)

// NewRootCmd builds the scriptdebug command tree.
func NewRootCmd() *cobra.Command {
	flags := &helpers.GlobalFlags{}

	rootCmd := &cobra.Command{
		Use:   "scriptdebug",
		Short: "scriptdebug - remote debugger for commerce-platform server scripts",
		Long: `Debug server-side scripts running on a commerce instance from the terminal.

scriptdebug talks to the instance's Script Debugger API: it keeps breakpoints in
sync with the server, reports threads that halt on them and resumes them on request.

Key capabilities:
- Breakpoints set before connecting are sent once the session is established
- Halted threads are reported with their call stack
- Connection loss is detected and breakpoints are kept for the next connect`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	helpers.AddGlobalFlags(rootCmd.PersistentFlags(), flags)

	rootCmd.AddCommand(debug.NewDebugCmd(flags))
	rootCmd.AddCommand(configcmd.NewConfigCmd(flags))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(format, versionFormats); err != nil {
				return err
			}

			info := version.Get()
			if format != string(helpers.FormatTable) {
				formatter, err := helpers.NewFormatter(helpers.OutputFormat(format))
				if err != nil {
					return err
				}
				return formatter.Format(info, cmd.OutOrStdout())
			}

			cmd.Printf("scriptdebug version %s\n", info.Version)
			cmd.Printf("Git commit: %s\n", info.GitCommit)
			cmd.Printf("Build date: %s\n", info.BuildDate)
			cmd.Printf("Go version: %s\n", info.GoVersion)
			cmd.Printf("Platform: %s\n", info.Platform)
			return nil
		},
	}

	helpers.AddFormatFlag(cmd, &format, helpers.FormatTable, versionFormats)

	return cmd
}

var versionFormats = []helpers.OutputFormat{helpers.FormatTable, helpers.FormatJSON, helpers.FormatYAML}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
