package debug

import (
	"github.com/spf13/cobra"

	"github.com/sfcc-studio/scriptdebug/internal/cli/helpers"
)

// NewDebugCmd creates the debug command group.
func NewDebugCmd(flags *helpers.GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debug",
		Short: "Debug server-side scripts on an instance",
		Long: `Commands for debugging scripts running on a commerce instance through the
Script Debugger API. Credentials and hostname come from dw.json in the project
directory, ~/.scriptdebug/config.yaml or SCRIPTDEBUG_* environment variables.`,
	}

	cmd.AddCommand(NewAttachCmd(flags))

	return cmd
}
