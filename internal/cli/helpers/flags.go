package helpers

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// GlobalFlags are the persistent flags of the root command.
type GlobalFlags struct {
	// ConfigPath overrides ~/.scriptdebug/config.yaml.
	ConfigPath string
	// ProjectDir is searched for dw.json and anchors a relative source root.
	ProjectDir string
	// LogLevel overrides logging.level when set.
	LogLevel string
}

// AddGlobalFlags registers the global flags on fs, normally the root command's
// persistent flag set.
func AddGlobalFlags(fs *pflag.FlagSet, flags *GlobalFlags) {
	fs.StringVar(&flags.ConfigPath, "config", "", "Config file (default ~/.scriptdebug/config.yaml)")
	fs.StringVarP(&flags.ProjectDir, "project", "p", ".", "Project directory containing dw.json")
	fs.StringVar(&flags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
}

// AddFormatFlag adds a standard --format/-o flag to a command.
func AddFormatFlag(cmd *cobra.Command, formatVar *string, defaultFormat OutputFormat, supportedFormats []OutputFormat) {
	formatNames := make([]string, len(supportedFormats))
	for i, f := range supportedFormats {
		formatNames[i] = string(f)
	}

	description := fmt.Sprintf("Output format (%s)", strings.Join(formatNames, ", "))
	cmd.Flags().StringVarP(formatVar, "format", "o", string(defaultFormat), description)

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return formatNames, cobra.ShellCompDirectiveNoFileComp
	})
}

// ValidateFormat checks if the format is in the supported list.
func ValidateFormat(format string, supported []OutputFormat) error {
	for _, s := range supported {
		if format == string(s) {
			return nil
		}
	}

	supportedNames := make([]string, len(supported))
	for i, s := range supported {
		supportedNames[i] = string(s)
	}

	return fmt.Errorf("unsupported format %q, must be one of: %s",
		format, strings.Join(supportedNames, ", "))
}
