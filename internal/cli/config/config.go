// Package config implements the 'scriptdebug config' command family.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sfcc-studio/scriptdebug/internal/cli/helpers"
	"github.com/sfcc-studio/scriptdebug/internal/config"
)

const maskedValue = "********"

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd(flags *helpers.GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage scriptdebug configuration",
		Long: `Manage scriptdebug configuration.

Configuration Priority:
  1. Command-line flags (highest)
  2. SCRIPTDEBUG_* environment variables
  3. dw.json in the project directory (--project)
  4. Config file (~/.scriptdebug/config.yaml or --config)
  5. Built-in defaults

Environment Variables:
  SCRIPTDEBUG_CONFIG    Override the base directory (default: ~)
  SCRIPTDEBUG_HOSTNAME  Instance hostname
  SCRIPTDEBUG_USERNAME  Business Manager user
  SCRIPTDEBUG_PASSWORD  Business Manager password or access key`,
	}

	cmd.AddCommand(newViewCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newPathCmd())
	cmd.AddCommand(newInitCmd())

	return cmd
}

// newViewCmd creates the 'config view' command.
func newViewCmd(flags *helpers.GlobalFlags) *cobra.Command {
	var (
		format      string
		showSecrets bool
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show the merged configuration",
		Long: `Display the effective configuration after every source is merged.
The password is masked unless --show-secrets is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(format, viewFormats); err != nil {
				return err
			}
			return runView(cmd.OutOrStdout(), flags, helpers.OutputFormat(format), showSecrets)
		},
	}

	helpers.AddFormatFlag(cmd, &format, helpers.FormatYAML, viewFormats)
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print the password in clear text")

	return cmd
}

var viewFormats = []helpers.OutputFormat{helpers.FormatYAML, helpers.FormatJSON}

func runView(out io.Writer, flags *helpers.GlobalFlags, format helpers.OutputFormat, showSecrets bool) error {
	cfg, err := helpers.LoadConfig(flags)
	if err != nil {
		return err
	}

	if !showSecrets && cfg.Server.Password != "" {
		cfg.Server.Password = maskedValue
	}

	formatter, err := helpers.NewFormatter(format)
	if err != nil {
		return err
	}
	return formatter.Format(cfg, out)
}

// validationRow is one line of 'config validate' output.
type validationRow struct {
	Field   string `header:"FIELD" json:"field" yaml:"field"`
	Message string `header:"ERROR" json:"message" yaml:"message"`
}

// newValidateCmd creates the 'config validate' command.
func newValidateCmd(flags *helpers.GlobalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the merged configuration",
		Long: `Validate the effective configuration and report every error.

Checks:
- Server hostname, scheme and credentials are present
- Timeouts and intervals are within range
- Retry policy and log level are valid`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(format, validateFormats); err != nil {
				return err
			}
			return runValidate(cmd.OutOrStdout(), flags, helpers.OutputFormat(format))
		},
	}

	helpers.AddFormatFlag(cmd, &format, helpers.FormatTable, validateFormats)

	return cmd
}

var validateFormats = []helpers.OutputFormat{helpers.FormatTable, helpers.FormatJSON}

func runValidate(out io.Writer, flags *helpers.GlobalFlags, format helpers.OutputFormat) error {
	cfg, err := helpers.LoadConfig(flags)
	if err != nil {
		return err
	}

	err = cfg.Validate()
	if err == nil {
		if format == helpers.FormatJSON {
			return (&helpers.JSONFormatter{}).Format([]validationRow{}, out)
		}
		_, err := fmt.Fprintln(out, "✓ Configuration is valid")
		return err
	}

	var multi *config.MultiValidationError
	if !errors.As(err, &multi) {
		return err
	}

	rows := make([]validationRow, 0, len(multi.Errors))
	for _, e := range multi.Errors {
		rows = append(rows, validationRow{Field: e.Field, Message: e.Message})
	}

	formatter, ferr := helpers.NewFormatter(format)
	if ferr != nil {
		return ferr
	}
	if ferr := formatter.Format(rows, out); ferr != nil {
		return ferr
	}

	return fmt.Errorf("configuration has %d error(s)", len(rows))
}

// newPathCmd creates the 'config path' command.
func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the default config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.NewLoader().ConfigPath())
			return err
		},
	}
}

// newInitCmd creates the 'config init' command.
func newInitCmd() *cobra.Command {
	var (
		hostname string
		username string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Write ~/.scriptdebug/config.yaml with default settings.

The password is not stored; supply it through dw.json or SCRIPTDEBUG_PASSWORD.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.OutOrStdout(), config.NewLoader(), hostname, username, force)
		},
	}

	cmd.Flags().StringVar(&hostname, "hostname", "", "Instance hostname")
	cmd.Flags().StringVar(&username, "username", "", "Business Manager user")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

func runInit(out io.Writer, loader *config.Loader, hostname, username string, force bool) error {
	path := loader.ConfigPath()
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	cfg := config.DefaultConfig()
	cfg.Server.Hostname = hostname
	cfg.Server.Username = username

	if err := loader.Save(cfg); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "✓ Wrote %s\n", path)
	return err
}
