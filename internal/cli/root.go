package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Config     *Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the loam CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "loam",
		Short: "loam - typed schemas over SQLite",
		Long:  "Compile CUE model schemas, validate them, and describe their typed fields.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			explicit := cmd.Flags().Changed("config")
			cfg, err := LoadConfig(opts.ConfigPath, explicit)
			if err != nil {
				return NewExitError(ExitCommandError, err.Error())
			}
			opts.Config = cfg

			// Flags win over config file values.
			if !cmd.Flags().Changed("format") && cfg.Format != "" {
				opts.Format = cfg.Format
			}
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", DefaultConfigPath, "config file path")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewDescribeCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// schemaDir resolves the schema directory from args or config.
func schemaDir(opts *RootOptions, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if opts.Config != nil && opts.Config.SchemaDir != "" {
		return opts.Config.SchemaDir, nil
	}
	return "", NewExitError(ExitCommandError, "no schema directory given and none configured")
}
