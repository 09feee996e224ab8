package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loamdb/loam/internal/fieldtype"
	"github.com/loamdb/loam/internal/schema"
)

// ModelDescription is the describe command's payload.
type ModelDescription struct {
	Name            string      `json:"name"`
	Source          string      `json:"source"`
	PrimaryKey      string      `json:"primary_key,omitempty"`
	Fields          []FieldDesc `json:"fields"`
	ReadAfterWrites []string    `json:"read_after_writes,omitempty"`
}

// FieldDesc is one field of a described model.
type FieldDesc struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <model> [schema-dir]",
		Short: "Show a model's compiled schema",
		Long: `Show a compiled model: its backing source, primary key, typed fields
in declaration order, and which columns are read back after writes.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := schemaDir(rootOpts, args[1:])
			if err != nil {
				return err
			}
			return runDescribe(rootOpts, dir, args[0], cmd)
		},
	}
}

func runDescribe(opts *RootOptions, dir, model string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result, loadErrors := schema.LoadDir(dir, schema.LoadModeFailFast)
	if len(loadErrors) > 0 {
		var le *schema.LoadError
		if errors.As(loadErrors[0], &le) {
			_ = formatter.Error(le.Code, le.Message, nil)
			return NewExitError(ExitCommandError, le.Error())
		}
		_ = formatter.Error(schema.ErrCodeGeneric, loadErrors[0].Error(), nil)
		return NewExitError(ExitCommandError, loadErrors[0].Error())
	}

	s, ok := result.Get(model)
	if !ok {
		msg := fmt.Sprintf("model %q not found in %s", model, dir)
		_ = formatter.Error(schema.ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	desc := ModelDescription{
		Name:            s.Name,
		Source:          s.Source,
		PrimaryKey:      s.PrimaryKey,
		ReadAfterWrites: s.ReadAfterWrites,
	}
	for _, f := range s.Fields {
		desc.Fields = append(desc.Fields, FieldDesc{Name: f.Name, Type: fieldtype.TypeString(f.Type)})
	}

	if formatter.Format == "json" {
		return formatter.Success(desc)
	}

	fmt.Fprintf(formatter.Writer, "model %s (source: %s)\n", desc.Name, desc.Source)
	if desc.PrimaryKey != "" {
		fmt.Fprintf(formatter.Writer, "  primary key: %s\n", desc.PrimaryKey)
	}
	for _, f := range desc.Fields {
		fmt.Fprintf(formatter.Writer, "  %-16s %s\n", f.Name, f.Type)
	}
	if len(desc.ReadAfterWrites) > 0 {
		fmt.Fprintf(formatter.Writer, "  read after writes: %v\n", desc.ReadAfterWrites)
	}
	return nil
}
