package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loamdb/loam/internal/schema"
)

// ValidationIssue is one schema problem found during validation.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Models int               `json:"models"`
	Issues []ValidationIssue `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [schema-dir]",
		Short: "Validate model schemas",
		Long: `Validate CUE model schemas without touching a database.

Checks that every model declares a source and typed fields, that field
types are known, and that primary keys and read-after-write lists name
declared fields. Collects every problem instead of stopping at the first.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := schemaDir(rootOpts, args)
			if err != nil {
				return err
			}
			return runValidate(rootOpts, dir, cmd)
		},
	}
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	result, loadErrors := schema.LoadDir(dir, schema.LoadModeCollectAll)
	if result == nil && len(loadErrors) > 0 {
		var le *schema.LoadError
		if errors.As(loadErrors[0], &le) {
			_ = formatter.Error(le.Code, le.Message, nil)
			return NewExitError(ExitCommandError, le.Error())
		}
		_ = formatter.Error(schema.ErrCodeGeneric, loadErrors[0].Error(), nil)
		return NewExitError(ExitCommandError, loadErrors[0].Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", result.FileCount, dir)
	for _, s := range result.Schemas {
		formatter.VerboseLog("Compiled model %s (%d fields)", s.Name, len(s.Fields))
	}

	issues := make([]ValidationIssue, 0, len(loadErrors))
	for _, err := range loadErrors {
		var le *schema.LoadError
		if errors.As(err, &le) {
			issue := ValidationIssue{Code: le.Code, Message: le.Message}
			if le.Pos.IsValid() {
				issue.File = le.Pos.Filename()
				issue.Line = le.Pos.Line()
			}
			issues = append(issues, issue)
			continue
		}
		issues = append(issues, ValidationIssue{Code: schema.ErrCodeGeneric, Message: err.Error()})
	}

	if len(issues) > 0 {
		return outputValidationIssues(formatter, len(result.Schemas), issues)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Models: len(result.Schemas)})
	}
	fmt.Fprintf(formatter.Writer, "✓ %d model(s) valid\n", len(result.Schemas))
	return nil
}

// outputValidationIssues outputs the collected problems and returns the
// validation-failure exit error.
func outputValidationIssues(formatter *OutputFormatter, models int, issues []ValidationIssue) error {
	if formatter.Format == "json" {
		_ = formatter.Error(issues[0].Code, issues[0].Message,
			ValidationResult{Valid: false, Models: models, Issues: issues})
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d issue(s)", len(issues)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, issue := range issues {
		if issue.File != "" {
			fmt.Fprintf(formatter.Writer, "%s:%d\n", issue.File, issue.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", issue.Code, issue.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d issue(s)", len(issues)))
}
