package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/enigma/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Machines []string                   `json:"machines"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config>",
		Short: "Validate machine definitions",
		Long: `Validate machine definitions in a CUE or YAML file, or a directory of them.

Checks the CUE schema, then that every wiring is a permutation of the
alphabet, every offset lies in range, and every reflector is an involution.
All errors are reported, not just the first.

Exit codes:
  0 - All machines valid
  1 - One or more machines invalid
  2 - Command error (path not found, CUE syntax error, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loadResult, err := LoadMachines(path)
	if err != nil {
		code := loadErrorCode(err)
		_ = formatter.Error(code, err.Error(), nil)
		// Load errors are command-level errors (exit code 2)
		return WrapExitError(ExitCommandError, code, err)
	}

	formatter.VerboseLog("Found %d machine(s) in %d file(s)", len(loadResult.Machines), len(loadResult.Files))

	names := make([]string, len(loadResult.Machines))
	var errs []compiler.ValidationError
	for i, spec := range loadResult.Machines {
		names[i] = spec.Name
		formatter.VerboseLog("Validating machine: %s", spec.Name)
		for _, ve := range compiler.Validate(spec) {
			ve.Field = spec.Name + "." + ve.Field
			errs = append(errs, ve)
		}
	}

	if len(errs) > 0 {
		return outputValidationErrors(formatter, names, errs)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Machines: names})
	}
	fmt.Fprintf(formatter.Writer, "✓ %d machine(s) valid\n", len(names))
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, names []string, errs []compiler.ValidationError) error {
	// Validation failures = exit code 1
	exitErr := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.Format == "json" {
		err := formatter.Response(CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Machines: names, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		})
		if err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s %s: %s\n", err.Code, err.Field, err.Message)
	}

	return exitErr
}
