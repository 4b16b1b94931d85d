package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/mjscene/internal/catalog"
	"github.com/roach88/mjscene/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Assets string // optional asset repository for reference checks
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <scene-file-or-dir>",
		Short: "Validate scene specs without compiling",
		Long: `Validate scene specs against the schema without building documents.

Performs schema validation and semantic checks. With --assets, also
verifies that every referenced asset id exists in the repository.
Faster than compile for development feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Assets, "assets", "a", "", "asset repository root for reference checks")

	return cmd
}

func runValidate(opts *ValidateOptions, scenePath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	var cat *catalog.Catalog
	if opts.Assets != "" {
		var err error
		cat, err = catalog.New(opts.Assets)
		if err != nil {
			return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("loading asset repository: %v", err))
		}
		formatter.VerboseLog("Indexed %d asset(s) under %s", cat.Len(), opts.Assets)
	}

	// Use shared loader with fail-fast mode for validation
	scenes, loadErrors := LoadScenes(scenePath, LoadModeFailFast)

	// Path-level errors (path not found, no files, etc.) are command
	// errors. Per-file load errors fold into the validation report.
	if len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) && loadErr.Path == "" {
			return outputLoadError(formatter, loadErrors[0])
		}
	}
	formatter.VerboseLog("Found %d scene file(s) in %s", len(scenes), scenePath)

	validationErrors := collectFindings(scenes, cat)

	// Add any load errors as validation errors
	for _, err := range loadErrors {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			validationErrors = append(validationErrors, compiler.ValidationError{
				Field:   loadErr.Path,
				Message: loadErr.Message,
				Code:    loadErr.Code,
			})
		}
	}

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, validationErrors)
	}

	// Output success
	return outputValidateSuccess(formatter)
}

// collectFindings merges per-scene load findings with asset reference
// checks. A nil catalog skips the reference pass. Fields are prefixed
// with the file name when more than one scene is in play.
func collectFindings(scenes []LoadedScene, cat *catalog.Catalog) []compiler.ValidationError {
	var all []compiler.ValidationError
	for _, scene := range scenes {
		var findings []compiler.ValidationError
		findings = append(findings, scene.Findings...)
		if scene.Spec != nil && cat != nil {
			findings = append(findings, compiler.ValidateAssetRefs(scene.Spec, cat)...)
		}
		for _, f := range findings {
			if len(scenes) > 1 {
				f.Field = filepath.Base(scene.Path) + ": " + f.Field
			}
			all = append(all, f)
		}
	}
	return all
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter) error {
	if formatter.Format == "json" {
		result := ValidationResult{Valid: true}
		return formatter.Success(result)
	}

	fmt.Fprintln(formatter.Writer, "✓ All scenes valid")
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		result := ValidationResult{
			Valid:  false,
			Errors: errs,
		}

		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		if err := formatter.WriteResponse(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (content failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  [%s] %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	// Validation failures = exit code 1 (content failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
