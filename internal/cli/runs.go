package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mjscene/internal/catalog"
	"github.com/roach88/mjscene/internal/compiler"
	"github.com/roach88/mjscene/internal/store"
)

// ErrCodeDrift marks a recorded run whose recompilation no longer
// matches the recorded hashes.
const ErrCodeDrift = "E_DRIFT"

// RunsListOptions holds flags for the runs list command.
type RunsListOptions struct {
	*RootOptions
	Database string
	Scene    string
	Limit    int
}

// RunsVerifyOptions holds flags for the runs verify command.
type RunsVerifyOptions struct {
	*RootOptions
	Database string
	Assets   string
	Scene    string
}

// NewRunsCommand creates the runs command group.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded compile runs",
		Long: `Inspect the provenance database written by compile --record.

Each recorded run pins the spec hash, seed, and document hash of one
compilation, so a document's origin can be audited and re-verified
later.`,
	}

	cmd.AddCommand(newRunsListCommand(rootOpts))
	cmd.AddCommand(newRunsVerifyCommand(rootOpts))

	return cmd
}

func newRunsListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded compile runs",
		Long: `List recorded compile runs, newest first.

Examples:
  mjscene runs list --db ./runs.db
  mjscene runs list --db ./runs.db --scene courtyard --limit 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Scene, "scene", "", "filter to one scene name")
	cmd.Flags().IntVar(&opts.Limit, "limit", store.DefaultListLimit, "maximum number of runs")

	return cmd
}

func runRunsList(opts *RunsListOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := store.Open(opts.Database)
	if err != nil {
		return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("opening run database: %v", err))
	}
	defer st.Close()

	runs, err := st.ListRuns(context.Background(), opts.Scene, opts.Limit)
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, fmt.Sprintf("listing runs: %v", err))
	}

	if formatter.Format == "json" {
		return formatter.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded")
		return nil
	}

	fmt.Fprintf(formatter.Writer, "%d run(s)\n\n", len(runs))
	for _, run := range runs {
		fmt.Fprintf(formatter.Writer, "  %s  %s  seed %d  %d instance(s)  %s\n",
			run.ID, run.SceneName, run.Seed, run.InstanceCount, run.CreatedAt)
	}
	return nil
}

func newRunsVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsVerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <run-id>",
		Short: "Recompile a recorded run and compare hashes",
		Long: `Recompile a recorded run from its scene spec and compare the result
against the recorded hashes.

A verified run proves the spec, asset repository, and compiler still
reproduce the recorded document byte for byte. Drift in either hash
means something changed since the run was recorded.

Examples:
  mjscene runs verify 5b9f... --db ./runs.db --assets ./assets --scene ./scenes/courtyard.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsVerify(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVarP(&opts.Assets, "assets", "a", "", "asset repository root (required)")
	_ = cmd.MarkFlagRequired("assets")
	cmd.Flags().StringVar(&opts.Scene, "scene", "", "scene spec file to recompile (required)")
	_ = cmd.MarkFlagRequired("scene")

	return cmd
}

func runRunsVerify(opts *RunsVerifyOptions, runID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := store.Open(opts.Database)
	if err != nil {
		return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("opening run database: %v", err))
	}
	defer st.Close()

	cat, err := catalog.New(opts.Assets)
	if err != nil {
		return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("loading asset repository: %v", err))
	}

	spec, findings, err := compiler.LoadScene(opts.Scene)
	if err != nil {
		return outputCommandError(formatter, ErrCodeLoadFailed, fmt.Sprintf("loading %s: %v", opts.Scene, err))
	}
	if len(findings) > 0 {
		return outputValidationErrors(formatter, findings)
	}

	verification, err := st.VerifyRun(context.Background(), runID, spec, cat)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			return outputCommandError(formatter, ErrCodeNotFound, err.Error())
		}
		return outputCommandError(formatter, ErrCodeGeneric, fmt.Sprintf("verifying run: %v", err))
	}

	return outputVerification(formatter, verification)
}

// outputVerification emits the verification result. Drift is a content
// failure (exit code 1).
func outputVerification(formatter *OutputFormatter, v *store.Verification) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "ok",
			Data:   v,
		}
		if !v.Match {
			response.Status = "error"
			response.Error = &CLIError{
				Code:    ErrCodeDrift,
				Message: v.Mismatches[0],
			}
		}
		if err := formatter.WriteResponse(response); err != nil {
			return err
		}

		if !v.Match {
			return NewExitError(ExitFailure, "run verification failed")
		}
		return nil
	}

	if v.Match {
		fmt.Fprintf(formatter.Writer, "✓ Run %s verified\n", v.RunID)
		return nil
	}

	fmt.Fprintf(formatter.Writer, "✗ Run %s drifted\n\n", v.RunID)
	for _, m := range v.Mismatches {
		fmt.Fprintf(formatter.Writer, "  %s\n", m)
	}
	return NewExitError(ExitFailure, "run verification failed")
}
