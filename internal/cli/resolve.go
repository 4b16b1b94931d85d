package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mjscene/internal/catalog"
	"github.com/roach88/mjscene/internal/compiler"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	*RootOptions
	Assets   string
	Category string
}

// ResolveResult holds the outcome of resolving a concept to an asset.
type ResolveResult struct {
	Query    string            `json:"query"`
	Resolved *catalog.Manifest `json:"resolved"`
	Fallback bool              `json:"fallback,omitempty"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resolve <concept>",
		Short: "Resolve a free-form concept to an asset",
		Long: `Resolve a free-form concept like "wooden box" to a concrete asset.

Fuzzy search over ids, names, tags, and semantic vocabulary runs
first; when nothing matches, assets declaring the concept in their
fallback_for list stand in.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Assets, "assets", "a", "", "asset repository root (required)")
	_ = cmd.MarkFlagRequired("assets")
	cmd.Flags().StringVar(&opts.Category, "category", "", "restrict matches to one category")

	return cmd
}

func runResolve(opts *ResolveOptions, concept string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cat, err := catalog.New(opts.Assets)
	if err != nil {
		return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("loading asset repository: %v", err))
	}

	// Same two steps as scene compilation: best fuzzy match, then
	// fallback substitution.
	m := cat.BestMatch(concept, opts.Category, true)
	fallback := false
	if m == nil {
		m = cat.FindFallback(concept, opts.Category)
		fallback = m != nil
	}

	if m == nil {
		// Resolve on the raw id carries suggestions for near misses.
		msg := fmt.Sprintf("no asset matches %q", concept)
		if _, resolveErr := cat.Resolve(concept); resolveErr != nil {
			msg = resolveErr.Error()
		}
		_ = formatter.Error(compiler.ErrUnresolvedAsset, msg, nil)
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", compiler.ErrUnresolvedAsset, msg))
	}

	result := ResolveResult{Query: concept, Resolved: m, Fallback: fallback}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "%s → %s\n", concept, m.AssetID)
	fmt.Fprintf(formatter.Writer, "  name: %s\n", m.Name)
	fmt.Fprintf(formatter.Writer, "  category: %s\n", m.Category)
	fmt.Fprintf(formatter.Writer, "  availability: %s\n", m.Availability)
	if fallback {
		fmt.Fprintln(formatter.Writer, "  matched via fallback_for")
	}
	return nil
}
