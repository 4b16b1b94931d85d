package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mjscene/internal/catalog"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	Assets   string
	Category string
	Limit    int
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the asset repository",
		Long: `Search asset manifests by id, name, tags, and semantic vocabulary.

Results are ranked by relevance; ties break on repository scan order
so the same query always returns the same ordering.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Assets, "assets", "a", "", "asset repository root (required)")
	_ = cmd.MarkFlagRequired("assets")
	cmd.Flags().StringVar(&opts.Category, "category", "", "restrict results to one category")
	cmd.Flags().IntVar(&opts.Limit, "limit", catalog.DefaultSearchLimit, "maximum number of results")

	return cmd
}

func runSearch(opts *SearchOptions, query string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cat, err := catalog.New(opts.Assets)
	if err != nil {
		return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("loading asset repository: %v", err))
	}
	formatter.VerboseLog("Indexed %d asset(s) under %s", cat.Len(), opts.Assets)

	results := cat.Search(query, opts.Category, opts.Limit)

	if formatter.Format == "json" {
		return formatter.Success(results)
	}

	if len(results) == 0 {
		fmt.Fprintf(formatter.Writer, "No assets match %q\n", query)
		return nil
	}

	fmt.Fprintf(formatter.Writer, "%d result(s) for %q\n\n", len(results), query)
	for _, r := range results {
		fmt.Fprintf(formatter.Writer, "  %s  %s (%s, %s, score %d)\n", r.AssetID, r.Name, r.Category, r.Availability, r.Score)
	}
	return nil
}
