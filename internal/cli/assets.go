package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mjscene/internal/catalog"
)

// AssetsOptions holds flags for the assets command.
type AssetsOptions struct {
	*RootOptions
	Assets    string
	Category  string
	LocalOnly bool
}

// NewAssetsCommand creates the assets command.
func NewAssetsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AssetsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "assets",
		Short: "List the asset repository grouped by category",
		Long: `List every valid asset in the repository, grouped by category.

The listing is the compact inventory used to brief scene authors on
what the repository offers. Remote assets are marked; --local-only
hides them.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssets(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Assets, "assets", "a", "", "asset repository root (required)")
	_ = cmd.MarkFlagRequired("assets")
	cmd.Flags().StringVar(&opts.Category, "category", "", "show only one category")
	cmd.Flags().BoolVar(&opts.LocalOnly, "local-only", false, "hide remote assets")

	return cmd
}

func runAssets(opts *AssetsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cat, err := catalog.New(opts.Assets)
	if err != nil {
		return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("loading asset repository: %v", err))
	}

	grouped := cat.Grouped(opts.LocalOnly)
	if opts.Category != "" {
		entries, ok := grouped[opts.Category]
		grouped = map[string][]catalog.GroupedEntry{}
		if ok {
			grouped[opts.Category] = entries
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(grouped)
	}

	if len(grouped) == 0 {
		fmt.Fprintln(formatter.Writer, "No assets found")
		return nil
	}

	categories := make([]string, 0, len(grouped))
	for c := range grouped {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, c := range categories {
		entries := grouped[c]
		fmt.Fprintf(formatter.Writer, "%s (%d)\n", c, len(entries))
		for _, e := range entries {
			line := fmt.Sprintf("  %s  %s", e.AssetID, e.Name)
			if len(e.Tags) > 0 {
				line += fmt.Sprintf(" [%s]", strings.Join(e.Tags, ", "))
			}
			if e.Availability == catalog.AvailabilityRemote {
				line += " (remote)"
			}
			fmt.Fprintln(formatter.Writer, line)
		}
		fmt.Fprintln(formatter.Writer)
	}
	return nil
}
