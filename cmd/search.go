package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/seven7ty/dscgg/dscgg"
	"github.com/seven7ty/dscgg/filter"
)

var (
	// Search command flags
	searchLimit  int
	searchType   string
	searchFilter string
)

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(topCmd)

	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 0, "maximum number of results")
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "", "restrict results to server, bot or template links")
	searchCmd.Flags().StringVarP(&searchFilter, "filter", "f", "", "filter expression applied to results")
	topCmd.Flags().StringVarP(&searchFilter, "filter", "f", "", "filter expression applied to results")
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the dsc.gg link database",
	Long: `Search the dsc.gg link database. Results can be narrowed server-side
with --limit and --type, and client-side with a --filter expression, e.g.

  dscgg search gaming --type server --filter '!Unlisted && daysSince(CreatedAt) < 90'`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	defer client.Close()

	limit := searchLimit
	if limit == 0 {
		limit = cfg.Search.DefaultLimit
	}

	links, err := client.Search(cmd.Context(), args[0], &dscgg.SearchOptions{
		Limit: limit,
		Type:  searchType,
	})
	if err != nil {
		return err
	}

	links, err = applyFilter(links)
	if err != nil {
		return err
	}

	if len(links) == 0 {
		fmt.Println("No links found.")
		return nil
	}

	fmt.Printf("Found %d links:\n", len(links))
	printLinkList(links)
	return nil
}

// topCmd represents the top command
var topCmd = &cobra.Command{
	Use:   "top",
	Short: "List the current top-ranked dsc.gg links",
	RunE:  runTop,
}

func runTop(cmd *cobra.Command, args []string) error {
	defer client.Close()

	links, err := client.GetTopLinks(cmd.Context())
	if err != nil {
		return err
	}

	links, err = applyFilter(links)
	if err != nil {
		return err
	}

	if len(links) == 0 {
		fmt.Println("No links found.")
		return nil
	}

	fmt.Printf("Top %d links:\n", len(links))
	printLinkList(links)
	return nil
}

// applyFilter narrows links with the --filter expression, falling back to
// the configured default.
func applyFilter(links []dscgg.Link) ([]dscgg.Link, error) {
	expression := searchFilter
	if expression == "" {
		expression = cfg.Search.DefaultFilter
	}
	if expression == "" {
		return links, nil
	}

	f, err := filter.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	logger.Debug().Str("filter", f.Expression()).Int("before", len(links)).Msg("Applying link filter")
	return f.Apply(links), nil
}

func printLinkList(links []dscgg.Link) {
	rows := lo.Map(links, func(link dscgg.Link, _ int) string {
		return fmt.Sprintf("  • dsc.gg/%s → %s (%s)", link.ID, link.Redirect, link.Type)
	})
	for _, row := range rows {
		fmt.Println(row)
	}
}
