package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Genty83/SimplifyTable/pkg/query"
)

var (
	queryFilters  []string
	queryPage     int
	queryLimit    int
	queryPaginate bool
	queryJSON     bool
)

var queryCmd = &cobra.Command{
	Use:   "query <source>",
	Short: "Fetch, filter and page a dataset",
	Long: `Resolves a dataset and prints the matching records.

The source may be a name from the config file, a URL serving JSON or
CSV, or a local .json/.csv file. Filters are case-insensitive substring
matches combined with AND.`,
	Example: `  simplifytable query users --filter role=admin --paginate --page 2
  simplifytable query https://api.example.com/orders.csv --filter status=open
  simplifytable query ./data.json --json`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringArrayVarP(&queryFilters, "filter", "f", nil, "column filter as key=value (repeatable)")
	queryCmd.Flags().IntVar(&queryPage, "page", 0, "page number (default 1)")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "page size (default 10)")
	queryCmd.Flags().BoolVar(&queryPaginate, "paginate", false, "slice the result into pages")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the raw query result as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	filters, err := parseFilters(queryFilters)
	if err != nil {
		return err
	}

	src, seed, err := resolveSource(cfg, args[0])
	if err != nil {
		return err
	}

	engine, _, cleanup, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	params := buildParams(cmd, filters, seed)

	result, err := engine.Query(cmd.Context(), src, params)
	if err != nil {
		return err
	}

	if queryJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Print(renderResult(result, params.Normalize()))
	return nil
}

// buildParams overlays explicitly set flags onto the source binding's
// defaults.
func buildParams(cmd *cobra.Command, filters map[string]string, seed query.Params) query.Params {
	params := seed
	params.Filters = filters
	if cmd.Flags().Changed("page") {
		params.Page = queryPage
	}
	if cmd.Flags().Changed("limit") {
		params.Limit = queryLimit
	}
	if cmd.Flags().Changed("paginate") {
		params.Paginate = queryPaginate
	}
	return params
}

// parseFilters converts key=value pairs into a filter map.
func parseFilters(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	filters := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q: expected key=value", pair)
		}
		filters[key] = value
	}
	return filters, nil
}
