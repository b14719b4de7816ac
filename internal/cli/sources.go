package cli

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the sources from the config file",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	if len(cfg.Sources) == 0 {
		cmd.Println("No sources configured.")
		return nil
	}

	rows := make([][]string, len(cfg.Sources))
	for i, src := range cfg.Sources {
		limit := "-"
		if src.Limit > 0 {
			limit = strconv.Itoa(src.Limit)
		}
		rows[i] = []string{src.Name, src.URL, strconv.FormatBool(src.Paginate), limit}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers("NAME", "URL", "PAGINATE", "LIMIT").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	cmd.Println(t.String())
	return nil
}
