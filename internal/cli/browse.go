package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Genty83/SimplifyTable/internal/tui"
)

var browseLimit int

var browseCmd = &cobra.Command{
	Use:   "browse <source>",
	Short: "Browse a dataset interactively",
	Long: `Opens a terminal browser on a dataset.

Controls:
  ←/→, h/l  - Previous / next page
  g/G       - First / last page
  /         - Edit filters (key=value, space separated)
  r         - Refresh from the source
  ?         - Toggle help
  q         - Quit`,
	Example: `  simplifytable browse users
  simplifytable browse https://api.example.com/orders.csv --limit 25`,
	Args: cobra.ExactArgs(1),
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().IntVar(&browseLimit, "limit", 15, "rows per page")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
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

	limit := browseLimit
	if !cmd.Flags().Changed("limit") && seed.Limit > 0 {
		limit = seed.Limit
	}

	model := tui.NewModel(tui.Config{
		Engine: engine,
		Source: src,
		Title:  args[0],
		Limit:  limit,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser error: %w", err)
	}

	return nil
}
