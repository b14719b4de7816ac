package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Genty83/SimplifyTable/pkg/pageplan"
	"github.com/Genty83/SimplifyTable/pkg/query"
	"github.com/Genty83/SimplifyTable/pkg/tabular"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	currentPageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("212")).
				Bold(true)
)

// renderResult formats a query result as a bordered table with a
// summary line, and a pager line when paginated.
func renderResult(result *query.Result, params query.Params) string {
	var b strings.Builder

	if len(result.Results) == 0 {
		b.WriteString(dimStyle.Render("No records."))
		b.WriteString("\n")
	} else {
		b.WriteString(resultTable(result))
		b.WriteString("\n")
	}

	b.WriteString(summaryLine(result, params))
	b.WriteString("\n")

	if params.Paginate {
		if pager := pagerLine(params.Page, params.Limit, result.TotalResults); pager != "" {
			b.WriteString(pager)
			b.WriteString("\n")
		}
	}

	return b.String()
}

func resultTable(result *query.Result) string {
	rows := make([][]string, len(result.Results))
	for i, rec := range result.Results {
		row := make([]string, len(result.Columns))
		for j, col := range result.Columns {
			row[j] = tabular.FormatValue(rec[col])
		}
		rows[i] = row
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(result.Columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	return t.String()
}

func summaryLine(result *query.Result, params query.Params) string {
	if !params.Paginate {
		return dimStyle.Render(fmt.Sprintf("%d results", result.TotalResults))
	}

	totalPages := pageplan.PageCount(result.TotalResults, params.Limit)
	return dimStyle.Render(fmt.Sprintf(
		"showing %d of %d results (page %d of %d)",
		len(result.Results), result.TotalResults, params.Page, totalPages,
	))
}

// pagerLine renders the pagination plan as a plain-text control strip,
// e.g. "first prev 1 ... 4 5 6 ... 10 next last".
func pagerLine(page, limit, totalResults int) string {
	plan := pageplan.Build(page, pageplan.PageCount(totalResults, limit), pageplan.DefaultOptions())
	if len(plan.Tokens) == 0 {
		return ""
	}

	parts := make([]string, len(plan.Tokens))
	for i, tok := range plan.Tokens {
		s := tok.String()
		if tok.Current {
			s = currentPageStyle.Render("[" + s + "]")
		}
		parts[i] = s
	}
	return strings.Join(parts, " ")
}
