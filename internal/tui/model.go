// Package tui implements the interactive dataset browser.
package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Genty83/SimplifyTable/pkg/pageplan"
	"github.com/Genty83/SimplifyTable/pkg/query"
	"github.com/Genty83/SimplifyTable/pkg/source"
	"github.com/Genty83/SimplifyTable/pkg/tabular"
)

// Config holds the browser's collaborators.
type Config struct {
	// Engine answers queries. Required.
	Engine *query.Engine

	// Source is the dataset to browse.
	Source source.Source

	// Title is the display name shown in the header. Defaults to the
	// source key.
	Title string

	// Limit is the rows per page. Defaults to 15.
	Limit int
}

// queryResultMsg carries an asynchronous query answer into Update.
type queryResultMsg struct {
	result   *query.Result
	err      error
	duration time.Duration
}

// Model is the bubbletea model for the dataset browser.
type Model struct {
	engine *query.Engine
	src    source.Source
	title  string

	table       table.Model
	filterInput textinput.Model
	spinner     spinner.Model
	help        help.Model
	keys        keyMap

	page     int
	limit    int
	filters  map[string]string
	result   *query.Result
	err      error
	loading  bool
	editing  bool
	showHelp bool
	lastLoad time.Duration

	width  int
	height int
}

// NewModel creates the browser model. The first query runs on Init.
func NewModel(cfg Config) Model {
	if cfg.Limit <= 0 {
		cfg.Limit = 15
	}
	if cfg.Title == "" {
		cfg.Title = cfg.Source.Key()
	}

	ti := textinput.New()
	ti.Placeholder = "role=admin name=ada"
	ti.Prompt = "filter> "
	ti.PromptStyle = filterPromptStyle
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	t := table.New(
		table.WithColumns([]table.Column{}),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(mutedColor).
		BorderBottom(true).
		Bold(true).
		Foreground(accentColor)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("57"))
	t.SetStyles(ts)

	return Model{
		engine:      cfg.Engine,
		src:         cfg.Source,
		title:       cfg.Title,
		table:       t,
		filterInput: ti,
		spinner:     sp,
		help:        help.New(),
		keys:        keys,
		page:        1,
		limit:       cfg.Limit,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runQuery())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(5, m.height-8))
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateFilterEditor(msg)
		}
		return m.updateBrowsing(msg)

	case queryResultMsg:
		m.loading = false
		m.err = msg.err
		m.lastLoad = msg.duration
		if msg.err == nil {
			m.result = msg.result
			m.fillTable()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Filter):
		m.editing = true
		m.filterInput.SetValue(filterString(m.filters))
		m.filterInput.CursorEnd()
		return m, m.filterInput.Focus()

	case key.Matches(msg, m.keys.Refresh):
		return m.reload()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		if m.page < m.totalPages() {
			m.page++
			return m.reload()
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		if m.page > 1 {
			m.page--
			return m.reload()
		}
		return m, nil

	case key.Matches(msg, m.keys.FirstPage):
		if m.page != 1 {
			m.page = 1
			return m.reload()
		}
		return m, nil

	case key.Matches(msg, m.keys.LastPage):
		if last := m.totalPages(); last > 0 && m.page != last {
			m.page = last
			return m.reload()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateFilterEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.editing = false
		m.filterInput.Blur()
		m.filters = parseFilterInput(m.filterInput.Value())
		m.page = 1
		return m.reload()

	case tea.KeyEsc:
		m.editing = false
		m.filterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, m.runQuery())
}

// runQuery executes the current query asynchronously.
func (m Model) runQuery() tea.Cmd {
	engine, src := m.engine, m.src
	params := query.Params{
		Filters:  m.filters,
		Page:     m.page,
		Limit:    m.limit,
		Paginate: true,
	}

	return func() tea.Msg {
		start := time.Now()
		result, err := engine.Query(context.Background(), src, params)
		return queryResultMsg{result: result, err: err, duration: time.Since(start)}
	}
}

// fillTable rebuilds the table component from the current result.
func (m *Model) fillTable() {
	columns := make([]table.Column, len(m.result.Columns))
	for i, col := range m.result.Columns {
		columns[i] = table.Column{Title: col, Width: m.columnWidth(col)}
	}

	rows := make([]table.Row, len(m.result.Results))
	for i, rec := range m.result.Results {
		row := make(table.Row, len(m.result.Columns))
		for j, col := range m.result.Columns {
			row[j] = tabular.FormatValue(rec[col])
		}
		rows[i] = row
	}

	m.table.SetRows([]table.Row{})
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *Model) columnWidth(columnName string) int {
	const minWidth, maxWidth = 6, 32

	width := len(columnName) + 2
	for _, rec := range m.result.Results {
		if w := len(tabular.FormatValue(rec[columnName])) + 2; w > width {
			width = w
		}
	}

	return min(max(width, minWidth), maxWidth)
}

func (m Model) totalPages() int {
	if m.result == nil {
		return 0
	}
	return pageplan.PageCount(m.result.TotalResults, m.limit)
}

func (m Model) View() string {
	var sections []string

	sections = append(sections, m.renderHeader())

	if m.editing {
		sections = append(sections, m.filterInput.View())
	}

	switch {
	case m.loading:
		sections = append(sections, m.spinner.View()+" loading...")
	case m.err != nil:
		sections = append(sections, errorStyle.Render(m.err.Error()))
	default:
		sections = append(sections, m.table.View())
		if pager := m.renderPager(); pager != "" {
			sections = append(sections, pager)
		}
	}

	sections = append(sections, m.renderStatusBar())

	if m.showHelp {
		sections = append(sections, m.help.FullHelpView([][]key.Binding{{
			m.keys.NextPage,
			m.keys.PrevPage,
			m.keys.FirstPage,
			m.keys.LastPage,
			m.keys.Filter,
			m.keys.Refresh,
			m.keys.Quit,
		}}))
	}

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := titleStyle.Render(m.title)
	src := sourceStyle.Render(m.src.Key())
	return lipgloss.JoinHorizontal(lipgloss.Left, title, " ", src)
}

// renderPager draws the pagination control strip for the current view.
func (m Model) renderPager() string {
	plan := pageplan.Build(m.page, m.totalPages(), pageplan.DefaultOptions())
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
	return pagerStyle.Render(strings.Join(parts, " "))
}

func (m Model) renderStatusBar() string {
	if m.result == nil {
		return statusBarStyle.Render("…")
	}

	parts := []string{
		fmt.Sprintf("%d results", m.result.TotalResults),
		fmt.Sprintf("page %d/%d", m.page, max(1, m.totalPages())),
	}
	if len(m.filters) > 0 {
		parts = append(parts, "filters: "+filterString(m.filters))
	}
	if m.lastLoad > 0 {
		parts = append(parts, m.lastLoad.Round(time.Millisecond).String())
	}
	parts = append(parts, "? help")

	return statusBarStyle.Render(strings.Join(parts, " · "))
}

// parseFilterInput splits "key=value key2=value2" into a filter map.
// Tokens without an equals sign are ignored.
func parseFilterInput(input string) map[string]string {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil
	}

	filters := make(map[string]string, len(fields))
	for _, field := range fields {
		if key, value, ok := strings.Cut(field, "="); ok && key != "" {
			filters[key] = value
		}
	}
	if len(filters) == 0 {
		return nil
	}
	return filters
}

// filterString renders a filter map back into editable text.
func filterString(filters map[string]string) string {
	if len(filters) == 0 {
		return ""
	}

	parts := make([]string, 0, len(filters))
	for key, value := range filters {
		parts = append(parts, key+"="+value)
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
