// Package application is the interactive terminal preview of a generated table.
package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/gencsv/internal/core"
	data "github.com/JonMunkholm/gencsv/internal/table"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	maxColumnWidth  = 32
	minTableHeight  = 5
	chromeHeight    = 5 // title, status and help lines around the table
	generateTimeout = 30 * time.Second
)

// GenerateFunc produces the table to show. It is called again on every regenerate.
type GenerateFunc func(ctx context.Context) (*data.Table, error)

type generatedMsg struct {
	table   *data.Table
	elapsed time.Duration
}

type errMsg struct{ err error }

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	frameStyle  = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
)

// Model is the bubbletea model for the preview.
type Model struct {
	generate   GenerateFunc
	table      table.Model
	current    *data.Table
	status     string
	err        error
	generating bool
	height     int
}

// New creates a preview model; Init runs the first generation.
func New(generate GenerateFunc) Model {
	t := table.New(table.WithFocused(true), table.WithHeight(minTableHeight+5))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	return Model{generate: generate, table: t, generating: true, status: "generating..."}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.regenerate()
}

func (m Model) regenerate() tea.Cmd {
	generate := m.generate
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()

		start := time.Now()
		t, err := generate(ctx)
		if err != nil {
			return errMsg{err: err}
		}
		return generatedMsg{table: t, elapsed: time.Since(start)}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.table.SetHeight(max(minTableHeight, msg.Height-chromeHeight))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.generating {
				return m, nil
			}
			m.generating = true
			m.status = "generating..."
			return m, m.regenerate()
		}

	case generatedMsg:
		m.generating = false
		m.err = nil
		m.current = msg.table
		m.setTable(msg.table)
		m.status = fmt.Sprintf("%d rows x %d columns in %s",
			msg.table.Height(), msg.table.Width(), msg.elapsed.Round(time.Millisecond))
		return m, nil

	case errMsg:
		m.generating = false
		m.err = msg.err
		m.status = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// setTable replaces the widget contents. Rows are cleared first so the
// widget never renders rows against a narrower column set.
func (m *Model) setTable(t *data.Table) {
	records := t.Records(false)

	columns := make([]table.Column, t.Width())
	for c, name := range t.Names() {
		width := lipgloss.Width(name)
		for _, rec := range records {
			width = max(width, lipgloss.Width(rec[c]))
		}
		columns[c] = table.Column{Title: name, Width: min(width, maxColumnWidth)}
	}

	rows := make([]table.Row, len(records))
	for i, rec := range records {
		rows[i] = table.Row(rec)
	}

	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("gencsv preview"))
	b.WriteString("\n")

	if m.current != nil {
		b.WriteString(frameStyle.Render(m.table.View()))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(core.FormatUserError(m.err)))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ scroll • r regenerate • q quit"))
	return b.String()
}

// Run shows the preview until the user quits or ctx is cancelled.
func Run(ctx context.Context, generate GenerateFunc) error {
	p := tea.NewProgram(New(generate), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}
