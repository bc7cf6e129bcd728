package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/spektr-org/ratelens/engine"
	"github.com/spektr-org/ratelens/fallback"
	"github.com/spektr-org/ratelens/intent"
)

var (
	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
	inputStyle = lipgloss.NewStyle().
			Margin(1, 0, 1, 0)
	tableStyle = lipgloss.NewStyle().
			Margin(0, 0, 1, 0)
	questionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)
	answerStyle = lipgloss.NewStyle().
			Margin(0, 0, 1, 2)
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// historyLimit bounds how many exchanges stay on screen.
const historyLimit = 4

var (
	enterKey = key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("⏎", "ask"),
	)
	toggleFocus = key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "toggle focus"),
	)
	quitKey = key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	)
)

type exchange struct {
	id       int
	question string
	answer   string
}

// fallbackMsg carries a delegated reply back into Update.
type fallbackMsg struct {
	id   int
	text string
	err  error
}

type model struct {
	textInput textinput.Model
	table     table.Model
	ds        *engine.Dataset
	router    *intent.Router
	responder fallback.Responder
	history   []exchange
	asked     int
	err       error
}

func newModel(ds *engine.Dataset, router *intent.Router, responder fallback.Responder) model {
	ti := textinput.New()
	ti.Placeholder = "Ask about rates, e.g. which supplier has the lowest prices?"
	ti.Focus()
	ti.Width = 70

	t := table.New(
		table.WithColumns([]table.Column{{Title: "Label", Width: 24}, {Title: "Value", Width: 12}}),
		table.WithRows([]table.Row{}),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(styles)

	return model{
		textInput: ti,
		table:     t,
		ds:        ds,
		router:    router,
		responder: responder,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, quitKey):
			return m, tea.Quit
		case key.Matches(msg, enterKey) && m.textInput.Focused():
			question := strings.TrimSpace(m.textInput.Value())
			if question == "" {
				return m, nil
			}
			m.textInput.Reset()
			return m.ask(question)
		case key.Matches(msg, toggleFocus):
			if m.textInput.Focused() {
				m.textInput.Blur()
				m.table.Focus()
			} else {
				m.table.Blur()
				m.textInput.Focus()
			}
			return m, nil
		}

		if m.textInput.Focused() {
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case fallbackMsg:
		for i := range m.history {
			if m.history[i].id != msg.id {
				continue
			}
			if msg.err != nil {
				m.err = msg.err
				m.history[i].answer = fallback.Canned
			} else {
				m.history[i].answer = msg.text
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width - 4)
		if h := msg.Height - 20; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil
	}

	return m, nil
}

// ask routes a question. Unrecognized questions are delegated off the
// update loop so a slow model never freezes input.
func (m model) ask(question string) (tea.Model, tea.Cmd) {
	m.err = nil
	a := m.router.Answer(m.ds, question)

	switch a.Kind {
	case intent.KindChart:
		m.pushHistory(exchange{question: question, answer: a.Text})
		chart, err := engine.BuildChart(m.ds, *a.Chart)
		if err != nil {
			m.err = err
			m.setChart(nil)
			return m, nil
		}
		m.setChart(chart)
		return m, nil
	case intent.KindAnswered:
		m.pushHistory(exchange{question: question, answer: a.Text})
		return m, nil
	}

	if m.responder == nil {
		m.pushHistory(exchange{question: question, answer: fallback.Canned})
		return m, nil
	}
	id := m.pushHistory(exchange{question: question, answer: "…thinking"})
	responder, sum := m.responder, m.ds.Summary()
	return m, func() tea.Msg {
		text, err := responder.Respond(context.Background(), question, &sum)
		return fallbackMsg{id: id, text: text, err: err}
	}
}

func (m *model) pushHistory(e exchange) int {
	m.asked++
	e.id = m.asked
	m.history = append(m.history, e)
	if len(m.history) > historyLimit {
		m.history = m.history[len(m.history)-historyLimit:]
	}
	return e.id
}

// setChart shows a chart's series as table rows.
func (m *model) setChart(chart *engine.ChartConfig) {
	cols, rows := chartTable(chart)
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
}

// chartTable lays out a chart as one row per label and one column per series.
func chartTable(chart *engine.ChartConfig) ([]table.Column, []table.Row) {
	if chart == nil || len(chart.Series) == 0 {
		return []table.Column{{Title: "Label", Width: 24}, {Title: "Value", Width: 12}}, nil
	}

	label := chart.XAxis
	if label == "" {
		label = "Label"
	}
	cols := []table.Column{{Title: label, Width: 28}}
	for _, s := range chart.Series {
		cols = append(cols, table.Column{Title: s.Name, Width: max(12, len(s.Name)+2)})
	}

	labels := chart.Labels()
	rows := make([]table.Row, 0, len(labels))
	for _, l := range labels {
		row := table.Row{l}
		for _, s := range chart.Series {
			if v, ok := s.Value(l); ok {
				row = append(row, engine.FormatAmount(v))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return cols, rows
}

func (m model) View() string {
	var b strings.Builder

	sum := m.ds.Summary()
	fmt.Fprintf(&b, "%s · %d quotes · %d suppliers · %d categories\n",
		m.ds.Source, sum.TotalRecords, sum.UniqueSuppliers, sum.UniqueCategories)

	b.WriteString(inputStyle.Render(m.textInput.View()))
	b.WriteString("\n")

	for _, e := range m.history {
		b.WriteString(questionStyle.Render("› " + e.question))
		b.WriteString("\n")
		b.WriteString(answerStyle.Render(strings.TrimSpace(e.answer)))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}
	if len(m.table.Rows()) > 0 {
		b.WriteString(tableStyle.Render(m.table.View()))
	}

	b.WriteString("\nEnter to ask, Tab to move between question and chart table, Esc to quit.\n")

	return baseStyle.Render(b.String())
}
