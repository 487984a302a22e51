// Package ui renders the interactive watch-mode view.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// TargetStatus is the outcome of one export target in a pass.
type TargetStatus struct {
	Path string
	Err  error
}

// PassEvent summarizes one pipeline pass for the view.
type PassEvent struct {
	// Err is a pipeline-level failure; Targets is empty then.
	Err     error
	Targets []TargetStatus
	// Errors counts error diagnostics of the pass.
	Errors int
	// Hits and Misses are the geometry cache counters.
	Hits   int
	Misses int
}

type watchModel struct {
	title   string
	events  <-chan PassEvent
	spinner spinner.Model
	prog    progress.Model
	last    *PassEvent
	passes  int
	width   int
	done    bool
}

type passMsg PassEvent
type doneMsg struct{}

// NewWatchModel returns a Bubble Tea model that renders watch passes
// until events closes.
func NewWatchModel(title string, events <-chan PassEvent) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	return &watchModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		width:   80,
	}
}

func (m *watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case passMsg:
		ev := PassEvent(msg)
		m.last = &ev
		m.passes++
		return m, tea.Batch(m.prog.SetPercent(successRatio(ev)), m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *watchModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.passes > 0 {
		header = fmt.Sprintf("%s (pass %d)", header, m.passes)
	}
	if m.done {
		header = "stopped: " + header
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	if m.last == nil {
		b.WriteString("  building...\n")
		return b.String()
	}
	ev := *m.last

	if ev.Err != nil {
		b.WriteString(styleStatus("error").Render("  pipeline: " + ev.Err.Error()))
		b.WriteString("\n")
	}
	statusWidth := 10
	nameWidth := m.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}
	for _, target := range ev.Targets {
		status := "written"
		if target.Err != nil {
			status = "error"
		}
		statusStyled := styleStatus(status).Render(fmt.Sprintf("%10s", status))
		b.WriteString(fmt.Sprintf("  %s %s\n", statusStyled, truncate(target.Path, nameWidth)))
	}

	b.WriteString("\n")
	b.WriteString(m.prog.ViewAs(successRatio(ev)))
	b.WriteString("\n")
	summary := fmt.Sprintf("cache %d hit / %d miss", ev.Hits, ev.Misses)
	if ev.Errors > 0 {
		summary = fmt.Sprintf("%s, %d error(s)", summary, ev.Errors)
	}
	b.WriteString(lipgloss.NewStyle().Faint(true).Render("  " + summary))
	b.WriteString("\n")
	return b.String()
}

func (m *watchModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return passMsg(ev)
	}
}

func successRatio(ev PassEvent) float64 {
	if ev.Err != nil || len(ev.Targets) == 0 {
		return 0
	}
	ok := 0
	for _, t := range ev.Targets {
		if t.Err == nil {
			ok++
		}
	}
	return float64(ok) / float64(len(ev.Targets))
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "written":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
