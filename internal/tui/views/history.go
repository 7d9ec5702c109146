package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/perktap/perktap/internal/history"
	"github.com/perktap/perktap/internal/tui/components"
	"github.com/perktap/perktap/internal/tui/styles"
)

type HistoryModel struct {
	deps    Deps
	entries []history.Entry
	cursor  int
	loadErr error
}

type historyLoadedMsg struct {
	entries []history.Entry
	err     error
}

func NewHistoryModel(deps Deps) HistoryModel {
	return HistoryModel{deps: deps}
}

func (m HistoryModel) Init() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		if deps.History == nil {
			return historyLoadedMsg{}
		}
		entries, err := deps.History.Recent(20)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		m.entries = msg.entries
		m.loadErr = msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case "enter":
			if m.cursor < len(m.entries) {
				entry := m.entries[m.cursor]
				return m, func() tea.Msg { return RerunSearch{Entry: entry} }
			}
		case "esc", "q":
			return m, func() tea.Msg { return NavigateToHome{} }
		}
	}
	return m, nil
}

func (m HistoryModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Search History"))
	b.WriteString("\n\n")

	if m.loadErr != nil {
		b.WriteString(styles.ErrorText.Render("Could not load history"))
		b.WriteString("\n\n")
		b.WriteString(styles.StatusBar.Render("esc back"))
		return styles.Border.Render(b.String())
	}

	if len(m.entries) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).
			Render("No searches yet"))
		b.WriteString("\n\n")
		b.WriteString(styles.StatusBar.Render("esc back"))
		return styles.Border.Render(b.String())
	}

	for i, entry := range m.entries {
		cursor := "  "
		style := styles.InactiveItem
		if i == m.cursor {
			cursor = "> "
			style = styles.ActiveItem
		}

		mode := lipgloss.NewStyle().Foreground(styles.Secondary).
			Render(fmt.Sprintf("[%s]", entry.Mode))
		summary := style.Render(entry.Summary)

		detail := lipgloss.NewStyle().Foreground(styles.Muted).Render(
			fmt.Sprintf("  %s  %s", components.CountLabel(entry.ResultCount), timeAgo(entry.SearchedAt)))

		b.WriteString(fmt.Sprintf("%s%s %s\n%s\n", cursor, mode, summary, detail))
	}

	b.WriteString("\n")
	b.WriteString(styles.StatusBar.Render("↑↓ navigate • enter rerun • esc back"))

	return styles.Border.Render(b.String())
}

func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
