package components

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/perktap/perktap/internal/model"
	"github.com/perktap/perktap/internal/search"
	"github.com/perktap/perktap/internal/tui/styles"
)

// Pane is which of the four mutually exclusive result states gets drawn.
type Pane int

const (
	PaneIdle Pane = iota
	PaneLoading
	PaneError
	PaneEmpty
	PaneList
)

// SelectPane decides what the results area shows. The empty state only
// appears for a finished, error-free search with zero hits; before the
// first search the pane stays idle.
func SelectPane(st search.State, searched bool) Pane {
	switch {
	case st.Loading:
		return PaneLoading
	case st.Err != "":
		return PaneError
	case !searched:
		return PaneIdle
	case len(st.Results) == 0:
		return PaneEmpty
	default:
		return PaneList
	}
}

// FormatDistance renders a distance to one decimal, or nothing when the
// search had no spatial component.
func FormatDistance(miles *float64) string {
	if miles == nil {
		return ""
	}
	return fmt.Sprintf("%.1f mi", *miles)
}

// CountLabel pluralizes the result count line.
func CountLabel(total int) string {
	if total == 1 {
		return "1 business found"
	}
	return fmt.Sprintf("%d businesses found", total)
}

// Pluralize appends "s" for counts other than one.
func Pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// Normalize removes accents/diacritics and lowercases text for fuzzy
// matching.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	result, _, _ := transform.String(t, strings.ToLower(s))
	return result
}

// Filter narrows a result page locally. Every whitespace-separated word
// must match somewhere in the business name, sector or address.
func Filter(businesses []model.Business, query string) []model.Business {
	raw := strings.TrimSpace(query)
	if raw == "" {
		return businesses
	}
	words := strings.Fields(Normalize(raw))

	var out []model.Business
	for _, b := range businesses {
		haystack := Normalize(strings.Join([]string{
			b.Name, b.Sector, b.Location.FormattedAddress, b.Location.City,
		}, " "))
		match := true
		for _, w := range words {
			if !strings.Contains(haystack, w) {
				match = false
				break
			}
		}
		if match {
			out = append(out, b)
		}
	}
	return out
}

// ResultsModel renders the shared search state below either search form.
// Both panels embed one; the state itself lives in the controller.
type ResultsModel struct {
	spinner  spinner.Model
	filter   textinput.Model
	cursor   int
	filterOn bool
	height   int
}

func NewResultsModel() ResultsModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	filter := textinput.New()
	filter.Placeholder = "filter results..."
	filter.CharLimit = 50
	filter.Width = 30

	return ResultsModel{spinner: sp, filter: filter, height: 8}
}

func (m ResultsModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// FilterFocused reports whether keystrokes currently belong to the
// local filter input rather than the surrounding form.
func (m ResultsModel) FilterFocused() bool {
	return m.filterOn
}

func (m *ResultsModel) SetHeight(h int) {
	if h < 4 {
		h = 4
	}
	m.height = h
}

func (m ResultsModel) Update(msg tea.Msg, st search.State) (ResultsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.filterOn {
			switch msg.String() {
			case "esc", "enter":
				m.filterOn = false
				m.filter.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.cursor = 0
			return m, cmd
		}

		visible := Filter(st.Results, m.filter.Value())
		switch msg.String() {
		case "/":
			m.filterOn = true
			m.filter.Focus()
			return m, textinput.Blink
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(visible)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m ResultsModel) View(st search.State, searched bool) string {
	var b strings.Builder

	switch SelectPane(st, searched) {
	case PaneIdle:
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).
			Render("Enter criteria and press enter to search"))

	case PaneLoading:
		b.WriteString(m.spinner.View())
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Render(" Searching..."))

	case PaneError:
		b.WriteString(styles.ErrorText.Render(st.Err))

	case PaneEmpty:
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).
			Render("No results found. Try adjusting your search."))

	case PaneList:
		visible := Filter(st.Results, m.filter.Value())

		b.WriteString(styles.Subtitle.Render(CountLabel(st.TotalCount)))
		if len(visible) != len(st.Results) {
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).
				Render(fmt.Sprintf(" (showing %d)", len(visible))))
		}
		b.WriteString("\n")

		if m.filterOn || m.filter.Value() != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Render("Filter: "))
			b.WriteString(m.filter.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")

		cursor := m.cursor
		if cursor >= len(visible) {
			cursor = len(visible) - 1
		}

		start, end := window(cursor, len(visible), m.height)
		for i := start; i < end; i++ {
			b.WriteString(m.renderRow(visible[i], i == cursor))
		}
		if end < len(visible) {
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).
				Render(fmt.Sprintf("  ... %d more\n", len(visible)-end)))
		}
	}

	return b.String()
}

// window keeps the cursor visible inside a fixed-height viewport.
func window(cursor, total, height int) (start, end int) {
	if total <= height {
		return 0, total
	}
	start = cursor - height/2
	if start < 0 {
		start = 0
	}
	end = start + height
	if end > total {
		end = total
		start = end - height
	}
	return start, end
}

func (m ResultsModel) renderRow(biz model.Business, selected bool) string {
	cursor := "  "
	nameStyle := lipgloss.NewStyle().Foreground(styles.Text).Bold(true)
	if selected {
		cursor = "> "
		nameStyle = nameStyle.Foreground(styles.Primary)
	}

	line := cursor + nameStyle.Render(biz.Name)
	if biz.Sector != "" {
		line += lipgloss.NewStyle().Foreground(styles.Muted).Render("  " + biz.Sector)
	}
	if d := FormatDistance(biz.DistanceFromSearch); d != "" {
		line += lipgloss.NewStyle().Foreground(styles.Secondary).Render("  " + d)
	}

	var tags []string
	if n := biz.ActiveRewardCount(); n > 0 {
		tags = append(tags, styles.RewardTag.Render(Pluralize(n, "reward")))
	}
	if n := biz.ActiveCampaignCount(); n > 0 {
		tags = append(tags, styles.CampaignTag.Render(Pluralize(n, "campaign")))
	}
	if len(tags) > 0 {
		line += "  " + strings.Join(tags, " ")
	}

	detail := ""
	if biz.Location.FormattedAddress != "" {
		detail = lipgloss.NewStyle().Foreground(styles.Muted).
			Render("    " + biz.Location.FormattedAddress)
	}

	if detail != "" {
		return line + "\n" + detail + "\n"
	}
	return line + "\n"
}
