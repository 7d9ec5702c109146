package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/perktap/perktap/internal/autocomplete"
	"github.com/perktap/perktap/internal/gateway"
	"github.com/perktap/perktap/internal/model"
	"github.com/perktap/perktap/internal/search"
	"github.com/perktap/perktap/internal/tui/components"
	"github.com/perktap/perktap/internal/tui/styles"
)

// Field indices. fieldRewards/fieldCampaigns are virtual toggles and
// fieldResults hands key focus to the results pane.
const (
	fieldBusinessName = iota
	fieldSector
	fieldCountry
	fieldRegion
	fieldCity
	fieldStreet
	fieldPostcode
	fieldDistance
	fieldRewards
	fieldCampaigns
	fieldResults
	fieldCount
)

// autocompleteFields maps form fields to their suggestion field type.
// Postcode and distance are free-typed.
var autocompleteFields = map[int]model.FieldType{
	fieldBusinessName: model.FieldBusinessName,
	fieldSector:       model.FieldSector,
	fieldCountry:      model.FieldCountry,
	fieldRegion:       model.FieldRegion,
	fieldCity:         model.FieldCity,
	fieldStreet:       model.FieldStreet,
}

type TextSearchModel struct {
	deps      Deps
	inputs    []textinput.Model
	rewards   bool
	campaigns bool
	focused   int
	suggIdx   int
	results   components.ResultsModel
	searched  bool
	formErr   string
}

type debounceFiredMsg struct {
	field model.FieldType
	gen   uint64
}

type suggestionsMsg struct {
	field       model.FieldType
	gen         uint64
	suggestions []model.AutocompleteSuggestion
	err         error
}

type blurGraceMsg struct {
	field model.FieldType
	value string
}

type submissionDoneMsg struct {
	field   model.FieldType
	receipt *gateway.SubmissionReceipt
	err     error
}

type textSearchDoneMsg struct {
	token    uint64
	criteria model.SearchCriteria
	res      *model.SearchResult
	err      error
}

func NewTextSearchModel(deps Deps) TextSearchModel {
	inputs := make([]textinput.Model, fieldCount)
	inputs[fieldBusinessName] = newInput("e.g. Corner Bakery", 40)
	inputs[fieldSector] = newInput("e.g. Bakery, Fitness", 30)
	inputs[fieldCountry] = newInput("country", 30)
	inputs[fieldRegion] = newInput("region or state", 30)
	inputs[fieldCity] = newInput("city or town", 30)
	inputs[fieldStreet] = newInput("street", 30)
	inputs[fieldPostcode] = newInput("postcode", 15)
	inputs[fieldDistance] = newInput("miles, e.g. 5", 10)

	inputs[fieldBusinessName].Focus()

	return TextSearchModel{
		deps:    deps,
		inputs:  inputs,
		focused: fieldBusinessName,
		suggIdx: -1,
		results: components.NewResultsModel(),
	}
}

// NewTextSearchModelFromCriteria prefills the form from a stored criteria
// snapshot and immediately dispatches the search. Used by history rerun.
func NewTextSearchModelFromCriteria(deps Deps, c model.SearchCriteria) (TextSearchModel, tea.Cmd) {
	m := NewTextSearchModel(deps)

	set := func(idx int, v *string) {
		if v != nil {
			m.inputs[idx].SetValue(*v)
		}
	}
	set(fieldBusinessName, c.BusinessName)
	set(fieldSector, c.Sector)
	set(fieldCountry, c.Location.Country)
	set(fieldRegion, c.Location.Region)
	set(fieldCity, c.Location.City)
	set(fieldStreet, c.Location.Street)
	set(fieldPostcode, c.Location.Postcode)
	if c.Distance != nil {
		m.inputs[fieldDistance].SetValue(strconv.FormatFloat(*c.Distance, 'f', -1, 64))
	}
	m.rewards = c.RewardsOnly
	m.campaigns = c.CampaignsOnly

	cmd := tea.Batch(m.Init(), m.submit())
	return m, cmd
}

func newInput(placeholder string, width int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 100
	ti.Width = width
	return ti
}

func (m TextSearchModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.results.Init())
}

func (m TextSearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	st := m.deps.Controller.State()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.results.SetHeight(msg.Height/2 - 4)
		return m, nil

	case debounceFiredMsg:
		query, ok := m.deps.Engine.Fire(msg.field, msg.gen)
		if !ok {
			return m, nil
		}
		return m, fetchSuggestions(m.deps, msg.field, msg.gen, query)

	case suggestionsMsg:
		if m.deps.Engine.Deliver(msg.field, msg.gen, msg.suggestions, msg.err) {
			// Nothing is highlighted until the user arrows into the
			// list, so enter keeps submitting the typed search.
			if ft, ok := autocompleteFields[m.focused]; ok && ft == msg.field {
				m.suggIdx = -1
			}
		}
		return m, nil

	case blurGraceMsg:
		entry := m.deps.Engine.Reconcile(msg.field, msg.value, "textSearch")
		if entry == nil {
			return m, nil
		}
		return m, submitEntry(m.deps, *entry)

	case submissionDoneMsg:
		// Moderation submissions fail silently; the search flow is
		// never interrupted for them.
		if msg.err != nil {
			m.deps.Log.Warn().Err(msg.err).Str("field", string(msg.field)).
				Msg("user submission failed")
		}
		return m, nil

	case textSearchDoneMsg:
		applied := m.deps.Controller.Complete(msg.token, msg.res, msg.err, search.TextFailureMessage)
		if applied {
			m.searched = true
			if msg.err == nil && m.deps.History != nil {
				if err := m.deps.History.Record("text", search.Summary(msg.criteria), msg.criteria, msg.res.TotalCount); err != nil {
					m.deps.Log.Warn().Err(err).Msg("recording search history")
				}
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.focused == fieldResults || m.results.FilterFocused() {
			return m.updateResultsFocus(msg, st)
		}
		return m.updateFormFocus(msg)
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg, st)

	// Blink and other component messages still belong to the focused input.
	var inputCmd tea.Cmd
	if m.isTextField(m.focused) {
		m.inputs[m.focused], inputCmd = m.inputs[m.focused].Update(msg)
	}
	return m, tea.Batch(cmd, inputCmd)
}

func (m TextSearchModel) updateResultsFocus(msg tea.KeyMsg, st search.State) (tea.Model, tea.Cmd) {
	if !m.results.FilterFocused() {
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return NavigateToHome{} }
		case "tab":
			m.focused = fieldBusinessName
			return m, m.focusInput()
		case "shift+tab":
			m.focused = fieldCampaigns
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg, st)
	return m, cmd
}

func (m TextSearchModel) updateFormFocus(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ft, hasAC := autocompleteFields[m.focused]
	suggs := []model.AutocompleteSuggestion(nil)
	if hasAC {
		suggs = m.deps.Engine.Snapshot(ft).Suggestions
	}

	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return NavigateToHome{} }

	case "up":
		if len(suggs) > 0 && m.suggIdx > 0 {
			m.suggIdx--
			return m, nil
		}
		m.formErr = ""
		return m, m.focusPrev()

	case "down":
		if len(suggs) > 0 && m.suggIdx < len(suggs)-1 {
			m.suggIdx++
			return m, nil
		}
		m.formErr = ""
		return m, m.focusNext()

	case "tab":
		m.formErr = ""
		if len(suggs) > 0 && m.suggIdx >= 0 {
			m.selectSuggestion(suggs)
		}
		return m, m.focusNext()

	case "shift+tab":
		m.formErr = ""
		return m, m.focusPrev()

	case "enter":
		if len(suggs) > 0 && m.suggIdx >= 0 {
			m.selectSuggestion(suggs)
			return m, m.focusNext()
		}
		return m, m.submit()

	case " ":
		if m.focused == fieldRewards {
			m.rewards = !m.rewards
			return m, nil
		}
		if m.focused == fieldCampaigns {
			m.campaigns = !m.campaigns
			return m, nil
		}
	}

	// Route the keystroke into the focused input and notice value
	// changes for autocomplete fields.
	var cmd tea.Cmd
	if m.isTextField(m.focused) {
		before := m.inputs[m.focused].Value()
		m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
		after := m.inputs[m.focused].Value()

		if hasAC && before != after {
			gen, ok := m.deps.Engine.Input(ft, after)
			m.suggIdx = -1
			if ok {
				return m, tea.Batch(cmd, armDebounce(ft, gen))
			}
		}
	}
	return m, cmd
}

func (m *TextSearchModel) isTextField(idx int) bool {
	return idx >= fieldBusinessName && idx <= fieldDistance
}

func (m *TextSearchModel) selectSuggestion(suggs []model.AutocompleteSuggestion) {
	if m.suggIdx < 0 || m.suggIdx >= len(suggs) {
		return
	}
	m.inputs[m.focused].SetValue(suggs[m.suggIdx].Value)
	m.suggIdx = -1
}

// focusNext moves to the next field, arming blur reconciliation for the
// field being left when it supports autocomplete.
func (m *TextSearchModel) focusNext() tea.Cmd {
	blurCmd := m.blurCurrent()
	m.focused++
	if m.focused >= fieldCount {
		m.focused = fieldBusinessName
	}
	m.suggIdx = -1
	return tea.Batch(blurCmd, m.focusInput())
}

func (m *TextSearchModel) focusPrev() tea.Cmd {
	blurCmd := m.blurCurrent()
	m.focused--
	if m.focused < 0 {
		m.focused = fieldResults
	}
	m.suggIdx = -1
	return tea.Batch(blurCmd, m.focusInput())
}

func (m *TextSearchModel) blurCurrent() tea.Cmd {
	if !m.isTextField(m.focused) {
		return nil
	}
	m.inputs[m.focused].Blur()

	ft, ok := autocompleteFields[m.focused]
	if !ok {
		return nil
	}
	value := m.inputs[m.focused].Value()
	if strings.TrimSpace(value) == "" {
		return nil
	}
	// The grace delay lets a selection settle before the value is
	// compared against the suggestion list.
	return tea.Tick(autocomplete.BlurGraceDelay, func(time.Time) tea.Msg {
		return blurGraceMsg{field: ft, value: value}
	})
}

func (m *TextSearchModel) focusInput() tea.Cmd {
	if !m.isTextField(m.focused) {
		return nil
	}
	m.inputs[m.focused].Focus()
	return textinput.Blink
}

func (m *TextSearchModel) submit() tea.Cmd {
	in := search.CriteriaInput{
		BusinessName:  m.inputs[fieldBusinessName].Value(),
		Sector:        m.inputs[fieldSector].Value(),
		Country:       m.inputs[fieldCountry].Value(),
		Region:        m.inputs[fieldRegion].Value(),
		City:          m.inputs[fieldCity].Value(),
		Street:        m.inputs[fieldStreet].Value(),
		Postcode:      m.inputs[fieldPostcode].Value(),
		Distance:      m.inputs[fieldDistance].Value(),
		RewardsOnly:   m.rewards,
		CampaignsOnly: m.campaigns,
	}
	criteria := search.BuildCriteria(in)

	if criteria.BusinessName == nil && criteria.Sector == nil &&
		criteria.Location.IsZero() && !criteria.RewardsOnly && !criteria.CampaignsOnly {
		m.formErr = "Enter at least one search criterion"
		return nil
	}
	m.formErr = ""

	token := m.deps.Controller.Begin(criteria)
	deps := m.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		res, err := deps.Client.SearchText(ctx, criteria)
		return textSearchDoneMsg{token: token, criteria: criteria, res: res, err: err}
	}
}

func armDebounce(ft model.FieldType, gen uint64) tea.Cmd {
	return tea.Tick(autocomplete.DebounceInterval, func(time.Time) tea.Msg {
		return debounceFiredMsg{field: ft, gen: gen}
	})
}

func fetchSuggestions(deps Deps, ft model.FieldType, gen uint64, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		suggs, err := deps.Client.Suggestions(ctx, ft, query)
		return suggestionsMsg{field: ft, gen: gen, suggestions: suggs, err: err}
	}
}

func submitEntry(deps Deps, entry model.UserSubmittedEntry) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		receipt, err := deps.Client.SubmitEntry(ctx, entry)
		return submissionDoneMsg{field: entry.FieldType, receipt: receipt, err: err}
	}
}

var fieldLabels = map[int]string{
	fieldBusinessName: "Name:",
	fieldSector:       "Sector:",
	fieldCountry:      "Country:",
	fieldRegion:       "Region:",
	fieldCity:         "City:",
	fieldStreet:       "Street:",
	fieldPostcode:     "Postcode:",
	fieldDistance:     "Distance:",
}

func (m TextSearchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Search") + "\n\n")

	for idx := fieldBusinessName; idx <= fieldDistance; idx++ {
		b.WriteString(m.renderField(fieldLabels[idx], idx))
		if ft, ok := autocompleteFields[idx]; ok && m.focused == idx {
			b.WriteString(m.renderSuggestions(ft))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderToggle("Rewards only", m.rewards, fieldRewards))
	b.WriteString(m.renderToggle("Campaigns only", m.campaigns, fieldCampaigns))

	if m.formErr != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorText.Render("  " + m.formErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.results.View(m.deps.Controller.State(), m.searched))

	b.WriteString("\n")
	var status string
	if m.focused == fieldResults {
		status = "↑↓ scroll • / filter • tab form • esc back"
	} else {
		status = "enter search • tab next • ↑↓ suggestions • esc back"
	}
	b.WriteString(styles.StatusBar.Render(status))

	return styles.Border.Render(b.String())
}

func (m TextSearchModel) renderField(label string, idx int) string {
	l := styles.Label.Render(label)
	return fmt.Sprintf("%s %s\n", l, m.inputs[idx].View())
}

func (m TextSearchModel) renderToggle(label string, on bool, idx int) string {
	box := "[ ]"
	if on {
		box = "[x]"
	}
	style := styles.InactiveItem
	if m.focused == idx {
		style = styles.ActiveItem
	}
	return fmt.Sprintf("%s %s\n", styles.Label.Render(""), style.Render(box+" "+label+"  (space toggles)"))
}

func (m TextSearchModel) renderSuggestions(ft model.FieldType) string {
	snap := m.deps.Engine.Snapshot(ft)

	if snap.Loading {
		return styles.Label.Render("") + " " +
			lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).Render("loading suggestions...") + "\n"
	}
	if snap.Failed {
		return styles.Label.Render("") + " " +
			lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).Render("suggestions unavailable") + "\n"
	}
	if len(snap.Suggestions) == 0 {
		return ""
	}

	active := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	inactive := lipgloss.NewStyle().Foreground(styles.Muted)

	var sb strings.Builder
	for i, s := range snap.Suggestions {
		label := s.Label
		if extra := suggestionDetail(ft, s); extra != "" {
			label += "  " + extra
		}
		line := "    " + label
		if i == m.suggIdx {
			line = active.Render("  > " + label)
		} else {
			line = inactive.Render(line)
		}
		sb.WriteString(line)
		if s.Type == model.SuggestionUserSubmitted {
			sb.WriteString(" " + styles.PendingBadge.Render("(pending review)"))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// suggestionDetail renders the typed metadata variant for the field.
func suggestionDetail(ft model.FieldType, s model.AutocompleteSuggestion) string {
	switch ft {
	case model.FieldSector:
		meta, err := s.SectorMetadata()
		if err != nil || meta == nil {
			return ""
		}
		if meta.BusinessCount == 1 {
			return "(1 business)"
		}
		return fmt.Sprintf("(%d businesses)", meta.BusinessCount)
	case model.FieldBusinessName:
		meta, err := s.BusinessNameMetadata()
		if err != nil || meta == nil {
			return ""
		}
		var parts []string
		if meta.Sector != "" {
			parts = append(parts, meta.Sector)
		}
		if meta.City != "" {
			parts = append(parts, meta.City)
		}
		return strings.Join(parts, " · ")
	default:
		meta, err := s.PlaceMetadata()
		if err != nil || meta == nil {
			return ""
		}
		var parts []string
		if meta.Region != "" {
			parts = append(parts, meta.Region)
		}
		if meta.CountryCode != "" {
			parts = append(parts, meta.CountryCode)
		}
		return strings.Join(parts, ", ")
	}
}
