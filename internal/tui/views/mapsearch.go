package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/perktap/perktap/internal/geo"
	"github.com/perktap/perktap/internal/model"
	"github.com/perktap/perktap/internal/search"
	"github.com/perktap/perktap/internal/tui/components"
	"github.com/perktap/perktap/internal/tui/styles"
)

type mapPhase int

const (
	phaseRequestingPermission mapPhase = iota
	phasePermissionDenied
	phaseLocating
	phaseLocationFailed
	phaseReady
)

type MapSearchModel struct {
	deps      Deps
	phase     mapPhase
	center    model.Coordinates
	rewards   bool
	campaigns bool
	results   components.ResultsModel
	searched  bool
	locErr    string
}

type permissionMsg struct {
	granted bool
	err     error
}

type locationMsg struct {
	coords *model.Coordinates
	err    error
}

type mapSearchDoneMsg struct {
	token    uint64
	criteria model.SearchCriteria
	res      *model.SearchResult
	err      error
}

func NewMapSearchModel(deps Deps) MapSearchModel {
	return MapSearchModel{
		deps:    deps,
		phase:   phaseRequestingPermission,
		results: components.NewResultsModel(),
	}
}

func (m MapSearchModel) Init() tea.Cmd {
	return tea.Batch(m.results.Init(), requestPermissionCmd(m.deps))
}

// NewMapSearchModelAt skips permission and location resolution for a
// known center and immediately searches that area. Used by history rerun.
func NewMapSearchModelAt(deps Deps, center model.Coordinates, c model.SearchCriteria) (MapSearchModel, tea.Cmd) {
	m := NewMapSearchModel(deps)
	m.center = center
	m.phase = phaseReady
	m.rewards = c.RewardsOnly
	m.campaigns = c.CampaignsOnly

	cmd := tea.Batch(m.results.Init(), m.searchThisArea())
	return m, cmd
}

func requestPermissionCmd(deps Deps) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		granted, err := deps.Location.RequestPermission(ctx)
		return permissionMsg{granted: granted, err: err}
	}
}

func locateCmd(deps Deps) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		coords, err := deps.Location.CurrentLocation(ctx)
		return locationMsg{coords: coords, err: err}
	}
}

func (m MapSearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	st := m.deps.Controller.State()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.results.SetHeight(msg.Height/2 - 2)
		return m, nil

	case permissionMsg:
		if msg.err != nil || !msg.granted {
			m.phase = phasePermissionDenied
			if msg.err != nil {
				m.deps.Log.Warn().Err(msg.err).Msg("location permission request failed")
			}
			return m, nil
		}
		m.phase = phaseLocating
		return m, locateCmd(m.deps)

	case locationMsg:
		if msg.err != nil {
			m.phase = phaseLocationFailed
			m.locErr = "Could not determine your location"
			m.deps.Log.Warn().Err(msg.err).Msg("location lookup failed")
			return m, nil
		}
		m.center = *msg.coords
		m.phase = phaseReady
		return m, nil

	case mapSearchDoneMsg:
		applied := m.deps.Controller.Complete(msg.token, msg.res, msg.err, search.MapFailureMessage)
		if applied {
			m.searched = true
			if msg.err == nil && m.deps.History != nil {
				summary := fmt.Sprintf("area around %.4f, %.4f", m.center.Lat, m.center.Lng)
				if err := m.deps.History.Record("map", summary, msg.criteria, msg.res.TotalCount); err != nil {
					m.deps.Log.Warn().Err(err).Msg("recording search history")
				}
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.results.FilterFocused() {
			var cmd tea.Cmd
			m.results, cmd = m.results.Update(msg, st)
			return m, cmd
		}

		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return NavigateToHome{} }
		case "enter":
			if m.phase == phaseReady {
				return m, m.searchThisArea()
			}
			return m, nil
		case "r":
			switch m.phase {
			case phasePermissionDenied:
				m.phase = phaseRequestingPermission
				return m, requestPermissionCmd(m.deps)
			case phaseLocationFailed:
				m.phase = phaseLocating
				return m, locateCmd(m.deps)
			case phaseReady:
				m.rewards = !m.rewards
				return m, nil
			}
			return m, nil
		case "c":
			if m.phase == phaseReady {
				m.campaigns = !m.campaigns
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg, st)
	return m, cmd
}

// searchThisArea derives bounds from the resolved center and dispatches
// a spatial search through the shared controller.
func (m *MapSearchModel) searchThisArea() tea.Cmd {
	bounds := geo.BoundsAround(m.center)

	center := m.center
	criteria := model.SearchCriteria{
		Location:      model.LocationCriteria{Coordinates: &center},
		RewardsOnly:   m.rewards,
		CampaignsOnly: m.campaigns,
		SortBy:        model.SortDistance,
		Page:          1,
		PageSize:      model.DefaultPageSize,
	}

	token := m.deps.Controller.Begin(criteria)
	deps := m.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		res, err := deps.Client.SearchMap(ctx, bounds, &criteria)
		if err == nil {
			geo.FillDistances(center, res.Results)
		}
		return mapSearchDoneMsg{token: token, criteria: criteria, res: res, err: err}
	}
}

func (m MapSearchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Map Search") + "\n\n")

	muted := lipgloss.NewStyle().Foreground(styles.Muted)

	switch m.phase {
	case phaseRequestingPermission:
		b.WriteString(muted.Render("Requesting location access..."))
		b.WriteString("\n")

	case phasePermissionDenied:
		b.WriteString(styles.ErrorText.Render("Enable location to see map"))
		b.WriteString("\n\n")
		b.WriteString(muted.Render("r retry • esc back"))
		return styles.Border.Render(b.String())

	case phaseLocating:
		b.WriteString(muted.Render("Finding your location..."))
		b.WriteString("\n")

	case phaseLocationFailed:
		b.WriteString(styles.ErrorText.Render(m.locErr))
		b.WriteString("\n\n")
		b.WriteString(muted.Render("r retry • esc back"))
		return styles.Border.Render(b.String())

	case phaseReady:
		loc := fmt.Sprintf("Centered at %.4f, %.4f", m.center.Lat, m.center.Lng)
		b.WriteString(styles.Subtitle.Render(loc))
		b.WriteString("\n")

		bounds := geo.BoundsAround(m.center)
		b.WriteString(muted.Render(fmt.Sprintf("Area: %.4f,%.4f to %.4f,%.4f",
			bounds.Southwest.Lat, bounds.Southwest.Lng,
			bounds.Northeast.Lat, bounds.Northeast.Lng)))
		b.WriteString("\n\n")

		box := func(on bool) string {
			if on {
				return "[x]"
			}
			return "[ ]"
		}
		b.WriteString(muted.Render(fmt.Sprintf("%s rewards only (r)   %s campaigns only (c)",
			box(m.rewards), box(m.campaigns))))
		b.WriteString("\n\n")

		b.WriteString(m.results.View(m.deps.Controller.State(), m.searched))
	}

	b.WriteString("\n")
	b.WriteString(styles.StatusBar.Render("enter search this area • ↑↓ scroll • / filter • esc back"))

	return styles.Border.Render(b.String())
}
