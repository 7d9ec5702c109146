package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/perktap/perktap/internal/search"
	"github.com/perktap/perktap/internal/tui/views"
)

type viewID int

const (
	viewHome viewID = iota
	viewTextSearch
	viewMapSearch
	viewHistory
)

// App is the root bubbletea model. The search controller inside deps is
// shared by both search panels, so results and errors survive panel
// switches.
type App struct {
	deps        views.Deps
	currentView viewID
	width       int
	height      int
	home        views.HomeModel
	textSearch  views.TextSearchModel
	mapSearch   views.MapSearchModel
	history     views.HistoryModel
}

func NewApp(deps views.Deps) App {
	return App{
		deps:        deps,
		currentView: viewHome,
		home:        views.NewHomeModel(),
	}
}

func (a App) Init() tea.Cmd {
	return a.home.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
	case views.NavigateToTextSearch:
		a.currentView = viewTextSearch
		a.deps.Controller.SetMode(search.ModeText)
		a.textSearch = views.NewTextSearchModel(a.deps)
		return a, tea.Batch(a.textSearch.Init(), a.sizeCmd())
	case views.NavigateToMapSearch:
		a.currentView = viewMapSearch
		a.deps.Controller.SetMode(search.ModeMap)
		a.mapSearch = views.NewMapSearchModel(a.deps)
		return a, tea.Batch(a.mapSearch.Init(), a.sizeCmd())
	case views.NavigateToHistory:
		a.currentView = viewHistory
		a.history = views.NewHistoryModel(a.deps)
		return a, a.history.Init()
	case views.RerunSearch:
		var cmd tea.Cmd
		entry := msg.Entry
		if entry.Mode == "map" && entry.Criteria.Location.Coordinates != nil {
			a.currentView = viewMapSearch
			a.deps.Controller.SetMode(search.ModeMap)
			a.mapSearch, cmd = views.NewMapSearchModelAt(a.deps, *entry.Criteria.Location.Coordinates, entry.Criteria)
		} else {
			a.currentView = viewTextSearch
			a.deps.Controller.SetMode(search.ModeText)
			a.textSearch, cmd = views.NewTextSearchModelFromCriteria(a.deps, entry.Criteria)
		}
		return a, tea.Batch(cmd, a.sizeCmd())
	case views.NavigateToHome:
		a.currentView = viewHome
		return a, nil
	}

	var cmd tea.Cmd
	switch a.currentView {
	case viewHome:
		var m tea.Model
		m, cmd = a.home.Update(msg)
		a.home = m.(views.HomeModel)
	case viewTextSearch:
		var m tea.Model
		m, cmd = a.textSearch.Update(msg)
		a.textSearch = m.(views.TextSearchModel)
	case viewMapSearch:
		var m tea.Model
		m, cmd = a.mapSearch.Update(msg)
		a.mapSearch = m.(views.MapSearchModel)
	case viewHistory:
		var m tea.Model
		m, cmd = a.history.Update(msg)
		a.history = m.(views.HistoryModel)
	}

	return a, cmd
}

func (a App) View() string {
	var content string
	switch a.currentView {
	case viewHome:
		content = a.home.View()
	case viewTextSearch:
		content = a.textSearch.View()
	case viewMapSearch:
		content = a.mapSearch.View()
	case viewHistory:
		content = a.history.View()
	}

	return lipgloss.Place(
		a.width, a.height,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// sizeCmd sends a WindowSizeMsg so newly created views get the current terminal size.
func (a App) sizeCmd() tea.Cmd {
	w, h := a.width, a.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}

// Run starts the TUI.
func Run(deps views.Deps) error {
	p := tea.NewProgram(NewApp(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
