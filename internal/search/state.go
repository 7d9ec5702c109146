package search

import "github.com/perktap/perktap/internal/model"

// Mode selects which search panel is displayed.
type Mode string

const (
	ModeText Mode = "text"
	ModeMap  Mode = "map"
)

// State is the single authoritative view of what search is in flight and
// what was last shown. Loading and a non-empty Err are mutually
// exclusive; every transition preserves that.
type State struct {
	Mode       Mode
	Criteria   model.SearchCriteria
	Results    []model.Business
	TotalCount int
	Loading    bool
	Err        string // empty means no error
}

func NewState() State {
	return State{
		Mode: ModeText,
		Criteria: model.SearchCriteria{
			SortBy:   model.SortDistance,
			Page:     1,
			PageSize: model.DefaultPageSize,
		},
	}
}

// Action is a state transition request. Callers always pass complete
// values; transitions never merge partial criteria.
type Action interface{ isAction() }

// SetMode replaces the displayed panel. Existing results stay visible
// until a new search completes, so switching modes does not flicker.
type SetMode struct{ Mode Mode }

// SetCriteria replaces the accumulated structured criteria wholesale.
type SetCriteria struct{ Criteria model.SearchCriteria }

// SetResults stores a completed page and always clears loading.
type SetResults struct {
	Results    []model.Business
	TotalCount int
}

// SetLoading toggles the in-flight flag; arming it starts a new attempt,
// which clears any previous error.
type SetLoading struct{ Loading bool }

// SetError surfaces a user-facing message (empty clears it) and implies
// loading=false.
type SetError struct{ Message string }

// Reset returns to the initial empty state.
type Reset struct{}

func (SetMode) isAction()     {}
func (SetCriteria) isAction() {}
func (SetResults) isAction()  {}
func (SetLoading) isAction()  {}
func (SetError) isAction()    {}
func (Reset) isAction()       {}

// Apply is the pure reducer: (state, action) -> state.
func Apply(s State, a Action) State {
	switch a := a.(type) {
	case SetMode:
		s.Mode = a.Mode
	case SetCriteria:
		s.Criteria = a.Criteria
	case SetResults:
		s.Results = a.Results
		s.TotalCount = a.TotalCount
		s.Loading = false
		s.Err = ""
	case SetLoading:
		s.Loading = a.Loading
		if a.Loading {
			s.Err = ""
		}
	case SetError:
		s.Err = a.Message
		s.Loading = false
	case Reset:
		s = NewState()
	}
	return s
}
