package search

import (
	"github.com/phuslu/log"

	"github.com/perktap/perktap/internal/model"
)

// User-facing failure messages for the two search paths.
const (
	TextFailureMessage = "Search failed. Please try again."
	MapFailureMessage  = "Map search failed. Please try again."
)

// Controller owns the search state machine. Both the text and map panels
// read from it, so results, loading and errors are genuinely shared
// rather than duplicated per panel. Every dispatched search carries a
// monotonically increasing generation token; a completion only lands if
// its token is still the latest, which closes the text-vs-map
// out-of-order window. Not safe for concurrent use; all calls happen on
// the UI event loop.
type Controller struct {
	state State
	gen   uint64
	log   *log.Logger
}

func NewController(logger *log.Logger) *Controller {
	return &Controller{
		state: NewState(),
		log:   logger,
	}
}

// State returns the current state value.
func (c *Controller) State() State {
	return c.state
}

// Dispatch applies one action through the pure reducer.
func (c *Controller) Dispatch(a Action) {
	c.state = Apply(c.state, a)
}

// SetMode switches the displayed panel, keeping stale results visible.
func (c *Controller) SetMode(m Mode) {
	c.Dispatch(SetMode{Mode: m})
}

// Begin arms a new search attempt: stores the criteria snapshot, clears
// any previous error, sets loading, and returns the token the eventual
// completion must present.
func (c *Controller) Begin(criteria model.SearchCriteria) uint64 {
	c.gen++
	c.Dispatch(SetCriteria{Criteria: criteria})
	c.Dispatch(SetLoading{Loading: true})
	return c.gen
}

// Complete applies a search outcome. Outcomes whose token has been
// superseded are dropped — whichever search was dispatched last wins,
// regardless of response arrival order. Returns whether the outcome was
// applied.
func (c *Controller) Complete(token uint64, res *model.SearchResult, err error, failMsg string) bool {
	if token != c.gen {
		c.log.Debug().Uint64("token", token).Uint64("latest", c.gen).
			Msg("discarding superseded search completion")
		return false
	}

	if err != nil {
		c.log.Warn().Err(err).Msg("search failed")
		// Failed searches clear old results; only mode switches keep them.
		c.Dispatch(SetResults{Results: nil, TotalCount: 0})
		c.Dispatch(SetError{Message: failMsg})
		return true
	}

	c.Dispatch(SetResults{Results: res.Results, TotalCount: res.TotalCount})
	return true
}

// Reset drops all search state and invalidates outstanding tokens.
func (c *Controller) Reset() {
	c.gen++
	c.Dispatch(Reset{})
}
