package views

import (
	"github.com/phuslu/log"

	"github.com/perktap/perktap/internal/autocomplete"
	"github.com/perktap/perktap/internal/gateway"
	"github.com/perktap/perktap/internal/history"
	"github.com/perktap/perktap/internal/location"
	"github.com/perktap/perktap/internal/search"
)

// Deps holds the long-lived collaborators shared by every view. Wired
// once in main and threaded through explicitly.
type Deps struct {
	Client     *gateway.Client
	Controller *search.Controller
	Engine     *autocomplete.Engine
	Location   location.Provider
	History    *history.Store
	Log        *log.Logger
}

// Navigation messages. Views emit these; the app routes them.
type NavigateToHome struct{}
type NavigateToTextSearch struct{}
type NavigateToMapSearch struct{}
type NavigateToHistory struct{}

// RerunSearch asks the app to replay a past search in its original panel.
type RerunSearch struct {
	Entry history.Entry
}
