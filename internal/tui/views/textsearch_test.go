package views

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/perktap/perktap/internal/autocomplete"
	"github.com/perktap/perktap/internal/gateway"
	"github.com/perktap/perktap/internal/location"
	"github.com/perktap/perktap/internal/logging"
	"github.com/perktap/perktap/internal/model"
	"github.com/perktap/perktap/internal/search"
)

func testDeps() Deps {
	logger := logging.Discard()
	return Deps{
		Client:     gateway.New(gateway.Config{BaseURL: "http://127.0.0.1:1"}, logger),
		Controller: search.NewController(logger),
		Engine:     autocomplete.New("u1", "s1", logger),
		Location:   location.Static{},
		Log:        logger,
	}
}

// Delivered suggestions stay unhighlighted: enter submits the typed
// search, and only arrowing into the list selects a suggestion.
func TestEnterSubmitsWhileSuggestionsVisible(t *testing.T) {
	m := NewTextSearchModel(testDeps())
	m.inputs[fieldBusinessName].SetValue("ba")

	gen, ok := m.deps.Engine.Input(model.FieldBusinessName, "ba")
	if !ok {
		t.Fatal("two-character query should arm a timer")
	}
	if _, ok := m.deps.Engine.Fire(model.FieldBusinessName, gen); !ok {
		t.Fatal("latest generation should fire")
	}

	updated, _ := m.Update(suggestionsMsg{
		field: model.FieldBusinessName,
		gen:   gen,
		suggestions: []model.AutocompleteSuggestion{
			{Value: "Bakery Lane", Label: "Bakery Lane", Type: model.SuggestionVerified},
			{Value: "Barber Bros", Label: "Barber Bros", Type: model.SuggestionVerified},
		},
	})
	tm := updated.(TextSearchModel)
	if tm.suggIdx != -1 {
		t.Fatalf("suggIdx = %d after delivery, want -1 (no auto-highlight)", tm.suggIdx)
	}

	// Enter with nothing highlighted dispatches the search as typed.
	updated, _ = tm.Update(tea.KeyMsg{Type: tea.KeyEnter})
	tm = updated.(TextSearchModel)
	if !tm.deps.Controller.State().Loading {
		t.Error("enter should dispatch the search, not select a suggestion")
	}
	if got := tm.inputs[fieldBusinessName].Value(); got != "ba" {
		t.Errorf("input value = %q, want the typed query %q", got, "ba")
	}

	// Arrowing down highlights the first suggestion.
	updated, _ = tm.Update(tea.KeyMsg{Type: tea.KeyDown})
	tm = updated.(TextSearchModel)
	if tm.suggIdx != 0 {
		t.Errorf("suggIdx = %d after down, want 0", tm.suggIdx)
	}
}
