package search

import (
	"testing"

	"github.com/perktap/perktap/internal/model"
)

func sampleResults() []model.Business {
	return []model.Business{
		{ID: "b1", Name: "Rise Bakery", Sector: "Bakery"},
		{ID: "b2", Name: "Corner Cafe", Sector: "Cafe"},
	}
}

func TestApplyIsPure(t *testing.T) {
	before := NewState()
	_ = Apply(before, SetResults{Results: sampleResults(), TotalCount: 2})
	if before.Results != nil || before.Loading {
		t.Error("Apply must not mutate its input")
	}
}

func TestSetResultsClearsLoading(t *testing.T) {
	s := Apply(NewState(), SetLoading{Loading: true})
	s = Apply(s, SetResults{Results: sampleResults(), TotalCount: 2})
	if s.Loading {
		t.Error("setResults must clear loading")
	}
	if s.TotalCount != 2 || len(s.Results) != 2 {
		t.Errorf("results not stored: %+v", s)
	}
}

func TestSetErrorImpliesNotLoading(t *testing.T) {
	s := Apply(NewState(), SetLoading{Loading: true})
	s = Apply(s, SetError{Message: TextFailureMessage})
	if s.Loading {
		t.Error("setError must clear loading")
	}
	if s.Err != TextFailureMessage {
		t.Errorf("Err = %q", s.Err)
	}
}

func TestLoadingClearsError(t *testing.T) {
	s := Apply(NewState(), SetError{Message: "old failure"})
	s = Apply(s, SetLoading{Loading: true})
	if s.Err != "" {
		t.Error("starting a new attempt must clear the previous error")
	}
}

// Mutual exclusivity: for every reachable state, never loading with an
// error set at the same time.
func TestMutualExclusivityInvariant(t *testing.T) {
	actions := []Action{
		SetLoading{Loading: true},
		SetError{Message: "boom"},
		SetLoading{Loading: true},
		SetResults{Results: sampleResults(), TotalCount: 2},
		SetMode{Mode: ModeMap},
		SetLoading{Loading: true},
		SetError{Message: MapFailureMessage},
		SetError{Message: ""},
		SetLoading{Loading: true},
		SetLoading{Loading: false},
		Reset{},
	}

	s := NewState()
	for i, a := range actions {
		s = Apply(s, a)
		if s.Loading && s.Err != "" {
			t.Fatalf("after action %d (%T): loading and error both set: %+v", i, a, s)
		}
	}
}

func TestModeSwitchKeepsResults(t *testing.T) {
	s := Apply(NewState(), SetResults{Results: sampleResults(), TotalCount: 2})
	s = Apply(s, SetMode{Mode: ModeMap})
	if len(s.Results) != 2 || s.TotalCount != 2 {
		t.Error("switching modes must keep stale results visible")
	}
}

func TestReset(t *testing.T) {
	s := Apply(NewState(), SetResults{Results: sampleResults(), TotalCount: 2})
	s = Apply(s, SetMode{Mode: ModeMap})
	s = Apply(s, Reset{})
	if s.Mode != ModeText || s.Results != nil || s.TotalCount != 0 || s.Loading || s.Err != "" {
		t.Errorf("reset should return the initial state, got %+v", s)
	}
	if s.Criteria.Page != 1 || s.Criteria.PageSize != model.DefaultPageSize {
		t.Errorf("initial criteria wrong: %+v", s.Criteria)
	}
}
