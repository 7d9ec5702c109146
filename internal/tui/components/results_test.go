package components

import (
	"testing"

	"github.com/perktap/perktap/internal/model"
	"github.com/perktap/perktap/internal/search"
)

func TestSelectPane(t *testing.T) {
	biz := []model.Business{{ID: "b1", Name: "Corner Bakery"}}

	tests := []struct {
		name     string
		state    search.State
		searched bool
		want     Pane
	}{
		{"initial", search.State{}, false, PaneIdle},
		{"loading", search.State{Loading: true}, true, PaneLoading},
		{"error", search.State{Err: "Search failed. Please try again."}, true, PaneError},
		{"empty after search", search.State{}, true, PaneEmpty},
		{"results", search.State{Results: biz, TotalCount: 1}, true, PaneList},
		// loading wins over a stale error string never happens (reducer
		// clears it), but loading must win over stale results
		{"loading with old results", search.State{Loading: true, Results: biz}, true, PaneLoading},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectPane(tt.state, tt.searched); got != tt.want {
				t.Errorf("SelectPane() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatDistance(t *testing.T) {
	if got := FormatDistance(nil); got != "" {
		t.Errorf("nil distance rendered as %q", got)
	}

	d := 2.3456
	if got := FormatDistance(&d); got != "2.3 mi" {
		t.Errorf("FormatDistance = %q, want %q", got, "2.3 mi")
	}

	zero := 0.04
	if got := FormatDistance(&zero); got != "0.0 mi" {
		t.Errorf("FormatDistance = %q, want %q", got, "0.0 mi")
	}
}

func TestCountLabel(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 businesses found"},
		{1, "1 business found"},
		{12, "12 businesses found"},
	}
	for _, tt := range tests {
		if got := CountLabel(tt.n); got != tt.want {
			t.Errorf("CountLabel(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestPluralize(t *testing.T) {
	if got := Pluralize(1, "reward"); got != "1 reward" {
		t.Errorf("got %q", got)
	}
	if got := Pluralize(3, "campaign"); got != "3 campaigns" {
		t.Errorf("got %q", got)
	}
}

func TestFilterMatchesAccentFolded(t *testing.T) {
	list := []model.Business{
		{Name: "Pâtisserie Belle", Sector: "Bakery"},
		{Name: "Corner Cafe", Sector: "Cafe", Location: model.BusinessLocation{City: "Middlesbrough"}},
		{Name: "Gym Central", Sector: "Fitness"},
	}

	got := Filter(list, "patisserie")
	if len(got) != 1 || got[0].Name != "Pâtisserie Belle" {
		t.Errorf("accent-folded filter returned %v", got)
	}

	got = Filter(list, "cafe middlesbrough")
	if len(got) != 1 || got[0].Name != "Corner Cafe" {
		t.Errorf("multi-word filter returned %v", got)
	}

	got = Filter(list, "")
	if len(got) != 3 {
		t.Errorf("empty filter must pass everything through, got %d", len(got))
	}

	got = Filter(list, "sushi")
	if len(got) != 0 {
		t.Errorf("non-matching filter returned %v", got)
	}
}
