package autocomplete

import (
	"errors"
	"testing"

	"github.com/perktap/perktap/internal/logging"
	"github.com/perktap/perktap/internal/model"
)

func newEngine() *Engine {
	return New("u1", "s1", logging.Discard())
}

func suggs(values ...string) []model.AutocompleteSuggestion {
	out := make([]model.AutocompleteSuggestion, len(values))
	for i, v := range values {
		out[i] = model.AutocompleteSuggestion{Value: v, Label: v, Type: model.SuggestionVerified}
	}
	return out
}

func TestDebounceOnlyLastKeystrokeFires(t *testing.T) {
	e := newEngine()

	// Three keystrokes inside one debounce window: each arms a new
	// generation, so only the last timer still fires.
	g1, ok := e.Input(model.FieldSector, "ba")
	if !ok {
		t.Fatal("2-char query should arm a timer")
	}
	g2, _ := e.Input(model.FieldSector, "bak")
	g3, _ := e.Input(model.FieldSector, "bake")

	if _, ok := e.Fire(model.FieldSector, g1); ok {
		t.Error("superseded timer g1 must not fire a request")
	}
	if _, ok := e.Fire(model.FieldSector, g2); ok {
		t.Error("superseded timer g2 must not fire a request")
	}
	q, ok := e.Fire(model.FieldSector, g3)
	if !ok || q != "bake" {
		t.Errorf("latest timer should fire with last query, got (%q, %v)", q, ok)
	}
	if !e.Snapshot(model.FieldSector).Loading {
		t.Error("field should be loading after fire")
	}
}

func TestShortQuerySuppression(t *testing.T) {
	e := newEngine()

	// Populate, then shrink below the threshold.
	g, _ := e.Input(model.FieldCity, "lo")
	e.Fire(model.FieldCity, g)
	e.Deliver(model.FieldCity, g, suggs("London"), nil)

	// Single characters count as runes, not bytes: "é" is two bytes but
	// still one character short of the threshold.
	for _, q := range []string{"", "l", " x ", "é", "ü "} {
		_, ok := e.Input(model.FieldCity, q)
		if ok {
			t.Errorf("query %q should not arm a timer", q)
		}
		snap := e.Snapshot(model.FieldCity)
		if len(snap.Suggestions) != 0 || snap.Loading {
			t.Errorf("query %q should clear suggestions synchronously, got %+v", q, snap)
		}
	}

	// Two multibyte characters meet the threshold.
	if _, ok := e.Input(model.FieldCity, "éé"); !ok {
		t.Error("two-character query should arm a timer regardless of byte length")
	}
}

func TestStalenessProtection(t *testing.T) {
	e := newEngine()

	// Request A ("ca") is in flight when B ("car") is issued; A resolves
	// after B and must be discarded.
	genA, _ := e.Input(model.FieldBusinessName, "ca")
	if _, ok := e.Fire(model.FieldBusinessName, genA); !ok {
		t.Fatal("A should fire")
	}

	genB, _ := e.Input(model.FieldBusinessName, "car")
	if _, ok := e.Fire(model.FieldBusinessName, genB); !ok {
		t.Fatal("B should fire")
	}

	if !e.Deliver(model.FieldBusinessName, genB, suggs("Carwash Co"), nil) {
		t.Fatal("B's response must be applied")
	}
	if e.Deliver(model.FieldBusinessName, genA, suggs("Cafe Aroma"), nil) {
		t.Fatal("A's late response must be discarded")
	}

	snap := e.Snapshot(model.FieldBusinessName)
	if len(snap.Suggestions) != 1 || snap.Suggestions[0].Value != "Carwash Co" {
		t.Errorf("list must reflect B's result, got %+v", snap.Suggestions)
	}
}

func TestShortQueryClearsInFlightResult(t *testing.T) {
	e := newEngine()

	gen, _ := e.Input(model.FieldRegion, "yo")
	e.Fire(model.FieldRegion, gen)
	// User deletes down to one character while the request is out.
	e.Input(model.FieldRegion, "y")

	if e.Deliver(model.FieldRegion, gen, suggs("Yorkshire"), nil) {
		t.Error("response for the cleared query must be discarded")
	}
	if got := e.Snapshot(model.FieldRegion).Suggestions; len(got) != 0 {
		t.Errorf("suggestions should stay empty, got %+v", got)
	}
}

func TestFetchFailureClearsFieldOnly(t *testing.T) {
	e := newEngine()

	gen, _ := e.Input(model.FieldStreet, "hi")
	e.Fire(model.FieldStreet, gen)
	e.Deliver(model.FieldStreet, gen, nil, errors.New("boom"))

	snap := e.Snapshot(model.FieldStreet)
	if !snap.Failed || snap.Loading || len(snap.Suggestions) != 0 {
		t.Errorf("failure should clear list and flag the field, got %+v", snap)
	}

	// Other fields unaffected.
	if e.Snapshot(model.FieldCity).Failed {
		t.Error("failure must be scoped to one field")
	}

	// A new attempt recovers.
	gen, _ = e.Input(model.FieldStreet, "high")
	e.Fire(model.FieldStreet, gen)
	e.Deliver(model.FieldStreet, gen, suggs("High Street"), nil)
	if snap := e.Snapshot(model.FieldStreet); snap.Failed || len(snap.Suggestions) != 1 {
		t.Errorf("new attempt should recover, got %+v", snap)
	}
}

func TestReconcileMatchesCaseInsensitive(t *testing.T) {
	e := newEngine()
	gen, _ := e.Input(model.FieldSector, "bakery")
	e.Fire(model.FieldSector, gen)
	e.Deliver(model.FieldSector, gen, suggs("Bakery"), nil)

	if entry := e.Reconcile(model.FieldSector, "bakery", "text-search"); entry != nil {
		t.Errorf("case-insensitive match must not trigger a submission, got %+v", entry)
	}
	if entry := e.Reconcile(model.FieldSector, "  Bakery  ", "text-search"); entry != nil {
		t.Errorf("whitespace-trimmed match must not trigger a submission, got %+v", entry)
	}
}

func TestReconcileUnmatchedValueSubmitsOnce(t *testing.T) {
	e := newEngine()
	gen, _ := e.Input(model.FieldSector, "patisserie")
	e.Fire(model.FieldSector, gen)
	e.Deliver(model.FieldSector, gen, suggs("Bakery"), nil)

	entry := e.Reconcile(model.FieldSector, "Patisserie", "text-search")
	if entry == nil {
		t.Fatal("unmatched value must produce a submission candidate")
	}
	if entry.EnteredValue != "Patisserie" {
		t.Errorf("enteredValue = %q, want %q", entry.EnteredValue, "Patisserie")
	}
	if entry.FieldType != model.FieldSector || entry.UserID != "u1" || entry.SessionID != "s1" {
		t.Errorf("entry not stamped correctly: %+v", entry)
	}
	if entry.Status != model.SubmissionPending {
		t.Errorf("status = %q, want pending", entry.Status)
	}

	// Blurring again with the same value stays quiet.
	if dup := e.Reconcile(model.FieldSector, "Patisserie", "text-search"); dup != nil {
		t.Errorf("same value must not be submitted twice, got %+v", dup)
	}

	// A different unmatched value is a fresh candidate.
	if next := e.Reconcile(model.FieldSector, "Boulangerie", "text-search"); next == nil {
		t.Error("distinct unmatched value should produce a new candidate")
	}
}

func TestReconcileEmptyValue(t *testing.T) {
	e := newEngine()
	if entry := e.Reconcile(model.FieldCity, "   ", "text-search"); entry != nil {
		t.Errorf("empty value must never be submitted, got %+v", entry)
	}
}
