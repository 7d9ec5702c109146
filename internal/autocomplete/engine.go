package autocomplete

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/phuslu/log"

	"github.com/perktap/perktap/internal/model"
)

const (
	// MinQueryLen is the shortest query worth a network round-trip.
	// Anything shorter clears suggestions synchronously.
	MinQueryLen = 2

	// DebounceInterval is how long typing must pause before a suggestion
	// request fires. Each keystroke restarts the window.
	DebounceInterval = 300 * time.Millisecond

	// BlurGraceDelay lets a just-selected suggestion register before the
	// blur reconciliation compares the field value.
	BlurGraceDelay = 250 * time.Millisecond
)

// Snapshot is one emission of a field's suggestion stream: one per
// accepted response (plus synchronous clears).
type Snapshot struct {
	Suggestions []model.AutocompleteSuggestion
	Loading     bool
	Failed      bool
	Generation  uint64
}

type fieldState struct {
	generation    uint64 // latest armed generation for this field
	query         string // query behind the latest generation
	suggestions   []model.AutocompleteSuggestion
	loading       bool
	failed        bool
	lastSubmitted string // last unmatched value forwarded for moderation
}

// Engine turns free-text typing into ranked suggestion lists with
// bounded network chatter. It holds per-field debounce generations so
// that a stale response can never overwrite a newer list. Not safe for
// concurrent use; everything runs on the UI event loop.
type Engine struct {
	fields    map[model.FieldType]*fieldState
	userID    string
	sessionID string
	log       *log.Logger
}

func New(userID, sessionID string, logger *log.Logger) *Engine {
	return &Engine{
		fields:    make(map[model.FieldType]*fieldState),
		userID:    userID,
		sessionID: sessionID,
		log:       logger,
	}
}

func (e *Engine) field(f model.FieldType) *fieldState {
	fs, ok := e.fields[f]
	if !ok {
		fs = &fieldState{}
		e.fields[f] = fs
	}
	return fs
}

// Input records a keystroke. Every call supersedes the previous
// generation, so an in-flight response for older input is doomed either
// way. When ok is true the caller arms a debounce timer for gen; when
// false the query was too short and suggestions were cleared in place.
func (e *Engine) Input(f model.FieldType, query string) (gen uint64, ok bool) {
	fs := e.field(f)
	fs.generation++
	fs.query = query

	if utf8.RuneCountInString(strings.TrimSpace(query)) < MinQueryLen {
		fs.suggestions = nil
		fs.loading = false
		fs.failed = false
		return fs.generation, false
	}
	return fs.generation, true
}

// Fire is called when a debounce timer elapses. It reports whether the
// timer is still the latest for its field; only then does a request go
// out, and the field turns loading.
func (e *Engine) Fire(f model.FieldType, gen uint64) (query string, ok bool) {
	fs := e.field(f)
	if gen != fs.generation {
		return "", false
	}
	fs.loading = true
	fs.failed = false
	return fs.query, true
}

// Deliver applies a fetch outcome. Responses for superseded generations
// are discarded no matter when they arrive — the staleness rule. Returns
// whether the snapshot advanced.
func (e *Engine) Deliver(f model.FieldType, gen uint64, suggestions []model.AutocompleteSuggestion, err error) bool {
	fs := e.field(f)
	if gen != fs.generation {
		e.log.Debug().Str("field", string(f)).Uint64("generation", gen).Uint64("latest", fs.generation).
			Msg("discarding stale suggestion response")
		return false
	}

	fs.loading = false
	if err != nil {
		// Recovered locally: clear the list, flag the field, no retry.
		fs.suggestions = nil
		fs.failed = true
		e.log.Warn().Err(err).Str("field", string(f)).Msg("suggestion fetch failed")
		return true
	}
	fs.suggestions = suggestions
	fs.failed = false
	return true
}

// Snapshot returns the field's current suggestion state.
func (e *Engine) Snapshot(f model.FieldType) Snapshot {
	fs := e.field(f)
	return Snapshot{
		Suggestions: fs.suggestions,
		Loading:     fs.loading,
		Failed:      fs.failed,
		Generation:  fs.generation,
	}
}

// Reconcile runs new-entry detection after a field blurs (and the grace
// delay passed). A non-empty value matching no current suggestion —
// trimmed, case-insensitive — becomes a moderation candidate, at most
// once per distinct value.
func (e *Engine) Reconcile(f model.FieldType, value, context string) *model.UserSubmittedEntry {
	fs := e.field(f)
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	for _, s := range fs.suggestions {
		if strings.EqualFold(trimmed, strings.TrimSpace(s.Value)) ||
			strings.EqualFold(trimmed, strings.TrimSpace(s.Label)) {
			return nil
		}
	}
	if strings.EqualFold(trimmed, fs.lastSubmitted) {
		return nil
	}
	fs.lastSubmitted = trimmed

	return &model.UserSubmittedEntry{
		FieldType:    f,
		EnteredValue: trimmed,
		Context:      context,
		UserID:       e.userID,
		SessionID:    e.sessionID,
		Timestamp:    time.Now().UTC(),
		Status:       model.SubmissionPending,
	}
}
